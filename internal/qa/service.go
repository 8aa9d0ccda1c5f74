package qa

import (
	"context"
	"encoding/hex"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/vitalgraph/mediq/internal/model"
)

const memorySnippetLimit = 1000

// MemoryWriter persists a memory snippet after an answer completes.
type MemoryWriter interface {
	Store(ctx context.Context, userID, content string, metadata map[string]string) error
}

// Service runs the full question answering pipeline: entity resolution,
// context assembly, answer generation and response shaping. Admission is
// bounded so a burst of requests cannot exhaust the graph or provider.
type Service struct {
	assembler *Assembler
	generator *Generator
	graph     GraphContext
	memory    MemoryWriter
	admission *semaphore.Weighted
	log       *slog.Logger
}

func NewService(assembler *Assembler, generator *Generator, graph GraphContext, memory MemoryWriter, maxConcurrent int64, log *slog.Logger) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Service{
		assembler: assembler,
		generator: generator,
		graph:     graph,
		memory:    memory,
		admission: semaphore.NewWeighted(maxConcurrent),
		log:       log,
	}
}

// Process answers a single question and returns the structured response.
func (s *Service) Process(ctx context.Context, req *model.QueryRequest) (*model.QueryResponse, error) {
	if err := s.admission.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.admission.Release(1)

	start := time.Now()
	queryID := newQueryID()
	s.log.Info("processing query", "query_id", queryID, "query", truncate(req.Query, 50))

	bundle := s.assembler.Assemble(ctx, req)
	outcome := s.generator.Generate(ctx, req, bundle)

	resp := s.buildResponse(queryID, req, bundle, outcome, start)
	s.writeMemory(req, queryID, outcome.Answer)
	return resp, nil
}

// ProcessStream answers a question incrementally, emitting progress and
// content events on the returned channel. The channel closes when the
// stream completes or the context is cancelled.
func (s *Service) ProcessStream(ctx context.Context, req *model.QueryRequest) (<-chan Event, error) {
	if err := s.admission.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer s.admission.Release(1)
		s.streamInternal(ctx, req, out)
	}()
	return out, nil
}

func (s *Service) streamInternal(ctx context.Context, req *model.QueryRequest, out chan<- Event) {
	start := time.Now()
	queryID := newQueryID()
	s.log.Info("processing stream query", "query_id", queryID, "query", truncate(req.Query, 50))

	if !emit(ctx, out, statusEvent("searching", "正在检索知识图谱...")) {
		return
	}

	bundle := s.assembler.Assemble(ctx, req)

	count := len(bundle.Evidence)
	if !emit(ctx, out, Event{Status: "evidence_found", Count: &count}) {
		return
	}
	if !emit(ctx, out, statusEvent("generating", "正在生成回答...")) {
		return
	}

	outcome, ok := s.generator.streamGenerate(ctx, req, bundle, out)
	if !ok {
		return
	}

	resp := s.buildResponse(queryID, req, bundle, outcome, start)
	if !emit(ctx, out, Event{Status: "complete", Response: resp}) {
		return
	}

	// Memory is written only after the complete event reached the client.
	s.writeMemory(req, queryID, outcome.Answer)
}

// buildResponse derives the answer source from how the answer was actually
// generated, computes confidence from evidence, and attaches warnings.
func (s *Service) buildResponse(queryID string, req *model.QueryRequest, bundle *ContextBundle, outcome Outcome, start time.Time) *model.QueryResponse {
	var source model.AnswerSource
	if outcome.Method == methodTemplate {
		if bundle.HasContext() {
			source = model.AnswerKnowledgeGraph
		} else {
			source = model.AnswerTemplate
		}
	} else {
		if bundle.HasContext() {
			source = model.AnswerMixed
		} else {
			source = model.AnswerLLMOnly
		}
	}

	var warnings []string
	if len(bundle.Evidence) == 0 {
		warnings = append(warnings, "未找到直接相关的医学文献")
	}
	if !bundle.HasContext() {
		warnings = append(warnings, "知识图谱中未找到相关信息")
	}
	if !s.graph.Connected() {
		warnings = append(warnings, "知识图谱服务未连接")
	}

	evidence := bundle.Evidence
	if len(evidence) > req.MaxAnswers {
		evidence = evidence[:req.MaxAnswers]
	}

	return &model.QueryResponse{
		QueryID:          queryID,
		Answer:           outcome.Answer,
		AnswerSource:     source,
		Evidence:         evidence,
		KGPaths:          bundle.Paths,
		ConfidenceScore:  confidence(bundle.Evidence),
		Warnings:         warnings,
		Disclaimer:       model.Disclaimer,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		ModelUsed:        outcome.Model,
	}
}

// confidence is the mean evidence confidence, rounded to two decimals, with
// a neutral default when no scored evidence exists.
func confidence(evidence []model.Evidence) float64 {
	var (
		sum float64
		n   int
	)
	for _, ev := range evidence {
		if ev.Confidence > 0 {
			sum += ev.Confidence
			n++
		}
	}
	if n == 0 {
		return 0.7
	}
	return math.Round(sum/float64(n)*100) / 100
}

// writeMemory stores a question/answer snippet detached from the request
// context so client disconnects cannot cancel the write.
func (s *Service) writeMemory(req *model.QueryRequest, queryID, answer string) {
	if req.UserID == "" || s.memory == nil {
		return
	}
	content := "Q: " + req.Query + "\nA: " + truncate(answer, memorySnippetLimit)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.memory.Store(ctx, req.UserID, content, map[string]string{"query_id": queryID}); err != nil {
			s.log.Debug("failed to store memory", "error", err)
		}
	}()
}

func newQueryID() string {
	u := uuid.New()
	return "q_" + hex.EncodeToString(u[:6])
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
