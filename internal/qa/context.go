package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vitalgraph/mediq/internal/model"
)

const (
	memoryTopK    = 5
	evidenceExtra = 2
)

// GraphContext is the slice of the graph service the assembler needs beyond
// searching.
type GraphContext interface {
	GraphSearcher
	PathsForEntities(ctx context.Context, entities []string) []model.KGPath
	ContextForEntities(ctx context.Context, entities []string) string
}

// EvidenceSearcher retrieves literature snippets for a question.
type EvidenceSearcher interface {
	Search(ctx context.Context, query string, keywords []string, limit int) []model.Evidence
}

// MemorySearcher retrieves prior user memories relevant to a question.
type MemorySearcher interface {
	Search(ctx context.Context, query, userID string, topK int) ([]model.MemoryHit, error)
}

// ContextBundle is everything the generation stage needs: the graph context
// text, retrieved paths, literature evidence, and user memories.
type ContextBundle struct {
	Entities        []string
	CurrentEntities []string
	KGContext       string
	EvidenceContext string
	Paths           []model.KGPath
	Evidence        []model.Evidence
	Memories        []model.MemoryHit
}

// HasContext reports whether any graph-derived context exists. Memory text
// counts because it is folded into the graph context.
func (b *ContextBundle) HasContext() bool {
	return b.KGContext != "" || len(b.Paths) > 0
}

// Assembler gathers graph paths, graph context, literature evidence and user
// memories for a resolved question.
type Assembler struct {
	graph    GraphContext
	evidence EvidenceSearcher
	memory   MemorySearcher
	resolver *Resolver
	log      *slog.Logger
}

func NewAssembler(graph GraphContext, evidence EvidenceSearcher, memory MemorySearcher, resolver *Resolver, log *slog.Logger) *Assembler {
	return &Assembler{
		graph:    graph,
		evidence: evidence,
		memory:   memory,
		resolver: resolver,
		log:      log,
	}
}

// Assemble resolves entities and fans out the independent retrievals. Memory
// failures degrade to an answer without memories rather than an error.
func (a *Assembler) Assemble(ctx context.Context, req *model.QueryRequest) *ContextBundle {
	bundle := &ContextBundle{}
	bundle.Entities = a.resolver.Resolve(ctx, req.Query, req.History)
	a.log.Debug("resolved entities", "count", len(bundle.Entities), "entities", bundle.Entities)

	g, gctx := errgroup.WithContext(ctx)

	if req.WantKGPaths() && len(bundle.Entities) > 0 {
		g.Go(func() error {
			bundle.Paths = a.graph.PathsForEntities(gctx, bundle.Entities)
			return nil
		})
	}

	if req.WantEvidence() {
		g.Go(func() error {
			bundle.CurrentEntities = a.resolver.ResolveCurrentTurn(gctx, req.Query)
			bundle.Evidence = a.evidence.Search(gctx, req.Query, bundle.CurrentEntities, req.MaxAnswers+evidenceExtra)
			return nil
		})
	}

	var graphContext string
	if len(bundle.Entities) > 0 && a.graph.Connected() {
		g.Go(func() error {
			graphContext = a.graph.ContextForEntities(gctx, bundle.Entities)
			return nil
		})
	}

	if req.UserID != "" && a.memory != nil {
		g.Go(func() error {
			hits, err := a.memory.Search(gctx, req.Query, req.UserID, memoryTopK)
			if err != nil {
				a.log.Debug("memory search failed", "error", err)
				return nil
			}
			bundle.Memories = hits
			return nil
		})
	}

	_ = g.Wait()

	bundle.KGContext = a.composeKGContext(bundle.Memories, graphContext, bundle.Paths)
	bundle.EvidenceContext = a.composeEvidenceContext(bundle.Evidence, bundle.Memories)
	return bundle
}

// composeKGContext folds memories, the graph context and a path fallback
// into the text handed to the prompt builder.
func (a *Assembler) composeKGContext(memories []model.MemoryHit, graphContext string, paths []model.KGPath) string {
	var sb strings.Builder

	if len(memories) > 0 {
		sb.WriteString("用户历史记忆：\n")
		for _, m := range memories {
			fmt.Fprintf(&sb, "- (%.2f) %s\n", m.Score, m.Content)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(graphContext)

	// Path bullets back up the composed text as a whole: memories or graph
	// context already present suppress them.
	if sb.Len() == 0 && len(paths) > 0 {
		sb.WriteString("相关医学知识：\n")
		for _, path := range paths[:min(3, len(paths))] {
			for _, node := range path.Nodes {
				fmt.Fprintf(&sb, "- %s: %s", node.Type, node.Label)
				if desc := node.Properties["description"]; desc != "" {
					fmt.Fprintf(&sb, " - %s", desc)
				}
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

func (a *Assembler) composeEvidenceContext(evidence []model.Evidence, memories []model.MemoryHit) string {
	var sb strings.Builder
	if len(evidence) > 0 {
		sb.WriteString("医学文献证据：\n")
		for _, ev := range evidence[:min(5, len(evidence))] {
			fmt.Fprintf(&sb, "- [%s] %s\n", ev.Source, ev.Snippet)
		}
	}
	if len(memories) > 0 {
		sb.WriteString("\n检索到的相关记忆：\n")
		for _, m := range memories {
			fmt.Fprintf(&sb, "- %s\n", m.Content)
		}
	}
	return sb.String()
}
