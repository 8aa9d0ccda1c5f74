package qa

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitalgraph/mediq/internal/llm"
	"github.com/vitalgraph/mediq/internal/model"
)

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 2000
)

const (
	methodTemplate = "template"
	methodProvider = "provider"
)

// Outcome is the result of the generation stage. Method records how the
// answer was actually produced, which may differ from the configured
// provider when a call fails or times out.
type Outcome struct {
	Answer string
	Method string
	Model  string
}

// Generator produces an answer from the assembled context, falling back to
// template answers when no provider is configured or the provider fails.
type Generator struct {
	registry *llm.Registry
	timeout  time.Duration
	log      *slog.Logger
}

func NewGenerator(registry *llm.Registry, timeout time.Duration, log *slog.Logger) *Generator {
	return &Generator{registry: registry, timeout: timeout, log: log}
}

// Generate returns the complete answer for a non-streaming request.
func (g *Generator) Generate(ctx context.Context, req *model.QueryRequest, bundle *ContextBundle) Outcome {
	client := g.registry.Current()
	if client == nil {
		return g.template(req, bundle)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	answer, err := client.Complete(callCtx, buildMessages(req, bundle), llm.Options{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		g.log.Warn("provider generation failed, using template fallback", "error", err, "model", client.Model())
		// A failed provider call falls back to the topic templates even when
		// no graph context exists.
		answer := templateAnswer(req.Query, bundle.Entities, bundle.Evidence, bundle.KGContext)
		return Outcome{Answer: answer, Method: methodTemplate, Model: "mock-llm"}
	}

	if !bundle.HasContext() {
		answer += noKGNotice(client.Model())
	}
	return Outcome{Answer: answer, Method: methodProvider, Model: client.Model()}
}

func (g *Generator) template(req *model.QueryRequest, bundle *ContextBundle) Outcome {
	var answer string
	if bundle.HasContext() {
		answer = templateAnswer(req.Query, bundle.Entities, bundle.Evidence, bundle.KGContext)
	} else {
		answer = noContextAnswer(bundle.Entities)
	}
	return Outcome{Answer: answer, Method: methodTemplate, Model: "mock-llm"}
}
