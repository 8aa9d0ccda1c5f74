package qa

import (
	"context"
	"time"

	"github.com/vitalgraph/mediq/internal/llm"
	"github.com/vitalgraph/mediq/internal/model"
)

// typingDelay paces template answers so streamed output reads like live
// generation.
const typingDelay = 10 * time.Millisecond

// Event is one streamed progress or content message.
type Event struct {
	Status   string               `json:"status"`
	Message  string               `json:"message,omitempty"`
	Count    *int                 `json:"count,omitempty"`
	Text     string               `json:"text,omitempty"`
	Response *model.QueryResponse `json:"response,omitempty"`
}

func statusEvent(status, message string) Event {
	return Event{Status: status, Message: message}
}

func contentEvent(text string) Event {
	return Event{Status: "content", Text: text}
}

// emit delivers one event, honoring cancellation.
func emit(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// streamGenerate produces the answer incrementally, sending content events
// as fragments arrive. It returns the same Outcome shape as Generate.
func (g *Generator) streamGenerate(ctx context.Context, req *model.QueryRequest, bundle *ContextBundle, out chan<- Event) (Outcome, bool) {
	client := g.registry.Current()
	if client == nil {
		outcome := g.template(req, bundle)
		return outcome, streamText(ctx, out, outcome.Answer)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	fragments, err := client.Stream(callCtx, buildMessages(req, bundle), llm.Options{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return g.streamFallback(ctx, req, bundle, out, err, client.Model())
	}

	var answer string
	for fragment := range fragments {
		if fragment.Err != nil {
			// The partial text already sent is not a usable answer.
			return g.streamFallback(ctx, req, bundle, out, fragment.Err, client.Model())
		}
		answer += fragment.Text
		if !emit(ctx, out, contentEvent(fragment.Text)) {
			return Outcome{}, false
		}
	}

	if !bundle.HasContext() {
		notice := noKGNotice(client.Model())
		answer += notice
		if !emit(ctx, out, contentEvent(notice)) {
			return Outcome{}, false
		}
	}
	return Outcome{Answer: answer, Method: methodProvider, Model: client.Model()}, true
}

// streamFallback substitutes the template answer when the provider fails
// before or during streaming. The fallback is sent as a single content event.
func (g *Generator) streamFallback(ctx context.Context, req *model.QueryRequest, bundle *ContextBundle, out chan<- Event, cause error, modelName string) (Outcome, bool) {
	g.log.Warn("provider stream failed, using template fallback", "error", cause, "model", modelName)
	answer := templateAnswer(req.Query, bundle.Entities, bundle.Evidence, bundle.KGContext)
	if !emit(ctx, out, contentEvent(answer)) {
		return Outcome{}, false
	}
	return Outcome{Answer: answer, Method: methodTemplate, Model: "mock-llm"}, true
}

// streamText emits a full answer rune by rune with a typing delay.
func streamText(ctx context.Context, out chan<- Event, text string) bool {
	for _, r := range text {
		if !emit(ctx, out, contentEvent(string(r))) {
			return false
		}
		select {
		case <-time.After(typingDelay):
		case <-ctx.Done():
			return false
		}
	}
	return true
}
