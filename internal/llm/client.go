package llm

import (
	"context"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat exchange sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// Options tunes a single generation call.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Fragment is one streamed piece of a completion. A fragment with a non-nil
// Err reports a mid-stream failure; it is the last fragment delivered before
// the channel closes, and any text received so far is incomplete.
type Fragment struct {
	Text string
	Err  error
}

// Client generates answers from an LLM provider. Stream returns a channel of
// fragments that is closed when generation finishes; a stream that fails
// after starting delivers a final fragment carrying the error.
type Client interface {
	Model() string
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
	Stream(ctx context.Context, messages []Message, opts Options) (<-chan Fragment, error)
}
