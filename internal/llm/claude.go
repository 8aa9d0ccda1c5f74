package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(apiKey, opts...)
	return &ClaudeClient{
		client: client,
		model:  model,
	}
}

func (c *ClaudeClient) Model() string {
	return c.model
}

func (c *ClaudeClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	resp, err := c.client.CreateMessages(ctx, c.request(messages, opts))
	if err != nil {
		return "", err
	}
	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", fmt.Errorf("no response content")
}

func (c *ClaudeClient) Stream(ctx context.Context, messages []Message, opts Options) (<-chan Fragment, error) {
	out := make(chan Fragment)
	req := anthropic.MessagesStreamRequest{
		MessagesRequest: c.request(messages, opts),
		OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
			if data.Delta.Text == nil || *data.Delta.Text == "" {
				return
			}
			select {
			case out <- Fragment{Text: *data.Delta.Text}:
			case <-ctx.Done():
			}
		},
	}
	go func() {
		defer close(out)
		if _, err := c.client.CreateMessagesStream(ctx, req); err != nil {
			select {
			case out <- Fragment{Err: err}:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

func (c *ClaudeClient) request(messages []Message, opts Options) anthropic.MessagesRequest {
	var (
		system string
		msgs   []anthropic.Message
	)
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = m.Content
			continue
		}
		role := anthropic.RoleUser
		if m.Role == RoleAssistant {
			role = anthropic.RoleAssistant
		}
		msgs = append(msgs, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
		})
	}

	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	return anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		System:      system,
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: &opts.Temperature,
	}
}
