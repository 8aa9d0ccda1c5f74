package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Model() string {
	return c.model
}

func (c *GeminiClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	model, prompt := c.prepare(messages, opts)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if text := candidateText(resp); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("no response candidates or content")
}

func (c *GeminiClient) Stream(ctx context.Context, messages []Message, opts Options) (<-chan Fragment, error) {
	model, prompt := c.prepare(messages, opts)
	iter := model.GenerateContentStream(ctx, genai.Text(prompt))

	out := make(chan Fragment)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				select {
				case out <- Fragment{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			text := candidateText(resp)
			if text == "" {
				continue
			}
			select {
			case out <- Fragment{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// prepare flattens the chat into a single prompt. Gemini keeps system
// instructions separate from the conversation.
func (c *GeminiClient) prepare(messages []Message, opts Options) (*genai.GenerativeModel, string) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	var prompt string
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
		case RoleAssistant:
			prompt += "助手: " + m.Content + "\n"
		default:
			prompt += m.Content + "\n"
		}
	}
	return model, prompt
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	return text
}
