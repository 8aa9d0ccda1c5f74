package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalgraph/mediq/internal/config"
)

func TestNewClientMockProviderIsNil(t *testing.T) {
	for _, provider := range []string{"", "mock", "MOCK"} {
		client, err := NewClient(context.Background(), config.LLMConfig{Provider: provider})
		require.NoError(t, err, provider)
		assert.Nil(t, client, provider)
	}
}

func TestNewClientBuildsProviderClients(t *testing.T) {
	ctx := context.Background()

	cases := []config.LLMConfig{
		{Provider: "openai", APIKey: "sk-test", Model: "gpt-4"},
		{Provider: "siliconflow", APIKey: "sk-test", Model: "deepseek-ai/DeepSeek-V3.2"},
		{Provider: "claude", APIKey: "sk-test", Model: "claude-3-5-sonnet-20241022"},
		{Provider: "ollama", Model: "qwen2.5:7b"},
	}
	for _, cfg := range cases {
		client, err := NewClient(ctx, cfg)
		require.NoError(t, err, cfg.Provider)
		require.NotNil(t, client, cfg.Provider)
		assert.Equal(t, cfg.Model, client.Model(), cfg.Provider)
	}
}

func TestNewClientCaseInsensitive(t *testing.T) {
	client, err := NewClient(context.Background(), config.LLMConfig{Provider: "OpenAI", APIKey: "sk-test", Model: "gpt-4"})
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewClientUnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), config.LLMConfig{Provider: "bard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}

func TestRegistrySwap(t *testing.T) {
	initial := config.LLMConfig{Provider: "mock"}
	r := NewRegistry(nil, initial)
	assert.Nil(t, r.Current())
	assert.Equal(t, initial, r.Config())

	client := NewOpenAIClient("sk-test", "gpt-4", "")
	next := config.LLMConfig{Provider: "openai", APIKey: "sk-test", Model: "gpt-4"}
	r.Swap(client, next)

	assert.Equal(t, client, r.Current())
	assert.Equal(t, next, r.Config())
}
