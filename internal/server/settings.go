package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalgraph/mediq/internal/config"
	"github.com/vitalgraph/mediq/internal/llm"
)

// UpdateLLMRequest switches the active provider at runtime. Changes do not
// survive a restart.
type UpdateLLMRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key,omitempty"`
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

var providerCatalog = []gin.H{
	{
		"id":          "siliconflow",
		"name":        "硅基流动 (SiliconFlow)",
		"description": "支持 DeepSeek、Qwen 等模型",
		"models": []gin.H{
			{"id": "deepseek-ai/DeepSeek-V3.2", "name": "DeepSeek-V3.2 (快速)"},
			{"id": "deepseek-ai/DeepSeek-R1", "name": "DeepSeek-R1 (深度思考)"},
			{"id": "Qwen/Qwen3-VL-32B-Thinking", "name": "Qwen3-VL-32B (思考)"},
			{"id": "Qwen/Qwen3-VL-32B-Instruct", "name": "Qwen3-VL-32B (指令)"},
		},
		"base_url":     "https://api.siliconflow.cn/v1",
		"requires_key": true,
	},
	{
		"id":          "gemini",
		"name":        "Google Gemini",
		"description": "Google 的 Gemini 模型",
		"models": []gin.H{
			{"id": "gemini-1.5-flash", "name": "Gemini 1.5 Flash"},
		},
		"requires_key": true,
	},
	{
		"id":          "openai",
		"name":        "OpenAI",
		"description": "OpenAI GPT 系列模型",
		"models": []gin.H{
			{"id": "gpt-4", "name": "GPT-4"},
			{"id": "gpt-3.5-turbo", "name": "GPT-3.5 Turbo"},
		},
		"requires_key": true,
	},
	{
		"id":          "claude",
		"name":        "Anthropic Claude",
		"description": "Anthropic 的 Claude 模型",
		"models": []gin.H{
			{"id": "claude-3-5-sonnet-20241022", "name": "Claude 3.5 Sonnet"},
		},
		"requires_key": true,
	},
	{
		"id":           "ollama",
		"name":         "Ollama",
		"description":  "本地部署的开源模型",
		"models":       []gin.H{},
		"requires_key": false,
	},
	{
		"id":          "mock",
		"name":        "知识图谱模式",
		"description": "直接使用知识图谱数据回答，无需 API Key",
		"models": []gin.H{
			{"id": "knowledge-graph", "name": "知识图谱直接回答"},
		},
		"requires_key": false,
	},
}

// LLMStatus reports the active provider and the selectable catalog.
func (s *Server) LLMStatus(c *gin.Context) {
	cfg := s.registry.Config()

	provider := cfg.Provider
	if provider == "" {
		provider = "mock"
	}
	currentModel := cfg.Model
	if provider == "mock" {
		currentModel = "知识图谱直接回答"
	}

	c.JSON(http.StatusOK, gin.H{
		"current_provider":    provider,
		"current_model":       currentModel,
		"is_connected":        s.registry.Current() != nil || provider == "mock",
		"available_providers": providerCatalog,
		"has_api_key": gin.H{
			"siliconflow": provider == "siliconflow" && cfg.APIKey != "",
			"gemini":      provider == "gemini" && cfg.APIKey != "",
			"openai":      provider == "openai" && cfg.APIKey != "",
			"claude":      provider == "claude" && cfg.APIKey != "",
			"ollama":      true,
			"mock":        true,
		},
	})
}

// UpdateLLM swaps the active provider client.
func (s *Server) UpdateLLM(c *gin.Context) {
	var req UpdateLLMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cfg, err := s.resolveLLMConfig(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := llm.NewClient(c.Request.Context(), cfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "配置更新失败: " + err.Error()})
		return
	}

	s.registry.Swap(client, cfg)
	s.log.Info("llm provider updated", "provider", cfg.Provider, "model", cfg.Model)

	model := cfg.Model
	if cfg.Provider == "mock" {
		model = "知识图谱直接回答"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "已切换到 " + cfg.Provider,
		"provider": cfg.Provider,
		"model":    model,
	})
}

// TestLLM builds a throwaway client and sends a tiny completion.
func (s *Server) TestLLM(c *gin.Context) {
	var req UpdateLLMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	cfg, err := s.resolveLLMConfig(req)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}
	if cfg.Provider == "mock" {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "知识图谱模式无需测试"})
		return
	}

	client, err := llm.NewClient(c.Request.Context(), cfg)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "连接测试失败: " + err.Error()})
		return
	}

	resp, err := client.Complete(c.Request.Context(), []llm.Message{
		{Role: llm.RoleUser, Content: "你好"},
	}, llm.Options{MaxTokens: 10})
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "连接测试失败: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  cfg.Provider + " 连接成功",
		"response": resp,
	})
}

// resolveLLMConfig fills request gaps from the active configuration and
// provider defaults.
func (s *Server) resolveLLMConfig(req UpdateLLMRequest) (config.LLMConfig, error) {
	current := s.registry.Config()

	cfg := config.LLMConfig{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Model:    req.Model,
		BaseURL:  req.BaseURL,
	}
	if cfg.Provider == "" {
		return config.LLMConfig{}, errMissingProvider
	}
	if cfg.APIKey == "" && current.Provider == cfg.Provider {
		cfg.APIKey = current.APIKey
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider, current)
	}

	switch cfg.Provider {
	case "siliconflow", "gemini", "openai", "claude":
		if cfg.APIKey == "" {
			return config.LLMConfig{}, errMissingAPIKey
		}
	}
	return cfg, nil
}

func defaultModel(provider string, current config.LLMConfig) string {
	if current.Provider == provider && current.Model != "" {
		return current.Model
	}
	switch provider {
	case "siliconflow":
		return "deepseek-ai/DeepSeek-V3.2"
	case "gemini":
		return "gemini-1.5-flash"
	case "openai":
		return "gpt-4"
	case "claude":
		return "claude-3-5-sonnet-20241022"
	case "ollama":
		return "qwen2.5:7b"
	default:
		return "knowledge-graph"
	}
}
