package llm

import (
	"sync"

	"github.com/vitalgraph/mediq/internal/config"
)

// Registry holds the active provider client and its configuration so the
// settings API can swap providers at runtime without restarting the server.
type Registry struct {
	mu     sync.RWMutex
	client Client
	cfg    config.LLMConfig
}

func NewRegistry(client Client, cfg config.LLMConfig) *Registry {
	return &Registry{client: client, cfg: cfg}
}

// Current returns the active client, which may be nil when running in
// template-only mode.
func (r *Registry) Current() Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

func (r *Registry) Config() config.LLMConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Swap installs a new client and configuration atomically.
func (r *Registry) Swap(client Client, cfg config.LLMConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.client = client
	r.cfg = cfg
}
