package qa

import (
	"context"

	"github.com/vitalgraph/mediq/internal/llm"
	"github.com/vitalgraph/mediq/internal/model"
)

// mockGraph serves canned disease and symptom lookups keyed by the exact
// search keyword.
type mockGraph struct {
	IsConnected bool
	Diseases    map[string]string
	Symptoms    map[string]string
	Context     string
	Paths       []model.KGPath

	DiseaseQueries []string
}

func (m *mockGraph) Connected() bool { return m.IsConnected }

func (m *mockGraph) SearchDisease(ctx context.Context, keyword string, limit int) []string {
	m.DiseaseQueries = append(m.DiseaseQueries, keyword)
	return m.lookup(m.Diseases, keyword, limit)
}

func (m *mockGraph) SearchSymptom(ctx context.Context, keyword string, limit int) []string {
	return m.lookup(m.Symptoms, keyword, limit)
}

func (m *mockGraph) lookup(table map[string]string, keyword string, limit int) []string {
	if !m.IsConnected || limit <= 0 {
		return nil
	}
	if v, ok := table[keyword]; ok {
		return []string{v}
	}
	return nil
}

func (m *mockGraph) PathsForEntities(ctx context.Context, entities []string) []model.KGPath {
	return m.Paths
}

func (m *mockGraph) ContextForEntities(ctx context.Context, entities []string) string {
	return m.Context
}

type mockEvidenceStore struct {
	Results      []model.Evidence
	LastQuery    string
	LastKeywords []string
	LastLimit    int
}

func (m *mockEvidenceStore) Search(ctx context.Context, query string, keywords []string, limit int) []model.Evidence {
	m.LastQuery = query
	m.LastKeywords = keywords
	m.LastLimit = limit
	if len(m.Results) > limit {
		return m.Results[:limit]
	}
	return m.Results
}

type storedMemory struct {
	UserID   string
	Content  string
	Metadata map[string]string
}

type mockMemoryStore struct {
	Hits   []model.MemoryHit
	Stored chan storedMemory
}

func newMockMemoryStore() *mockMemoryStore {
	return &mockMemoryStore{Stored: make(chan storedMemory, 4)}
}

func (m *mockMemoryStore) Search(ctx context.Context, query, userID string, topK int) ([]model.MemoryHit, error) {
	if len(m.Hits) > topK {
		return m.Hits[:topK], nil
	}
	return m.Hits, nil
}

func (m *mockMemoryStore) Store(ctx context.Context, userID, content string, metadata map[string]string) error {
	m.Stored <- storedMemory{UserID: userID, Content: content, Metadata: metadata}
	return nil
}

// mockClient implements llm.Client with fixed output. StreamErr simulates a
// provider failure after streaming has started: it is delivered as the final
// fragment once all Fragments are out.
type mockClient struct {
	ModelName string
	Response  string
	Fragments []string
	Err       error
	StreamErr error

	LastMessages []llm.Message
}

func (m *mockClient) Model() string {
	if m.ModelName == "" {
		return "test-model"
	}
	return m.ModelName
}

func (m *mockClient) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	m.LastMessages = messages
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *mockClient) Stream(ctx context.Context, messages []llm.Message, opts llm.Options) (<-chan llm.Fragment, error) {
	m.LastMessages = messages
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(chan llm.Fragment, len(m.Fragments)+1)
	for _, f := range m.Fragments {
		out <- llm.Fragment{Text: f}
	}
	if m.StreamErr != nil {
		out <- llm.Fragment{Err: m.StreamErr}
	}
	close(out)
	return out, nil
}
