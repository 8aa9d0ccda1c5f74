package qa

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalgraph/mediq/internal/config"
	"github.com/vitalgraph/mediq/internal/llm"
	"github.com/vitalgraph/mediq/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type serviceFixture struct {
	graph    *mockGraph
	evidence *mockEvidenceStore
	memory   *mockMemoryStore
	client   llm.Client
	service  *Service
}

func newServiceFixture(graph *mockGraph, evidence *mockEvidenceStore, memory *mockMemoryStore, client llm.Client) *serviceFixture {
	log := discardLogger()
	cfg := config.LLMConfig{Provider: "mock"}
	if client != nil {
		cfg = config.LLMConfig{Provider: "openai", Model: "test-model"}
	}
	registry := llm.NewRegistry(client, cfg)

	var (
		searcher MemorySearcher
		writer   MemoryWriter
	)
	if memory != nil {
		searcher = memory
		writer = memory
	}

	resolver := NewResolver(graph)
	assembler := NewAssembler(graph, evidence, searcher, resolver, log)
	generator := NewGenerator(registry, time.Second, log)
	svc := NewService(assembler, generator, graph, writer, 5, log)

	return &serviceFixture{graph: graph, evidence: evidence, memory: memory, client: client, service: svc}
}

func someEvidence() []model.Evidence {
	return []model.Evidence{
		{Source: "中华神经科杂志", SourceType: model.SourcePubMed, Snippet: "偏头痛是常见的原发性头痛。", Confidence: 0.9},
		{Source: "Headache", SourceType: model.SourcePubMed, Snippet: "紧张性头痛最常见。", Confidence: 0.7},
	}
}

func TestProcessTemplateWithContext(t *testing.T) {
	graph := &mockGraph{IsConnected: true, Context: "【偏头痛】\n简介：常见的原发性头痛。\n"}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, nil)

	resp, err := fx.service.Process(context.Background(), validRequest("偏头痛怎么办"))
	require.NoError(t, err)

	assert.Equal(t, model.AnswerKnowledgeGraph, resp.AnswerSource)
	assert.Contains(t, resp.Answer, "偏头痛")
	assert.Contains(t, resp.Answer, "未使用AI大模型")
	assert.Equal(t, "mock-llm", resp.ModelUsed)
	assert.Equal(t, model.Disclaimer, resp.Disclaimer)
	assert.True(t, strings.HasPrefix(resp.QueryID, "q_"))
	assert.Len(t, resp.QueryID, 14)
}

func TestProcessTemplateWithoutContext(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, nil)

	resp, err := fx.service.Process(context.Background(), validRequest("随便聊聊"))
	require.NoError(t, err)

	assert.Equal(t, model.AnswerTemplate, resp.AnswerSource)
	assert.Contains(t, resp.Answer, "暂无")
	assert.Contains(t, resp.Warnings, "知识图谱中未找到相关信息")
}

func TestProcessProviderWithContext(t *testing.T) {
	graph := &mockGraph{IsConnected: true, Context: "【偏头痛】\n简介：常见的原发性头痛。\n"}
	client := &mockClient{Response: "偏头痛的建议如下。"}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, client)

	resp, err := fx.service.Process(context.Background(), validRequest("偏头痛怎么办"))
	require.NoError(t, err)

	assert.Equal(t, model.AnswerMixed, resp.AnswerSource)
	assert.Equal(t, "偏头痛的建议如下。", resp.Answer)
	assert.Equal(t, "test-model", resp.ModelUsed)
	assert.NotContains(t, resp.Answer, "来源说明")
}

func TestProcessProviderWithoutContextAppendsNotice(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	client := &mockClient{Response: "一般性的健康建议。"}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, client)

	resp, err := fx.service.Process(context.Background(), validRequest("随便聊聊"))
	require.NoError(t, err)

	assert.Equal(t, model.AnswerLLMOnly, resp.AnswerSource)
	assert.Contains(t, resp.Answer, "一般性的健康建议。")
	assert.Contains(t, resp.Answer, "来源说明")
	assert.Contains(t, resp.Answer, "test-model")
}

func TestProcessProviderFailureFallsBackToTemplate(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	client := &mockClient{Err: errors.New("provider down")}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, client)

	resp, err := fx.service.Process(context.Background(), validRequest("头痛两天了怎么办"))
	require.NoError(t, err)

	// The answer source reflects the method actually used, not the
	// configured provider.
	assert.Equal(t, model.AnswerTemplate, resp.AnswerSource)
	assert.Equal(t, "mock-llm", resp.ModelUsed)
	assert.Contains(t, resp.Answer, "头痛")
}

func TestProcessConfidenceFromEvidence(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	evidence := &mockEvidenceStore{Results: someEvidence()}
	fx := newServiceFixture(graph, evidence, nil, nil)

	resp, err := fx.service.Process(context.Background(), validRequest("头痛怎么办"))
	require.NoError(t, err)

	assert.InDelta(t, 0.8, resp.ConfidenceScore, 0.001)
}

func TestProcessConfidenceDefaultsWithoutEvidence(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, nil)

	resp, err := fx.service.Process(context.Background(), validRequest("头痛怎么办"))
	require.NoError(t, err)

	assert.InDelta(t, 0.7, resp.ConfidenceScore, 0.001)
	assert.Contains(t, resp.Warnings, "未找到直接相关的医学文献")
}

func TestProcessEvidenceCappedAtMaxAnswers(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	evidence := &mockEvidenceStore{Results: []model.Evidence{
		{Source: "a", Confidence: 0.9}, {Source: "b", Confidence: 0.9},
		{Source: "c", Confidence: 0.9}, {Source: "d", Confidence: 0.9},
	}}
	fx := newServiceFixture(graph, evidence, nil, nil)

	req := validRequest("头痛怎么办")
	req.MaxAnswers = 2
	resp, err := fx.service.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, resp.Evidence, 2)
	// Retrieval over-fetches so truncation has something to cut.
	assert.Equal(t, 4, evidence.LastLimit)
}

func TestProcessDisconnectedGraphWarning(t *testing.T) {
	graph := &mockGraph{IsConnected: false}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, nil)

	resp, err := fx.service.Process(context.Background(), validRequest("随便聊聊"))
	require.NoError(t, err)

	assert.Contains(t, resp.Warnings, "知识图谱服务未连接")
}

func TestProcessStoresMemoryForKnownUser(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	memory := newMockMemoryStore()
	fx := newServiceFixture(graph, &mockEvidenceStore{}, memory, nil)

	req := validRequest("头痛怎么办")
	req.UserID = "u1"
	resp, err := fx.service.Process(context.Background(), req)
	require.NoError(t, err)

	select {
	case stored := <-memory.Stored:
		assert.Equal(t, "u1", stored.UserID)
		assert.True(t, strings.HasPrefix(stored.Content, "Q: 头痛怎么办\nA: "))
		assert.Equal(t, resp.QueryID, stored.Metadata["query_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("memory was never stored")
	}
}

func TestProcessSkipsMemoryForAnonymousUser(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	memory := newMockMemoryStore()
	fx := newServiceFixture(graph, &mockEvidenceStore{}, memory, nil)

	_, err := fx.service.Process(context.Background(), validRequest("头痛怎么办"))
	require.NoError(t, err)

	select {
	case <-memory.Stored:
		t.Fatal("memory stored for anonymous user")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestProcessMemoriesCountAsContext(t *testing.T) {
	graph := &mockGraph{IsConnected: true}
	memory := newMockMemoryStore()
	memory.Hits = []model.MemoryHit{{UserID: "u1", Content: "用户曾咨询过头痛问题", Score: 0.8}}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, memory, nil)

	req := validRequest("随便聊聊")
	req.UserID = "u1"
	resp, err := fx.service.Process(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.AnswerKnowledgeGraph, resp.AnswerSource)
	assert.Contains(t, resp.Answer, "用户历史记忆")
}

func TestProcessPathBulletsSuppressedByMemories(t *testing.T) {
	paths := []model.KGPath{{Nodes: []model.KGNode{{
		Type: "Disease", Label: "偏头痛",
		Properties: map[string]string{"description": "常见的原发性头痛"},
	}}}}

	// With no other context the path bullets back up the graph text.
	graph := &mockGraph{IsConnected: true, Paths: paths}
	fx := newServiceFixture(graph, &mockEvidenceStore{}, nil, nil)
	resp, err := fx.service.Process(context.Background(), validRequest("头痛怎么办"))
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "相关医学知识")
	assert.Contains(t, resp.Answer, "偏头痛")

	// Memories already provide context, so the bullets stay out.
	memory := newMockMemoryStore()
	memory.Hits = []model.MemoryHit{{UserID: "u1", Content: "用户有偏头痛史", Score: 0.82}}
	graph = &mockGraph{IsConnected: true, Paths: paths}
	fx = newServiceFixture(graph, &mockEvidenceStore{}, memory, nil)
	req := validRequest("头痛怎么办")
	req.UserID = "u1"
	resp, err = fx.service.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "用户历史记忆")
	assert.NotContains(t, resp.Answer, "相关医学知识")
}

func validRequest(query string) *model.QueryRequest {
	req := &model.QueryRequest{Query: query}
	if err := req.Validate(); err != nil {
		panic(err)
	}
	return req
}
