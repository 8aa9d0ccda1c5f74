package qa

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitalgraph/mediq/internal/model"
)

func TestResolveLexiconMatch(t *testing.T) {
	r := NewResolver(&mockGraph{})

	entities := r.Resolve(context.Background(), "我最近经常头痛还有点发烧", nil)

	assert.Contains(t, entities, "头痛")
	assert.Contains(t, entities, "发烧")
}

func TestResolveSynonymMapping(t *testing.T) {
	r := NewResolver(&mockGraph{})

	entities := r.Resolve(context.Background(), "小儿麻痹症怎么治疗", nil)

	assert.Contains(t, entities, "脊髓灰质炎")
}

func TestResolveFuzzyGraphSearch(t *testing.T) {
	g := &mockGraph{
		IsConnected: true,
		Diseases:    map[string]string{"鼻窦炎": "鼻窦炎"},
	}
	r := NewResolver(g)

	entities := r.Resolve(context.Background(), "鼻窦炎 需要手术吗", nil)

	assert.Contains(t, entities, "鼻窦炎")
}

func TestResolveNothingWhenDisconnected(t *testing.T) {
	g := &mockGraph{
		IsConnected: false,
		Diseases:    map[string]string{"鼻窦炎": "鼻窦炎"},
	}
	r := NewResolver(g)

	entities := r.Resolve(context.Background(), "鼻窦炎 需要手术吗", nil)

	assert.Empty(t, entities)
}

func TestResolveHistoryBackoff(t *testing.T) {
	// A 7-rune disease name is only reachable through the wider history
	// windows, so this isolates the backoff from the final merge pass.
	g := &mockGraph{
		IsConnected: true,
		Diseases:    map[string]string{"慢性阻塞性肺病": "慢性阻塞性肺病"},
	}
	r := NewResolver(g)

	history := []model.ChatMessage{
		{Role: "user", Content: "慢性阻塞性肺病 是什么"},
		{Role: "assistant", Content: "是一种慢性呼吸系统疾病。"},
	}
	entities := r.Resolve(context.Background(), "那它怎么治", history)

	assert.Contains(t, entities, "慢性阻塞性肺病")
}

func TestResolveHistoryBackoffPrefersNewestUserTurn(t *testing.T) {
	g := &mockGraph{
		IsConnected: true,
		Diseases: map[string]string{
			"慢性阻塞性肺病": "慢性阻塞性肺病",
			"特发性肺纤维化": "特发性肺纤维化",
		},
	}
	r := NewResolver(g)

	history := []model.ChatMessage{
		{Role: "user", Content: "慢性阻塞性肺病 是什么"},
		{Role: "assistant", Content: "是一种慢性呼吸系统疾病。"},
		{Role: "user", Content: "特发性肺纤维化 呢"},
		{Role: "assistant", Content: "也属于慢性肺部疾病。"},
	}
	entities := r.Resolve(context.Background(), "那要注意什么", history)

	assert.Equal(t, "特发性肺纤维化", entities[0])
}

func TestResolveAggressiveBackoffStripsSuffix(t *testing.T) {
	g := &mockGraph{
		IsConnected: true,
		Diseases:    map[string]string{"百日咳": "百日咳"},
	}
	r := NewResolver(g)

	entities := r.Resolve(context.Background(), "百日咳是什么", nil)

	assert.Contains(t, entities, "百日咳")
	// The whole cleaned question is searched before any n-gram scan.
	assert.Equal(t, "百日咳", g.DiseaseQueries[len(g.DiseaseQueries)-1])
}

func TestResolveAggressiveBackoffNgramScan(t *testing.T) {
	g := &mockGraph{
		IsConnected: true,
		Diseases:    map[string]string{"百日咳": "百日咳"},
	}
	r := NewResolver(g)

	// No listed suffix to strip, so the n-gram scan has to find the
	// embedded disease name.
	entities := r.Resolve(context.Background(), "得了百日咳吗", nil)

	assert.Contains(t, entities, "百日咳")
}

func TestResolveOrderStableAndDeduplicated(t *testing.T) {
	r := NewResolver(&mockGraph{})

	entities := r.Resolve(context.Background(), "头痛头痛发烧头痛", nil)

	assert.Equal(t, []string{"头痛", "发烧"}, entities)
}

func TestResolveCurrentTurnIgnoresHistoryOnlyEntities(t *testing.T) {
	g := &mockGraph{
		IsConnected: true,
		Diseases:    map[string]string{"脑膜炎": "脑膜炎"},
	}
	r := NewResolver(g)

	history := []model.ChatMessage{{Role: "user", Content: "脑膜炎严重吗"}}
	full := r.Resolve(context.Background(), "那它怎么治", history)
	current := r.ResolveCurrentTurn(context.Background(), "那它怎么治")

	assert.Contains(t, full, "脑膜炎")
	assert.NotContains(t, current, "脑膜炎")
}

func TestResolveCurrentTurnSubsetOfFullResolution(t *testing.T) {
	g := &mockGraph{
		IsConnected: true,
		Diseases:    map[string]string{"偏头痛": "偏头痛"},
	}
	r := NewResolver(g)

	history := []model.ChatMessage{{Role: "user", Content: "你好"}}
	query := "偏头痛吃什么药"
	full := r.Resolve(context.Background(), query, history)
	current := r.ResolveCurrentTurn(context.Background(), query)

	for _, e := range current {
		assert.Contains(t, full, e)
	}
}
