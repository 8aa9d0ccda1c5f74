package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "u1", "Q: 头痛怎么办\nA: 建议休息并观察。", map[string]string{"query_id": "q_abc"}))
	require.NoError(t, store.Store(ctx, "u1", "Q: 糖尿病饮食\nA: 控制总热量。", nil))

	hits, err := store.Search(ctx, "头痛怎么办", "u1", 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Contains(t, hits[0].Content, "头痛")
	assert.Greater(t, hits[0].Score, hits[1].Score)
	assert.Equal(t, "q_abc", hits[0].Metadata["query_id"])
}

func TestSearchScopedToUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "u1", "用户一的记忆", nil))
	require.NoError(t, store.Store(ctx, "u2", "用户二的记忆", nil))

	hits, err := store.Search(ctx, "记忆", "u1", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "u1", hits[0].UserID)
}

func TestSearchHonorsTopK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Store(ctx, "u1", "反复出现的头痛记录", nil))
	}

	hits, err := store.Search(ctx, "头痛", "u1", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestSearchEmptyStore(t *testing.T) {
	store := newTestStore(t)

	hits, err := store.Search(context.Background(), "任何问题", "u1", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestBigramSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, bigramSimilarity("头痛怎么办", "头痛怎么办"))
	assert.Equal(t, 0.0, bigramSimilarity("头痛", "发烧"))
	assert.Equal(t, 0.0, bigramSimilarity("", "头痛"))

	partial := bigramSimilarity("头痛怎么办", "头痛吃什么药")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}
