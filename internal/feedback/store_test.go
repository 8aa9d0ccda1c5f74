package feedback

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalgraph/mediq/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordFeedback(t *testing.T) {
	store := newTestStore(t)

	resp, err := store.Record(context.Background(), model.FeedbackRequest{
		QueryID:      "q_abc123def456",
		FeedbackType: model.FeedbackHelpful,
		Rating:       5,
		Comment:      "回答很清楚",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.FeedbackID, "fb_"))
	assert.Len(t, resp.FeedbackID, 15)
	assert.Equal(t, "received", resp.Status)
	assert.NotZero(t, resp.CreatedAt)
}

func TestStatsAggregation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []model.FeedbackRequest{
		{QueryID: "q1", FeedbackType: model.FeedbackHelpful, Rating: 5},
		{QueryID: "q2", FeedbackType: model.FeedbackHelpful, Rating: 3},
		{QueryID: "q3", FeedbackType: model.FeedbackIncorrect},
	}
	for _, e := range entries {
		_, err := store.Record(ctx, e)
		require.NoError(t, err)
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByType["helpful"])
	assert.Equal(t, 1, stats.ByType["incorrect"])
	require.NotNil(t, stats.AverageRating)
	assert.InDelta(t, 4.0, *stats.AverageRating, 0.001)
}

func TestStatsEmptyStore(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.ByType)
	assert.Nil(t, stats.AverageRating)
}
