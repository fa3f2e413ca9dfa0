package repository

import (
	"aglc_chat/internal/model"
	"aglc_chat/internal/util"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *model.SessionSnapshot {
	return &model.SessionSnapshot{
		ID:   "s1",
		Mode: model.EmbeddingTFIDF,
		Turns: []model.ChatTurn{
			{Role: model.RoleUser, Content: "q"},
			{Role: model.RoleAssistant, Content: "a"},
		},
		History: []model.HistoryEntry{{Question: "q", Answer: "a", Citations: []model.Citation{{ID: "c1", URL: "/d", Page: 2, Text: "t"}}}},
		Feed:    []model.FeedMessage{{ID: "m1", Kind: model.FeedUser, Text: "q"}},
	}
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySessionRepository(time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	_, err := r.Load(ctx, "s1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	require.NoError(t, r.Save(ctx, sampleSnapshot()))
	got, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.EmbeddingTFIDF, got.Mode)
	assert.Len(t, got.History, 1)

	now = now.Add(2 * time.Hour)
	_, err = r.Load(ctx, "s1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	assert.Equal(t, 1, r.Sweep())
	assert.Zero(t, r.Sweep())
}

func TestRedisSessionRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	r := NewRedisSessionRepository(rdb, time.Hour)

	require.NoError(t, r.Ping(ctx))

	_, err := r.Load(ctx, "s1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	require.NoError(t, r.Save(ctx, sampleSnapshot()))
	assert.Equal(t, time.Hour, mr.TTL("aglc:session:s1"))

	got, err := r.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sampleSnapshot().History, got.History)
	assert.Equal(t, "q", got.Turns[0].Content)

	mr.FastForward(2 * time.Hour)
	_, err = r.Load(ctx, "s1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}
