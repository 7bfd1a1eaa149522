package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aman-zulfiqar/titan-swap-client/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteCache_LatestAndRecent(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, client.Del(ctx, keyRecent, latestKey("IN", "OUT")).Err())

	c := NewQuoteCache(client, time.Minute, quietLogger())

	_, err := c.Latest(ctx, "IN", "OUT")
	assert.ErrorIs(t, err, ErrNoQuote)

	for i := 1; i <= 3; i++ {
		require.NoError(t, c.Store(ctx, &models.QuoteEvent{
			QuoteID:    fmt.Sprintf("q-%d", i),
			InputMint:  "IN",
			OutputMint: "OUT",
			OutAmount:  uint64(i * 100),
		}))
	}

	latest, err := c.Latest(ctx, "IN", "OUT")
	require.NoError(t, err)
	assert.Equal(t, "q-3", latest.QuoteID)
	assert.Equal(t, uint64(300), latest.OutAmount)

	recent, err := c.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "q-3", recent[0].QuoteID)
	assert.Equal(t, "q-2", recent[1].QuoteID)

	ttl, err := client.TTL(ctx, latestKey("IN", "OUT")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNewQuoteCache_DefaultTTL(t *testing.T) {
	c := NewQuoteCache(nil, 0, nil)
	assert.Equal(t, DefaultLatestTTL, c.ttl)
	assert.NotNil(t, c.logger)
}

func TestQuoteCache_RecentSkipsCorruptEntries(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, client.Del(ctx, keyRecent).Err())

	logger, hook := test.NewNullLogger()
	c := NewQuoteCache(client, time.Minute, logger)

	require.NoError(t, c.Store(ctx, &models.QuoteEvent{QuoteID: "good", InputMint: "IN", OutputMint: "OUT"}))
	require.NoError(t, client.LPush(ctx, keyRecent, "{not json").Err())

	recent, err := c.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "good", recent[0].QuoteID)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 0, hook.LastEntry().Data["index"])
}
