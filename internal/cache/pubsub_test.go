package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aman-zulfiqar/titan-swap-client/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPairChannel(t *testing.T) {
	assert.Equal(t, "quotes:pair:A-B", PairChannel("A", "B"))
	assert.Equal(t, "quotes:pair:*", PairPattern)
}

func TestQuotePublisher_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	pub := NewQuotePublisher(client, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := &models.QuoteEvent{
		QuoteID:    "q-1",
		RouteID:    "r-1",
		InputMint:  "So11111111111111111111111111111111111111112",
		OutputMint: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		InAmount:   1_000_000_000,
		OutAmount:  152_300_000,
		SwapMode:   "ExactIn",
		Steps:      2,
		Dexes:      []string{"Whirlpool", "Raydium CLMM"},
	}

	all := make(chan *models.QuoteEvent, 1)
	pair := make(chan *models.QuoteEvent, 1)
	go func() { _ = pub.Subscribe(ctx, ChannelAll, func(e *models.QuoteEvent) { all <- e }) }()
	go func() { _ = pub.PSubscribe(ctx, PairPattern, func(e *models.QuoteEvent) { pair <- e }) }()

	// Publish until both subscriptions are live.
	deadline := time.After(5 * time.Second)
	var gotAll, gotPair *models.QuoteEvent
	for gotAll == nil || gotPair == nil {
		require.NoError(t, pub.PublishQuote(ctx, ev))
		select {
		case e := <-all:
			gotAll = e
		case e := <-pair:
			gotPair = e
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for quote events")
		}
	}

	assert.Equal(t, ev.QuoteID, gotAll.QuoteID)
	assert.Equal(t, ev.OutAmount, gotAll.OutAmount)
	assert.Equal(t, ev.Dexes, gotAll.Dexes)
	assert.Equal(t, ev.Pair(), gotPair.Pair())
}

func TestQuotePublisher_SubscribeStopsOnCancel(t *testing.T) {
	client := setupTestRedis(t)
	pub := NewQuotePublisher(client, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pub.Subscribe(ctx, ChannelAll, func(*models.QuoteEvent) {}) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
