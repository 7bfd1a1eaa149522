package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aman-zulfiqar/titan-swap-client/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	keyLatestPrefix = "quotes:latest:"
	keyRecent       = "quotes:recent"

	DefaultLatestTTL = 5 * time.Minute
	maxRecentQuotes  = 100
)

var ErrNoQuote = errors.New("no cached quote")

// QuoteCache keeps the latest quote per pair and a bounded list of recent
// quotes.
type QuoteCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *logrus.Logger
}

func NewQuoteCache(client redis.Cmdable, ttl time.Duration, logger *logrus.Logger) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultLatestTTL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &QuoteCache{client: client, ttl: ttl, logger: logger}
}

func latestKey(inputMint, outputMint string) string {
	return keyLatestPrefix + inputMint + "-" + outputMint
}

// Store records ev as the pair's latest quote and pushes it onto the recent list.
func (c *QuoteCache) Store(ctx context.Context, ev *models.QuoteEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal quote event: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, latestKey(ev.InputMint, ev.OutputMint), data, c.ttl)
	pipe.LPush(ctx, keyRecent, data)
	pipe.LTrim(ctx, keyRecent, 0, maxRecentQuotes-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache quote %s: %w", ev.QuoteID, err)
	}
	return nil
}

// Latest returns the last stored quote for the pair, or ErrNoQuote.
func (c *QuoteCache) Latest(ctx context.Context, inputMint, outputMint string) (*models.QuoteEvent, error) {
	data, err := c.client.Get(ctx, latestKey(inputMint, outputMint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoQuote
	}
	if err != nil {
		return nil, fmt.Errorf("get latest quote: %w", err)
	}
	var ev models.QuoteEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal quote event: %w", err)
	}
	return &ev, nil
}

// Recent returns up to limit quotes, newest first. Entries that fail to
// decode are logged and skipped.
func (c *QuoteCache) Recent(ctx context.Context, limit int) ([]*models.QuoteEvent, error) {
	if limit <= 0 || limit > maxRecentQuotes {
		limit = maxRecentQuotes
	}
	items, err := c.client.LRange(ctx, keyRecent, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list recent quotes: %w", err)
	}
	out := make([]*models.QuoteEvent, 0, len(items))
	for i, item := range items {
		var ev models.QuoteEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			c.logger.WithError(err).WithField("index", i).Warn("skipping unreadable cached quote")
			continue
		}
		out = append(out, &ev)
	}
	return out, nil
}
