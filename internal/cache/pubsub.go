package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aman-zulfiqar/titan-swap-client/internal/constants"
	"github.com/aman-zulfiqar/titan-swap-client/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	ChannelAll        = constants.PubSubChannelQuotes
	channelPairPrefix = constants.PubSubPairPrefix
)

// PairChannel is the channel carrying quotes for one input/output pair.
func PairChannel(inputMint, outputMint string) string {
	return channelPairPrefix + inputMint + "-" + outputMint
}

// PairPattern matches every pair channel.
const PairPattern = channelPairPrefix + "*"

// QuotePublisher fans quote events out over Redis pub/sub.
type QuotePublisher struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewQuotePublisher(client *redis.Client, logger *logrus.Logger) *QuotePublisher {
	if logger == nil {
		logger = logrus.New()
	}
	return &QuotePublisher{client: client, logger: logger}
}

// NewQuotePublisherFromAddr connects to addr and checks the connection.
func NewQuotePublisherFromAddr(ctx context.Context, addr string, logger *logrus.Logger) (*QuotePublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewQuotePublisher(client, logger), nil
}

func (p *QuotePublisher) Close() error { return p.client.Close() }

// Client exposes the underlying connection for callers that also cache.
func (p *QuotePublisher) Client() *redis.Client { return p.client }

// PublishQuote sends ev to the all-quotes channel and its pair channel.
func (p *QuotePublisher) PublishQuote(ctx context.Context, ev *models.QuoteEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal quote event: %w", err)
	}

	channels := []string{
		ChannelAll,
		PairChannel(ev.InputMint, ev.OutputMint),
	}

	pipe := p.client.Pipeline()
	for _, channel := range channels {
		pipe.Publish(ctx, channel, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish quote %s: %w", ev.QuoteID, err)
	}
	return nil
}

// Subscribe delivers events from channel to handler until ctx is done.
func (p *QuotePublisher) Subscribe(ctx context.Context, channel string, handler func(*models.QuoteEvent)) error {
	pubsub := p.client.Subscribe(ctx, channel)
	defer pubsub.Close()
	return p.consume(ctx, pubsub, channel, handler)
}

// PSubscribe is Subscribe for a channel pattern such as PairPattern.
func (p *QuotePublisher) PSubscribe(ctx context.Context, pattern string, handler func(*models.QuoteEvent)) error {
	pubsub := p.client.PSubscribe(ctx, pattern)
	defer pubsub.Close()
	return p.consume(ctx, pubsub, pattern, handler)
}

func (p *QuotePublisher) consume(ctx context.Context, pubsub *redis.PubSub, name string, handler func(*models.QuoteEvent)) error {
	// Receive blocks until the subscription is confirmed.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", name, err)
	}
	p.logger.WithField("channel", name).Info("subscribed")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev models.QuoteEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				p.logger.WithError(err).WithField("channel", msg.Channel).Warn("dropping malformed quote event")
				continue
			}
			handler(&ev)
		}
	}
}
