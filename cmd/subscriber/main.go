package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aman-zulfiqar/titan-swap-client/internal/cache"
	"github.com/aman-zulfiqar/titan-swap-client/internal/config"
	"github.com/aman-zulfiqar/titan-swap-client/internal/models"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// main prints quote events published by titanswap.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	_ = godotenv.Load()
	cfg := config.Load()
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pub, err := cache.NewQuotePublisherFromAddr(ctx, addr, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	defer pub.Close()

	logger.WithField("redis", addr).Info("starting quote subscriber")

	go func() {
		err := pub.Subscribe(ctx, cache.ChannelAll, func(ev *models.QuoteEvent) {
			logger.WithFields(logrus.Fields{
				"quote_id": ev.QuoteID,
				"route_id": ev.RouteID,
				"in":       ev.InAmount,
				"out":      ev.OutAmount,
				"mode":     ev.SwapMode,
				"dexes":    strings.Join(ev.Dexes, ","),
			}).Info("quote")
		})
		if err != nil && ctx.Err() == nil {
			logger.WithError(err).Error("subscription ended")
		}
	}()

	go func() {
		err := pub.PSubscribe(ctx, cache.PairPattern, func(ev *models.QuoteEvent) {
			logger.WithFields(logrus.Fields{
				"pair":  ev.Pair(),
				"steps": ev.Steps,
				"slot":  ev.ContextSlot,
			}).Debug("pair quote")
		})
		if err != nil && ctx.Err() == nil {
			logger.WithError(err).Error("pattern subscription ended")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down subscriber")
}
