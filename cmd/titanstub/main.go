package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/titan-swap-client/internal/config"
	"github.com/aman-zulfiqar/titan-swap-client/internal/stub"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main runs a local quote service that answers with synthetic routes, for
// exercising the client without a Titan account.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	loadEnv(logger)
	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	addr := flag.String("addr", cfg.StubAddr, "listen address")
	price := flag.Float64("price", 150, "output units per input unit")
	positional := flag.Bool("positional", false, "encode records as arrays")
	rps := flag.Float64("rps", 5, "requests per second per client, 0 for unlimited")
	flag.Parse()

	srv, err := stub.NewServer(stub.ServerDeps{
		Source: stub.SyntheticSource{OutPerIn: *price},
		Config: stub.ServerConfig{
			Addr:       *addr,
			AuthToken:  cfg.TitanAuthToken,
			RateLimit:  *rps,
			RateBurst:  10,
			Positional: *positional,
		},
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create stub server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":       *addr,
			"auth":       cfg.TitanAuthToken != "",
			"positional": *positional,
		}).Info("stub quote service listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("stub server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down stub server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown failed")
	}
	_ = srv.WaitClosed(shutdownCtx)
}
