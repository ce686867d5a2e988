package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/mkells/codenames-backend/internal/config"
	"github.com/mkells/codenames-backend/internal/engine"
	"github.com/mkells/codenames-backend/internal/httpapi"
	"github.com/mkells/codenames-backend/internal/hub"
	"github.com/mkells/codenames-backend/internal/web"
	"github.com/mkells/codenames-backend/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := words.Init(cfg.WordsFile); err != nil {
		logger.Fatal("loading word list", zap.Error(err))
	}
	logger.Info("word list loaded", zap.Int("words", words.Count()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, func() (engine.State, error) {
		return engine.NewState(words.All(), nil)
	}, logger)

	pages, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("loading templates", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapi.SetupRoutes(h, pages, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
