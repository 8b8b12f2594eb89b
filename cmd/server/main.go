package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shanto268/DishCord/config"
	"github.com/shanto268/DishCord/internal/app"
	"github.com/shanto268/DishCord/internal/domain"
	"github.com/shanto268/DishCord/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting DishCord",
		zap.String("version", app.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("corpus_source", cfg.Corpus.Source),
		zap.String("interpreter", cfg.Interpreter.Provider),
		zap.String("cache", cfg.Cache.Type))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	application, err := app.New(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize", zap.Error(err))
	}
	defer application.Close()

	// An unreadable corpus at startup is fatal; later reload failures are not.
	if _, err := application.Store.Reload(ctx); err != nil {
		if errors.Is(err, domain.ErrCorpusLoad) {
			zlog.Fatal("failed to load recipe corpus", zap.Error(err))
		}
		zlog.Fatal("corpus load aborted", zap.Error(err))
	}

	if cfg.Corpus.ReloadInterval > 0 {
		go application.Store.Watch(ctx, cfg.Corpus.ReloadInterval)
		zlog.Info("periodic corpus reload enabled", zap.Duration("interval", cfg.Corpus.ReloadInterval))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      application.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range signals {
		if sig == syscall.SIGHUP {
			zlog.Info("SIGHUP received, reloading corpus")
			if _, err := application.Store.Reload(ctx); err != nil {
				zlog.Warn("corpus reload failed, keeping previous snapshot", zap.Error(err))
			}
			continue
		}
		break
	}

	zlog.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}
