// Package app assembles the query engine and its infrastructure from configuration.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shanto268/DishCord/config"
	httpDelivery "github.com/shanto268/DishCord/internal/delivery/http"
	"github.com/shanto268/DishCord/internal/domain"
	"github.com/shanto268/DishCord/internal/infrastructure/cache"
	"github.com/shanto268/DishCord/internal/infrastructure/corpus"
	"github.com/shanto268/DishCord/internal/infrastructure/llm"
	"github.com/shanto268/DishCord/internal/usecase"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=..."
var Version = "dev"

// App holds the wired components
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *corpus.Store
	Engine   *usecase.QueryEngine
	Synonyms *usecase.SynonymTable

	closers []io.Closer
}

// New builds every component but does not load the corpus; call Store.Reload.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	source, err := NewCorpusSource(ctx, cfg.Corpus)
	if err != nil {
		return nil, err
	}
	a.Store = corpus.NewStore(source, logger.Named("corpus"))

	normalizer := usecase.NewNormalizer(usecase.NormalizerConfig{})
	if cfg.Matching.SynonymsPath != "" {
		a.Synonyms, err = usecase.LoadSynonymFile(cfg.Matching.SynonymsPath, normalizer)
	} else {
		a.Synonyms, err = usecase.DefaultSynonymTable(normalizer)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("synonym table loaded",
		zap.String("version", a.Synonyms.Version()),
		zap.Int("terms", a.Synonyms.Len()))

	cacheRepo, err := a.newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	interpreter, err := llm.New(llm.Config{
		Provider:          cfg.Interpreter.Provider,
		BaseURL:           cfg.Interpreter.BaseURL,
		Model:             cfg.Interpreter.Model,
		APIKey:            cfg.Interpreter.APIKey,
		Timeout:           cfg.Interpreter.Timeout,
		MaxRetries:        cfg.Interpreter.MaxRetries,
		RequestsPerSecond: cfg.Interpreter.RateLimit,
		Burst:             cfg.Interpreter.Burst,
		Temperature:       cfg.Interpreter.Temperature,
		Logger:            logger.Named("llm"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	if interpreter == nil {
		logger.Warn("no interpreter configured, queries use keyword extraction")
	}

	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		FuzzyThreshold:      cfg.Matching.FuzzyThreshold,
		MinContainmentChars: cfg.Matching.MinContainmentChars,
		EnableDebugLogging:  cfg.Matching.Debug,
		Logger:              logger.Named("matcher"),
	}, a.Synonyms)

	ranker := usecase.NewRanker(matcher, normalizer, usecase.RankerConfig{
		MinScore:             cfg.Matching.MinScore,
		MandatoryIngredients: cfg.Matching.MandatoryIngredients,
		EnableDebugLogging:   cfg.Matching.Debug,
		Logger:               logger.Named("ranker"),
	})

	adapter := usecase.NewInterpreterAdapter(interpreter, cacheRepo, usecase.InterpreterConfig{
		Timeout:  cfg.Interpreter.Timeout,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger.Named("interpreter"),
	})

	a.Engine = usecase.NewQueryEngine(a.Store, adapter, ranker, normalizer, usecase.QueryEngineConfig{
		Limits: domain.ResultLimits{
			Default: cfg.Results.Default,
			Min:     cfg.Results.Min,
			Max:     cfg.Results.Max,
		},
		Logger: logger.Named("engine"),
	})

	return a, nil
}

// Router builds the HTTP surface over the engine
func (a *App) Router() *gin.Engine {
	handler := httpDelivery.NewHandler(a.Engine, a.Store, httpDelivery.HandlerConfig{
		Version: Version,
		Logger:  a.Logger.Named("http"),
	})
	return httpDelivery.SetupRouter(a.Config, handler, a.Logger.Named("http"))
}

// Close releases cache connections and background goroutines
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// NewCorpusSource selects the configured corpus location
func NewCorpusSource(ctx context.Context, cfg config.CorpusConfig) (domain.CorpusSource, error) {
	switch cfg.Source {
	case "s3":
		return corpus.NewS3Source(ctx, corpus.S3Options{
			Bucket:   cfg.S3Bucket,
			Key:      cfg.S3Key,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
	case "file", "":
		return corpus.NewFileSource(cfg.Path), nil
	}
	return nil, fmt.Errorf("unknown corpus source %q", cfg.Source)
}

func (a *App) newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, error) {
	switch cfg.Type {
	case "redis":
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, KeyPrefix: "dishcord:"})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c)
		a.Logger.Info("using redis interpretation cache")
		return c, nil
	default:
		c := cache.NewMemoryCache(cache.MemoryConfig{MaxEntries: cfg.MaxEntries})
		a.closers = append(a.closers, c)
		return c, nil
	}
}
