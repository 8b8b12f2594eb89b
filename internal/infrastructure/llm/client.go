// Package llm implements text-completion interpreters over HTTP.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shanto268/DishCord/internal/domain"
)

// Supported providers
const (
	ProviderOllama     = "ollama"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"
)

// Config configures an interpreter client
type Config struct {
	Provider          string
	BaseURL           string
	Model             string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int // retries after the first attempt
	RequestsPerSecond float64
	Burst             int
	Temperature       float64
	Logger            *zap.Logger
}

// New builds the interpreter for cfg.Provider. ProviderNone yields a nil
// interpreter, which makes every query use keyword extraction.
func New(cfg Config) (domain.Interpreter, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama:
		return NewOllama(cfg), nil
	case ProviderOpenRouter:
		if cfg.APIKey == "" {
			return nil, errors.New("openrouter requires an api key")
		}
		return NewOpenRouter(cfg), nil
	case ProviderNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown interpreter provider %q", cfg.Provider)
}

// transport holds what every provider shares: the resty client, the rate
// limiter and the retry policy
type transport struct {
	http       *resty.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
	name       string
}

func newTransport(name, defaultURL string, cfg Config) *transport {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "DishCord/1.0")

	return &transport{
		http:       client,
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: cfg.MaxRetries,
		logger:     cfg.Logger.With(zap.String("provider", name)),
		name:       name,
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// post sends body to path, retrying transport failures, 429 and 5xx answers
// up to maxRetries times after the first attempt
func (t *transport) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= t.maxRetries+1; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return classify(ctx.Err())
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		if err := t.limiter.Wait(ctx); err != nil {
			return classify(err)
		}

		resp, err := t.http.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(result).
			Post(path)
		if err != nil {
			lastErr = classify(err)
			if ctx.Err() != nil {
				return lastErr
			}
			t.logger.Warn("interpreter request failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		status := resp.StatusCode()
		if status == http.StatusOK {
			return nil
		}

		lastErr = fmt.Errorf("%w: %s returned status %d: %s", domain.ErrInterpreterUnavailable, t.name, status, truncate(resp.String(), 200))
		if status != http.StatusTooManyRequests && status < 500 {
			return lastErr
		}
		t.logger.Warn("interpreter returned retryable status", zap.Int("attempt", attempt), zap.Int("status", status))
	}
	return lastErr
}

// classify maps transport errors onto the interpreter sentinels
func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", domain.ErrInterpreterTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrInterpreterUnavailable, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
