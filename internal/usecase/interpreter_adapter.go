package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shanto268/DishCord/internal/domain"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// outcome tags the result of a single interpreter attempt
type outcome int

const (
	outcomeValid outcome = iota
	outcomeMalformed
	outcomeTimeout
	outcomeUnavailable
)

func (o outcome) String() string {
	switch o {
	case outcomeValid:
		return "valid"
	case outcomeMalformed:
		return "malformed"
	case outcomeTimeout:
		return "timeout"
	default:
		return "unavailable"
	}
}

// InterpreterConfig holds configuration for the interpreter adapter
type InterpreterConfig struct {
	// Timeout bounds the whole interpretation, strict retry included
	Timeout  time.Duration
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// Interpretation is the filter produced for one raw query
type Interpretation struct {
	Filter   domain.StructuredFilter
	Source   domain.InterpretationSource
	Warnings []string
}

// InterpreterAdapter turns raw text into a StructuredFilter using the external
// interpreter, absorbing its timeouts and malformed output
type InterpreterAdapter struct {
	interpreter domain.Interpreter
	cache       domain.CacheRepository
	extractor   *KeywordExtractor
	timeout     time.Duration
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewInterpreterAdapter creates a new interpreter adapter. A nil interpreter
// always uses keyword extraction; a nil cache disables caching.
func NewInterpreterAdapter(
	interpreter domain.Interpreter,
	cache domain.CacheRepository,
	config InterpreterConfig,
) *InterpreterAdapter {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InterpreterAdapter{
		interpreter: interpreter,
		cache:       cache,
		extractor:   NewKeywordExtractor(CuisineVocabulary),
		timeout:     timeout,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Interpret converts raw text into a filter.
// Flow: check cache -> ask interpreter -> retry once if malformed -> fall back to keywords.
// The only error returned is the caller's own context cancellation.
func (a *InterpreterAdapter) Interpret(ctx context.Context, raw string) (Interpretation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Interpretation{Source: domain.SourceFallback, Filter: domain.StructuredFilter{RequestedIngredients: []string{}}}, nil
	}

	cacheKey := generateCacheKey(raw)
	if cached, ok := a.getFromCache(ctx, cacheKey); ok {
		return Interpretation{Filter: cached, Source: domain.SourceCache}, nil
	}

	if a.interpreter == nil {
		return a.fallback(raw, "no interpreter configured"), nil
	}

	// One deadline covers the first call and the strict retry
	budgetCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	parsed, result, err := a.attempt(budgetCtx, raw, false)
	if result == outcomeMalformed {
		a.logger.Warn("interpreter output malformed, retrying with strict prompt", zap.Error(err))
		parsed, result, err = a.attempt(budgetCtx, raw, true)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Interpretation{}, ctxErr
	}

	if result != outcomeValid {
		return a.fallback(raw, fmt.Sprintf("%s: %v", result, err)), nil
	}

	for _, w := range parsed.Warnings {
		a.logger.Warn("interpreter field dropped", zap.String("detail", w))
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, cacheKey, parsed.Filter, a.cacheTTL); err != nil {
			a.logger.Warn("failed to cache interpretation", zap.Error(err))
		}
	}

	return Interpretation{Filter: parsed.Filter, Source: domain.SourceInterpreter, Warnings: parsed.Warnings}, nil
}

// attempt makes one interpreter call within ctx's budget and classifies the result
func (a *InterpreterAdapter) attempt(ctx context.Context, raw string, strict bool) (parsedInterpretation, outcome, error) {
	if err := ctx.Err(); err != nil {
		return parsedInterpretation{}, outcomeTimeout, fmt.Errorf("%w: %v", domain.ErrInterpreterTimeout, err)
	}

	text, err := a.interpreter.Complete(ctx, domain.CompletionRequest{
		System: buildSystemPrompt(strict),
		Prompt: buildUserPrompt(raw),
		JSON:   true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInterpreterTimeout) ||
			errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return parsedInterpretation{}, outcomeTimeout, fmt.Errorf("%w: %v", domain.ErrInterpreterTimeout, err)
		}
		if errors.Is(err, domain.ErrInterpreterMalformed) {
			return parsedInterpretation{}, outcomeMalformed, err
		}
		return parsedInterpretation{}, outcomeUnavailable, fmt.Errorf("%w: %v", domain.ErrInterpreterUnavailable, err)
	}

	parsed, err := parseInterpretation(text)
	if err != nil {
		return parsedInterpretation{}, outcomeMalformed, err
	}
	return parsed, outcomeValid, nil
}

// fallback builds the permissive ingredients-only filter
func (a *InterpreterAdapter) fallback(raw, reason string) Interpretation {
	ingredients := a.extractor.Extract(raw)
	a.logger.Warn("using keyword fallback",
		zap.String("reason", reason),
		zap.Strings("ingredients", ingredients))
	if ingredients == nil {
		ingredients = []string{}
	}
	return Interpretation{
		Filter: domain.StructuredFilter{RequestedIngredients: ingredients},
		Source: domain.SourceFallback,
	}
}

// getFromCache retrieves a cached filter. Values may come back as the stored
// type or as a decoded JSON map, so both are handled.
func (a *InterpreterAdapter) getFromCache(ctx context.Context, key string) (domain.StructuredFilter, bool) {
	if a.cache == nil {
		return domain.StructuredFilter{}, false
	}
	value, err := a.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			a.logger.Warn("interpretation cache read failed", zap.Error(err))
		}
		return domain.StructuredFilter{}, false
	}

	if filter, ok := value.(domain.StructuredFilter); ok {
		return filter, true
	}

	data, err := json.Marshal(value)
	if err != nil {
		return domain.StructuredFilter{}, false
	}
	var filter domain.StructuredFilter
	if err := json.Unmarshal(data, &filter); err != nil {
		a.logger.Warn("discarding undecodable cached interpretation", zap.String("key", key), zap.Error(err))
		return domain.StructuredFilter{}, false
	}
	return filter, true
}

// generateCacheKey creates a normalized cache key from the raw query.
// Format: "interpretation:{normalized_query}"
func generateCacheKey(raw string) string {
	return "interpretation:" + normalizeForCacheKey(raw)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Converts to lowercase, removes special characters, and trims whitespace.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
