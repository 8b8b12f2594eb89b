package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shanto268/DishCord/internal/domain"
)

// CorpusProvider publishes the current corpus snapshot
type CorpusProvider interface {
	// Current returns the published snapshot, or nil before the first load
	Current() *domain.Corpus
}

// QueryEngineConfig holds configuration for the query engine
type QueryEngineConfig struct {
	Limits domain.ResultLimits
	Logger *zap.Logger
}

// QueryEngine answers natural-language and structured recipe queries
type QueryEngine struct {
	corpus      CorpusProvider
	interpreter *InterpreterAdapter
	ranker      *Ranker
	normalizer  *Normalizer
	limits      domain.ResultLimits
	index       atomic.Pointer[RecipeIndex]
	logger      *zap.Logger
}

// NewQueryEngine creates a new query engine with dependencies
func NewQueryEngine(
	corpus CorpusProvider,
	interpreter *InterpreterAdapter,
	ranker *Ranker,
	normalizer *Normalizer,
	config QueryEngineConfig,
) *QueryEngine {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limits := config.Limits
	if limits == (domain.ResultLimits{}) {
		limits = domain.DefaultResultLimits
	}
	return &QueryEngine{
		corpus:      corpus,
		interpreter: interpreter,
		ranker:      ranker,
		normalizer:  normalizer,
		limits:      limits,
		logger:      logger,
	}
}

// Answer interprets raw text and returns the ranked recipes.
// Flow: interpret -> clamp filter -> rank -> return.
// "No results" is an empty candidate list; errors are infrastructure failures only.
func (e *QueryEngine) Answer(ctx context.Context, raw string) (*domain.QueryResult, error) {
	index, err := e.currentIndex()
	if err != nil {
		return nil, err
	}

	interp, err := e.interpreter.Interpret(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("interpret query: %w", err)
	}

	result := e.run(index, interp.Filter, interp.Source, interp.Warnings)
	result.Query = raw
	return result, nil
}

// Search ranks recipes against an already structured filter, bypassing the interpreter
func (e *QueryEngine) Search(ctx context.Context, filter domain.StructuredFilter) (*domain.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	index, err := e.currentIndex()
	if err != nil {
		return nil, err
	}
	return e.run(index, filter, domain.SourceStructured, nil), nil
}

// Recipe looks up a single recipe in the current corpus
func (e *QueryEngine) Recipe(id string) (domain.Recipe, error) {
	corpus := e.corpus.Current()
	if corpus == nil {
		return domain.Recipe{}, domain.ErrCorpusNotLoaded
	}
	recipe, ok := corpus.ByID(id)
	if !ok {
		return domain.Recipe{}, fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, id)
	}
	return recipe, nil
}

func (e *QueryEngine) run(
	index *RecipeIndex,
	filter domain.StructuredFilter,
	source domain.InterpretationSource,
	warnings []string,
) *domain.QueryResult {
	clamped, clampWarnings := filter.Clamp(e.limits)
	for _, w := range clampWarnings {
		e.logger.Warn("invalid filter value", zap.String("detail", w))
	}

	candidates := e.ranker.Rank(index, clamped)

	e.logger.Info("query answered",
		zap.String("source", string(source)),
		zap.Int("ingredients", len(clamped.RequestedIngredients)),
		zap.Int("results", len(candidates)))

	all := make([]string, 0, len(warnings)+len(clampWarnings))
	all = append(all, warnings...)
	all = append(all, clampWarnings...)
	if len(all) == 0 {
		all = nil
	}

	return &domain.QueryResult{
		QueryID:    uuid.NewString(),
		FilterUsed: clamped,
		Source:     source,
		Candidates: candidates,
		Warnings:   all,
	}
}

// currentIndex returns the normalized index for the published corpus,
// rebuilding it when a new snapshot has been swapped in
func (e *QueryEngine) currentIndex() (*RecipeIndex, error) {
	corpus := e.corpus.Current()
	if corpus == nil {
		return nil, domain.ErrCorpusNotLoaded
	}

	if idx := e.index.Load(); idx != nil && idx.corpus == corpus {
		return idx, nil
	}

	idx := NewRecipeIndex(corpus, e.normalizer)
	e.index.Store(idx)
	e.logger.Debug("recipe index built", zap.Int("recipes", corpus.Len()))
	return idx, nil
}
