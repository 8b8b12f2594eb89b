package usecase

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/shanto268/DishCord/internal/domain"
)

func newTestEngine(t *testing.T, interpreter domain.Interpreter, corpus *staticCorpus) *QueryEngine {
	t.Helper()
	ranker, n := newTestRanker(t, RankerConfig{})
	adapter := NewInterpreterAdapter(interpreter, nil, InterpreterConfig{})
	return NewQueryEngine(corpus, adapter, ranker, n, QueryEngineConfig{
		Limits: domain.ResultLimits{Default: 5, Min: 1, Max: 10},
	})
}

func TestAnswer(t *testing.T) {
	mock := &MockInterpreter{responses: []mockResponse{{text: `{"ingredients":["shrimp","pepper flakes"],"result_count":2}`}}}
	engine := newTestEngine(t, mock, &staticCorpus{corpus: shrimpCorpus()})

	result, err := engine.Answer(context.Background(), "shrimp and pepper flakes, two recipes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := rankIDs(result.Candidates); !reflect.DeepEqual(ids, []string{"r1", "r2"}) {
		t.Errorf("order = %v, want [r1 r2]", ids)
	}
	if result.QueryID == "" {
		t.Error("QueryID is empty")
	}
	if result.Source != domain.SourceInterpreter {
		t.Errorf("source = %q, want interpreter", result.Source)
	}
	if result.FilterUsed.ResultCount != 2 {
		t.Errorf("filter_used.result_count = %d, want 2", result.FilterUsed.ResultCount)
	}
}

func TestAnswerClampsResultCount(t *testing.T) {
	recipes := make([]domain.Recipe, 20)
	for i := range recipes {
		recipes[i] = domain.Recipe{ID: string(rune('a' + i)), Ingredients: []string{"rice"}}
	}
	mock := &MockInterpreter{responses: []mockResponse{{text: `{"ingredients":["rice"],"result_count":500}`}}}
	engine := newTestEngine(t, mock, &staticCorpus{corpus: domain.NewCorpus(recipes, "test")})

	result, err := engine.Answer(context.Background(), "500 rice recipes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FilterUsed.ResultCount != 10 {
		t.Errorf("result_count = %d, want 10", result.FilterUsed.ResultCount)
	}
	if len(result.Candidates) != 10 {
		t.Errorf("len(candidates) = %d, want 10", len(result.Candidates))
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a clamp warning")
	}
}

func TestAnswerMalformedInterpreterStillAnswers(t *testing.T) {
	mock := &MockInterpreter{responses: []mockResponse{{text: "garbage"}, {text: "more garbage"}}}
	engine := newTestEngine(t, mock, &staticCorpus{corpus: shrimpCorpus()})

	result, err := engine.Answer(context.Background(), "got any shrimp recipes?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != domain.SourceFallback {
		t.Errorf("source = %q, want fallback", result.Source)
	}
	if len(result.Candidates) != 2 {
		t.Errorf("len(candidates) = %d, want 2", len(result.Candidates))
	}
}

func TestAnswerNoResultsIsNotAnError(t *testing.T) {
	engine := newTestEngine(t, nil, &staticCorpus{corpus: shrimpCorpus()})

	result, err := engine.Answer(context.Background(), "saffron")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Candidates == nil || len(result.Candidates) != 0 {
		t.Errorf("candidates = %v, want empty", result.Candidates)
	}
}

func TestAnswerCorpusNotLoaded(t *testing.T) {
	engine := newTestEngine(t, nil, &staticCorpus{})

	_, err := engine.Answer(context.Background(), "shrimp")
	if !errors.Is(err, domain.ErrCorpusNotLoaded) {
		t.Errorf("error = %v, want ErrCorpusNotLoaded", err)
	}
	_, err = engine.Search(context.Background(), domain.StructuredFilter{})
	if !errors.Is(err, domain.ErrCorpusNotLoaded) {
		t.Errorf("error = %v, want ErrCorpusNotLoaded", err)
	}
}

func TestSearch(t *testing.T) {
	engine := newTestEngine(t, nil, &staticCorpus{corpus: shrimpCorpus()})

	result, err := engine.Search(context.Background(), domain.StructuredFilter{Cuisine: "Italian"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := rankIDs(result.Candidates); !reflect.DeepEqual(ids, []string{"r2"}) {
		t.Errorf("order = %v, want [r2]", ids)
	}
	if result.Source != domain.SourceStructured || result.FilterUsed.ResultCount != 5 {
		t.Errorf("source = %q count = %d, want structured 5", result.Source, result.FilterUsed.ResultCount)
	}
}

func TestRecipeLookup(t *testing.T) {
	engine := newTestEngine(t, nil, &staticCorpus{corpus: shrimpCorpus()})

	recipe, err := engine.Recipe("r1")
	if err != nil || recipe.ID != "r1" {
		t.Errorf("Recipe(r1) = (%v, %v)", recipe.ID, err)
	}
	if _, err := engine.Recipe("nope"); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("error = %v, want ErrRecipeNotFound", err)
	}
}

func TestEngineSeesSwappedCorpus(t *testing.T) {
	provider := &staticCorpus{corpus: shrimpCorpus()}
	engine := newTestEngine(t, nil, provider)
	ctx := context.Background()

	before, err := engine.Search(ctx, domain.StructuredFilter{RequestedIngredients: []string{"lamb"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(before.Candidates) != 0 {
		t.Fatalf("unexpected candidates before swap: %v", rankIDs(before.Candidates))
	}

	provider.swap(domain.NewCorpus([]domain.Recipe{{ID: "lamb-stew", Ingredients: []string{"2 lb lamb shoulder"}}}, "test"))

	after, err := engine.Search(ctx, domain.StructuredFilter{RequestedIngredients: []string{"lamb"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids := rankIDs(after.Candidates); !reflect.DeepEqual(ids, []string{"lamb-stew"}) {
		t.Errorf("order = %v, want [lamb-stew]", ids)
	}
}

func TestEngineConcurrentQueries(t *testing.T) {
	engine := newTestEngine(t, nil, &staticCorpus{corpus: shrimpCorpus()})
	filter := domain.StructuredFilter{RequestedIngredients: []string{"shrimp", "garlic"}}

	want, err := engine.Search(context.Background(), filter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := engine.Search(context.Background(), filter)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(got.Candidates, want.Candidates) {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
