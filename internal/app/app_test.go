package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanto268/DishCord/config"
	"github.com/shanto268/DishCord/internal/domain"
	"github.com/shanto268/DishCord/internal/infrastructure/corpus"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T, corpusDoc string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, []byte(corpusDoc), 0o644))

	return &config.Config{
		Server:      config.ServerConfig{Environment: "test", AllowedOrigins: []string{"*"}},
		Corpus:      config.CorpusConfig{Source: "file", Path: path},
		Interpreter: config.InterpreterConfig{Provider: "none", Timeout: time.Second},
		Matching:    config.MatchingConfig{FuzzyThreshold: 0.6, MinContainmentChars: 3},
		Results:     config.ResultsConfig{Default: 5, Min: 1, Max: 10},
		Cache:       config.CacheConfig{Type: "memory", TTL: time.Hour},
	}
}

func TestNew_EndToEnd(t *testing.T) {
	cfg := testConfig(t, `[
	  {"id": "a", "title": "Garlic Noodles", "ingredients": ["spaghetti", "garlic"], "cuisine": "Asian"},
	  {"id": "b", "title": "Tomato Soup", "ingredients": ["tomatoes", "basil"]}
	]`)

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Engine.Answer(context.Background(), "garlic")
	assert.ErrorIs(t, err, domain.ErrCorpusNotLoaded)

	report, err := a.Store.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Loaded)

	result, err := a.Engine.Answer(context.Background(), "something with tomato")
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "b", result.Candidates[0].Recipe.ID)
	assert.Equal(t, domain.SourceFallback, result.Source)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, float64(2), health["corpus_size"])
	assert.Equal(t, Version, health["version"])
}

func TestNew_CustomSynonyms(t *testing.T) {
	cfg := testConfig(t, `[{"id": "a", "ingredients": ["aubergine"]}]`)
	synPath := filepath.Join(t.TempDir(), "synonyms.yaml")
	require.NoError(t, os.WriteFile(synPath, []byte("version: test-1\nclasses:\n  - name: eggplant\n    terms: [eggplant, aubergine, brinjal]\n"), 0o644))
	cfg.Matching.SynonymsPath = synPath

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "test-1", a.Synonyms.Version())

	_, err = a.Store.Reload(context.Background())
	require.NoError(t, err)

	result, err := a.Engine.Search(context.Background(), domain.StructuredFilter{RequestedIngredients: []string{"brinjal"}})
	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, domain.MatchSynonym, result.Candidates[0].Matches[0].Mode)
}

func TestRouter_InterpreterStallStillAnswers(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			time.Sleep(300 * time.Millisecond)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"response": "happy to help!", "done": true}`))
			return
		}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(ollama.Close)
	t.Cleanup(func() { close(release) })

	cfg := testConfig(t, `[
	  {"id": "a", "title": "Garlic Noodles", "ingredients": ["spaghetti", "garlic"]},
	  {"id": "b", "title": "Tomato Soup", "ingredients": ["tomatoes", "basil"]}
	]`)
	cfg.Interpreter = config.InterpreterConfig{Provider: "ollama", BaseURL: ollama.URL, Timeout: 500 * time.Millisecond}
	cfg.Server.WriteTimeout = 800 * time.Millisecond

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()
	_, err = a.Store.Reload(context.Background())
	require.NoError(t, err)

	server := httptest.NewUnstartedServer(a.Router())
	server.Config.WriteTimeout = cfg.Server.WriteTimeout
	server.Start()
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/recipes/query", "application/json",
		strings.NewReader(`{"query": "something with garlic"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.QueryResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.SourceFallback, result.Source)
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "a", result.Candidates[0].Recipe.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNew_Errors(t *testing.T) {
	t.Run("missing synonym file", func(t *testing.T) {
		cfg := testConfig(t, `[]`)
		cfg.Matching.SynonymsPath = filepath.Join(t.TempDir(), "absent.yaml")
		_, err := New(context.Background(), cfg, nil)
		assert.Error(t, err)
	})

	t.Run("unknown interpreter provider", func(t *testing.T) {
		cfg := testConfig(t, `[]`)
		cfg.Interpreter.Provider = "telepathy"
		_, err := New(context.Background(), cfg, nil)
		assert.Error(t, err)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		cfg := testConfig(t, `[]`)
		cfg.Cache = config.CacheConfig{Type: "redis", RedisURL: "redis://127.0.0.1:1/0"}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := New(ctx, cfg, nil)
		assert.Error(t, err)
	})
}

func TestNewCorpusSource(t *testing.T) {
	src, err := NewCorpusSource(context.Background(), config.CorpusConfig{Source: "file", Path: "data/recipes.json"})
	require.NoError(t, err)
	assert.IsType(t, &corpus.FileSource{}, src)

	src, err = NewCorpusSource(context.Background(), config.CorpusConfig{
		Source: "s3", S3Bucket: "b", S3Key: "k.json", S3Region: "us-east-1",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src.Name(), "s3://b/"))

	_, err = NewCorpusSource(context.Background(), config.CorpusConfig{Source: "gopher"})
	assert.Error(t, err)
}
