package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shanto268/DishCord/internal/domain"
	"github.com/shanto268/DishCord/internal/infrastructure/corpus"
)

const maxQueryLength = 1000

// RecipeQuerier answers recipe queries
type RecipeQuerier interface {
	Answer(ctx context.Context, raw string) (*domain.QueryResult, error)
	Search(ctx context.Context, filter domain.StructuredFilter) (*domain.QueryResult, error)
	Recipe(id string) (domain.Recipe, error)
}

// CorpusManager exposes the published corpus and reloads it on demand
type CorpusManager interface {
	Current() *domain.Corpus
	Reload(ctx context.Context) (*corpus.LoadReport, error)
}

// HandlerConfig holds handler settings
type HandlerConfig struct {
	Version string
	Logger  *zap.Logger
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	engine  RecipeQuerier
	corpus  CorpusManager
	version string
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(engine RecipeQuerier, store CorpusManager, config HandlerConfig) *Handler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := config.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{engine: engine, corpus: store, version: version, logger: logger}
}

// QueryRequest is the body of a natural-language query
type QueryRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type recipeResponse struct {
	domain.Recipe
	DisplayTitle string `json:"display_title"`
}

// HealthCheck reports service status and the published corpus
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{
		"status":      "healthy",
		"service":     "dishcord",
		"version":     h.version,
		"corpus_size": 0,
	}

	var snapshot *domain.Corpus
	if h.corpus != nil {
		snapshot = h.corpus.Current()
	}
	if snapshot == nil {
		resp["status"] = "loading"
	} else {
		resp["corpus_size"] = snapshot.Len()
		resp["corpus_source"] = snapshot.Source()
		resp["corpus_loaded_at"] = snapshot.LoadedAt().UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}

// Query interprets free text and returns ranked recipes
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abort(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be JSON with a \"query\" field")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		h.abort(c, http.StatusBadRequest, "INVALID_REQUEST", "query must not be empty")
		return
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		h.abort(c, http.StatusBadRequest, "INVALID_REQUEST", "query is too long")
		return
	}

	if h.engine == nil {
		h.respondError(c, domain.ErrCorpusNotLoaded)
		return
	}

	result, err := h.engine.Answer(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result.RequestID = requestid.Get(c)

	c.JSON(http.StatusOK, result)
}

// Search ranks recipes against a structured filter
func (h *Handler) Search(c *gin.Context) {
	var filter domain.StructuredFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		h.abort(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid filter: "+err.Error())
		return
	}

	if h.engine == nil {
		h.respondError(c, domain.ErrCorpusNotLoaded)
		return
	}

	result, err := h.engine.Search(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result.RequestID = requestid.Get(c)

	c.JSON(http.StatusOK, result)
}

// GetRecipe returns one recipe by id
func (h *Handler) GetRecipe(c *gin.Context) {
	if h.engine == nil {
		h.respondError(c, domain.ErrCorpusNotLoaded)
		return
	}

	recipe, err := h.engine.Recipe(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipeResponse{Recipe: recipe, DisplayTitle: recipe.DisplayTitle()})
}

// ReloadCorpus rebuilds the corpus from its source. A failed reload keeps
// serving the previous snapshot.
func (h *Handler) ReloadCorpus(c *gin.Context) {
	if h.corpus == nil {
		h.abort(c, http.StatusServiceUnavailable, "CORPUS_UNAVAILABLE", "corpus reloading is not configured")
		return
	}

	report, err := h.corpus.Reload(c.Request.Context())
	if err != nil {
		h.logger.Error("corpus reload failed", zap.Error(err))
		c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":         err.Error(),
			"code":          "CORPUS_LOAD_FAILED",
			"kept_previous": h.corpus.Current() != nil,
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// respondError maps domain errors onto status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	c.Error(err)
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		h.abort(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, domain.ErrRecipeNotFound):
		h.abort(c, http.StatusNotFound, "RECIPE_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrCorpusNotLoaded):
		h.abort(c, http.StatusServiceUnavailable, "CORPUS_NOT_LOADED", "recipe corpus is not loaded yet")
	case errors.Is(err, context.DeadlineExceeded):
		h.abort(c, http.StatusGatewayTimeout, "TIMEOUT", "query timed out")
	case errors.Is(err, context.Canceled):
		h.abort(c, http.StatusServiceUnavailable, "CANCELED", "request canceled")
	default:
		h.logger.Error("unhandled error", zap.Error(err))
		h.abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func (h *Handler) abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}
