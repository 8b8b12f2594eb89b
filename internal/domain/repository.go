package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CompletionRequest is one prompt sent to a text-completion interpreter
type CompletionRequest struct {
	System string
	Prompt string
	// JSON asks the backend to constrain its output to a JSON object
	JSON bool
}

// Interpreter is an external text-to-structure capability, such as a local
// or hosted language model. Implementations return the raw response text.
type Interpreter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CorpusSource fetches the raw bytes of a recipe corpus
type CorpusSource interface {
	Fetch(ctx context.Context) ([]byte, error)
	Name() string
}
