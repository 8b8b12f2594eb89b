package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCorpusLoad is the sentinel matched by every CorpusLoadError
	ErrCorpusLoad = errors.New("corpus load failed")

	// ErrCorpusNotLoaded is returned when a query arrives before any corpus is published
	ErrCorpusNotLoaded = errors.New("recipe corpus not loaded")

	// ErrInterpreterTimeout is returned when the interpreter does not answer within its deadline
	ErrInterpreterTimeout = errors.New("interpreter timed out")

	// ErrInterpreterMalformed is returned when interpreter output cannot be parsed into a filter
	ErrInterpreterMalformed = errors.New("interpreter returned malformed output")

	// ErrInterpreterUnavailable is returned when the interpreter cannot be reached
	ErrInterpreterUnavailable = errors.New("interpreter unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRecipeNotFound is returned when a recipe id is not in the corpus
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// CorpusLoadError reports a corpus source that is unreadable or not a
// collection of recipe records.
type CorpusLoadError struct {
	Source string
	Err    error
}

func (e *CorpusLoadError) Error() string {
	return fmt.Sprintf("load corpus from %s: %v", e.Source, e.Err)
}

func (e *CorpusLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorpusLoad) true for any CorpusLoadError
func (e *CorpusLoadError) Is(target error) bool {
	return target == ErrCorpusLoad
}
