package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shanto268/DishCord/internal/domain"
)

// MockInterpreter replays scripted responses, one per call. When the script
// runs out the last entry repeats.
type MockInterpreter struct {
	mu        sync.Mutex
	responses []mockResponse
	requests  []domain.CompletionRequest
}

type mockResponse struct {
	text  string
	err   error
	block bool // wait for the context to end
	delay time.Duration
}

func (m *MockInterpreter) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	i := len(m.requests) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	resp := m.responses[i]
	m.mu.Unlock()

	if resp.delay > 0 {
		select {
		case <-time.After(resp.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if resp.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return resp.text, resp.err
}

func (m *MockInterpreter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *MockInterpreter) Request(i int) domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[i]
}

// MockCacheRepository stores JSON-decoded values, like the real caches
type MockCacheRepository struct {
	mu   sync.Mutex
	data map[string]interface{}
	sets int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string]interface{})}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = decoded
	m.sets++
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheRepository) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// staticCorpus is a CorpusProvider over a fixed snapshot
type staticCorpus struct {
	mu     sync.Mutex
	corpus *domain.Corpus
}

func (s *staticCorpus) Current() *domain.Corpus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.corpus
}

func (s *staticCorpus) swap(c *domain.Corpus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = c
}
