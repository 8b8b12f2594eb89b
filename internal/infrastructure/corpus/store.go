package corpus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shanto268/DishCord/internal/domain"
)

// Store holds the published corpus snapshot. Readers always see one complete
// snapshot; reloads build the next one off to the side and swap it in.
type Store struct {
	source  domain.CorpusSource
	current atomic.Pointer[domain.Corpus]
	report  atomic.Pointer[LoadReport]
	reload  sync.Mutex
	logger  *zap.Logger
}

// NewStore creates an empty store that loads from source
func NewStore(source domain.CorpusSource, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{source: source, logger: logger}
}

// Current returns the published snapshot, or nil before the first load
func (s *Store) Current() *domain.Corpus {
	return s.current.Load()
}

// LastReport returns the report of the last successful load
func (s *Store) LastReport() *LoadReport {
	return s.report.Load()
}

// Publish swaps in an already built corpus
func (s *Store) Publish(c *domain.Corpus) {
	s.current.Store(c)
}

// Reload fetches and parses the source, then publishes the result.
// On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (*LoadReport, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	start := time.Now()
	c, report, err := Load(ctx, s.source)
	if err != nil {
		s.logger.Error("corpus load failed",
			zap.String("source", s.source.Name()),
			zap.Bool("kept_previous", s.Current() != nil),
			zap.Error(err))
		return nil, err
	}

	s.current.Store(c)
	s.report.Store(report)

	fields := []zap.Field{
		zap.String("source", report.Source),
		zap.Int("loaded", report.Loaded),
		zap.Int("skipped", report.Skipped),
		zap.Duration("took", time.Since(start)),
	}
	if report.Skipped > 0 {
		s.logger.Warn("corpus loaded with skipped records", append(fields, zap.Any("reasons", report.Reasons))...)
	} else {
		s.logger.Info("corpus loaded", fields...)
	}
	return report, nil
}

// Watch reloads the corpus every interval until ctx is done
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				s.logger.Warn("scheduled corpus reload failed", zap.Error(err))
			}
		}
	}
}
