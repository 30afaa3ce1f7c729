package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// InjuryFetcher is the provider surface the injury service needs.
type InjuryFetcher interface {
	Fetch(ctx context.Context) (map[string]draft.InjuryStatus, error)
}

// InjuryService serves the league-wide injury report for sheet decoration.
// The last good report is kept as a snapshot so sheet reads never block on
// the feed; a broken feed degrades to the snapshot, never to an error.
type InjuryService struct {
	feed   InjuryFetcher
	logger *logrus.Logger

	mu        sync.RWMutex
	snapshot  map[string]draft.InjuryStatus
	updatedAt time.Time
}

// NewInjuryService creates a new injury service.
func NewInjuryService(feed InjuryFetcher, logger *logrus.Logger) *InjuryService {
	if logger == nil {
		logger = logrus.New()
	}
	return &InjuryService{feed: feed, logger: logger}
}

// Report fetches the current injury report keyed by clean player name and
// refreshes the snapshot. On feed failure the previous snapshot is served.
func (s *InjuryService) Report(ctx context.Context) map[string]draft.InjuryStatus {
	if s.feed == nil {
		return s.Snapshot()
	}

	report, err := s.feed.Fetch(ctx)
	if err != nil {
		s.logger.Warnf("Injury report unavailable, serving last snapshot: %v", err)
		return s.Snapshot()
	}

	s.mu.Lock()
	s.snapshot = report
	s.updatedAt = time.Now()
	s.mu.Unlock()

	return report
}

// Snapshot returns the last fetched report without touching the feed.
func (s *InjuryService) Snapshot() map[string]draft.InjuryStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return map[string]draft.InjuryStatus{}
	}
	return s.snapshot
}

// LastUpdated reports when the snapshot was last refreshed.
func (s *InjuryService) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
