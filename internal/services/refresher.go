package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefreshService rebuilds the cheat sheet on a schedule when the source
// CSVs change on disk, so a re-exported projection file shows up on every
// dashboard without a restart.
type RefreshService struct {
	sheets    *SheetService
	hub       *WebSocketHub
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	interval  time.Duration
}

// NewRefreshService creates a new refresh service.
func NewRefreshService(sheets *SheetService, hub *WebSocketHub, interval time.Duration, logger *logrus.Logger) *RefreshService {
	if logger == nil {
		logger = logrus.New()
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RefreshService{
		sheets:   sheets,
		hub:      hub,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start begins the scheduled refresh checks.
func (s *RefreshService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("sheet refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	_, err := s.cron.AddFunc(schedule, s.refresh)
	if err != nil {
		return fmt.Errorf("failed to schedule sheet refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithField("interval", s.interval.String()).Info("Sheet refresh service started")
	return nil
}

// Stop halts the scheduled refresh checks.
func (s *RefreshService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Sheet refresh service stopped")
}

// Status reports refresher state for the health endpoint.
func (s *RefreshService) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]interface{}{
		"is_running": s.isRunning,
		"interval":   s.interval.String(),
	}
}

// refresh rebuilds when the source fingerprint moved and notifies every
// connected dashboard.
func (s *RefreshService) refresh() {
	changed, err := s.sheets.EnsureFresh()
	if err != nil {
		s.logger.WithError(err).Error("Scheduled sheet refresh failed")
		return
	}
	if !changed {
		return
	}

	sheet, err := s.sheets.Current()
	if err != nil {
		return
	}

	s.logger.WithFields(logrus.Fields{
		"profile": sheet.Profile,
		"players": len(sheet.Overall),
	}).Info("Sheet rebuilt from changed sources")

	if s.hub != nil {
		s.hub.BroadcastAll(EventSheetUpdated, map[string]interface{}{
			"profile":  sheet.Profile,
			"built_at": sheet.BuiltAt,
			"players":  len(sheet.Overall),
		})
	}
}
