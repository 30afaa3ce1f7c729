package services

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/draftsheet/internal/cheatsheet"
	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
	"github.com/jstittsworth/draftsheet/internal/providers"
)

// SheetService owns the active cheat sheet for one league profile. It
// loads the profile's source files, runs the pipeline, and keeps the built
// sheet in memory (and Redis, fingerprinted by source file state) so every
// API read is served from the same immutable build.
type SheetService struct {
	profile  *league.Profile
	pipeline *cheatsheet.Pipeline
	cache    *CacheService
	cacheTTL time.Duration
	logger   *logrus.Logger

	mu          sync.RWMutex
	sheet       *cheatsheet.Sheet
	fingerprint string
}

// NewSheetService creates a sheet service for one profile.
func NewSheetService(profile *league.Profile, cache *CacheService, cacheTTL time.Duration, logger *logrus.Logger) *SheetService {
	if logger == nil {
		logger = logrus.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &SheetService{
		profile:  profile,
		pipeline: cheatsheet.NewPipeline(profile, logger),
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Profile returns the active league profile.
func (s *SheetService) Profile() *league.Profile {
	return s.profile
}

// Current returns the active sheet, building it on first use.
func (s *SheetService) Current() (*cheatsheet.Sheet, error) {
	s.mu.RLock()
	sheet := s.sheet
	s.mu.RUnlock()

	if sheet != nil {
		return sheet, nil
	}
	return s.Rebuild()
}

// Rebuild loads the source files and rebuilds the sheet. A cached build
// for the same source fingerprint is reused across process restarts.
func (s *SheetService) Rebuild() (*cheatsheet.Sheet, error) {
	fp := s.computeFingerprint()

	if s.cache.Enabled() {
		var cached cheatsheet.Sheet
		if err := s.cache.GetSimple(SheetCacheKey(s.profile.Name, fp), &cached); err == nil && !cached.BuiltAt.IsZero() {
			s.logger.WithFields(logrus.Fields{
				"profile":  s.profile.Name,
				"built_at": cached.BuiltAt,
			}).Info("Loaded cheat sheet from cache")
			s.store(&cached, fp)
			return &cached, nil
		}
	}

	projRows, adpRows, sourceWarnings, err := s.loadSources()
	if err != nil {
		return nil, err
	}

	sheet, err := s.pipeline.Build(projRows, adpRows)
	if err != nil {
		return nil, err
	}
	// Source-file warnings precede pipeline warnings: they describe the
	// inputs the rest of the build stands on.
	sheet.Warnings = append(sourceWarnings, sheet.Warnings...)

	if s.cache.Enabled() {
		if err := s.cache.SetSimple(SheetCacheKey(s.profile.Name, fp), sheet, s.cacheTTL); err != nil {
			s.logger.Warnf("Failed to cache sheet: %v", err)
		}
	}

	s.store(sheet, fp)
	return sheet, nil
}

// EnsureFresh rebuilds only when the source files changed since the last
// build. It reports whether a rebuild happened.
func (s *SheetService) EnsureFresh() (bool, error) {
	s.mu.RLock()
	built := s.sheet != nil
	current := s.fingerprint
	s.mu.RUnlock()

	if built && current == s.computeFingerprint() {
		return false, nil
	}

	if _, err := s.Rebuild(); err != nil {
		return false, err
	}
	return true, nil
}

// Fingerprint returns the source fingerprint of the active build.
func (s *SheetService) Fingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

func (s *SheetService) store(sheet *cheatsheet.Sheet, fingerprint string) {
	s.mu.Lock()
	s.sheet = sheet
	s.fingerprint = fingerprint
	s.mu.Unlock()
}

// loadSources reads every input CSV the profile names. Projection sources
// are load-bearing and fail the build; the ADP file is optional and
// degrades to a warning because a sheet without market data is still a
// usable sheet.
func (s *SheetService) loadSources() ([]draft.ProjectionRow, []draft.ADPRow, []draft.Warning, error) {
	paths := s.profile.Paths
	if len(paths.OffenseSources) == 0 {
		return nil, nil, nil, fmt.Errorf("profile %q names no projection sources", s.profile.Name)
	}

	var warnings []draft.Warning
	var weighted []providers.WeightedProjections
	for _, src := range paths.OffenseSources {
		rows, w, err := providers.ReadProjectionsFile(src.Path, providers.ProjectionOptions{Source: src.Name})
		if err != nil {
			return nil, nil, nil, err
		}
		warnings = append(warnings, w...)
		weighted = append(weighted, providers.WeightedProjections{
			Source: src.Name,
			Weight: src.Weight,
			Rows:   rows,
		})
	}

	var projRows []draft.ProjectionRow
	if len(weighted) == 1 {
		projRows = weighted[0].Rows
	} else {
		merged, w := providers.MergeProjections(weighted, s.profile.Consensus)
		warnings = append(warnings, w...)
		projRows = merged
	}

	if s.profile.League.IDP && paths.IDPCSV != "" {
		rows, w, err := providers.ReadProjectionsFile(paths.IDPCSV, providers.ProjectionOptions{Source: "idp"})
		if err != nil {
			return nil, nil, nil, err
		}
		warnings = append(warnings, w...)
		projRows = append(projRows, rows...)
	}

	var adpRows []draft.ADPRow
	if paths.ADPCSV != "" {
		rows, w, err := providers.ReadADPFile(paths.ADPCSV)
		if err != nil {
			s.logger.Warnf("ADP source unusable: %v", err)
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnBadValue,
				Message: fmt.Sprintf("ADP source unusable: %v", err),
			})
		} else {
			warnings = append(warnings, w...)
			adpRows = rows
		}
	}

	return projRows, adpRows, warnings, nil
}

// computeFingerprint identifies the current state of every source file by
// modification time and size, in profile order, so EnsureFresh and the
// Redis key change exactly when an input changes.
func (s *SheetService) computeFingerprint() string {
	paths := make([]string, 0, len(s.profile.Paths.OffenseSources)+2)
	for _, src := range s.profile.Paths.OffenseSources {
		paths = append(paths, src.Path)
	}
	if s.profile.Paths.IDPCSV != "" {
		paths = append(paths, s.profile.Paths.IDPCSV)
	}
	if s.profile.Paths.ADPCSV != "" {
		paths = append(paths, s.profile.Paths.ADPCSV)
	}

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			parts = append(parts, path+":absent")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", path, info.ModTime().UnixNano(), info.Size()))
	}
	return strings.Join(parts, "|")
}

// DecorateRecords copies records and applies presentation state: drafted
// marks (session picks plus keepers) and injury notes. The pipeline's
// records are shared between views and must never be written in place.
func DecorateRecords(records []*draft.PlayerRecord, drafted map[string]bool, injuries map[string]draft.InjuryStatus) []*draft.PlayerRecord {
	out := make([]*draft.PlayerRecord, len(records))
	for i, r := range records {
		rec := *r
		if drafted != nil && drafted[r.Key()] {
			rec.Drafted = true
		}
		if inj, ok := injuries[r.CleanName]; ok {
			rec.Injury = inj.Status
		}
		out[i] = &rec
	}
	return out
}
