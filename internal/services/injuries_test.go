package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

type stubInjuryFeed struct {
	report map[string]draft.InjuryStatus
	err    error
}

func (s *stubInjuryFeed) Fetch(ctx context.Context) (map[string]draft.InjuryStatus, error) {
	return s.report, s.err
}

// TestInjuryServiceSnapshot tests that feed failures serve the last good
// report instead of an error
func TestInjuryServiceSnapshot(t *testing.T) {
	feed := &stubInjuryFeed{
		report: map[string]draft.InjuryStatus{"nick chubb": {Status: "Out"}},
	}
	svc := NewInjuryService(feed, quietLogger())

	assert.Empty(t, svc.Snapshot())
	assert.True(t, svc.LastUpdated().IsZero())

	report := svc.Report(context.Background())
	assert.Len(t, report, 1)
	assert.Len(t, svc.Snapshot(), 1)
	assert.False(t, svc.LastUpdated().IsZero())

	// The feed going down keeps the snapshot alive.
	feed.err = errors.New("feed down")
	report = svc.Report(context.Background())
	assert.Equal(t, "Out", report["nick chubb"].Status)

	missing := NewInjuryService(nil, quietLogger())
	assert.Empty(t, missing.Report(context.Background()))
}
