package cheatsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
)

// TestValueTagFor tests the ADP-versus-rank labels and their boundaries
func TestValueTagFor(t *testing.T) {
	thresholds := league.ValueTagThresholds{Steal: 20, Value: 10, Early: -10, Reach: -20}

	tests := []struct {
		name     string
		diff     float64
		expected draft.ValueTag
	}{
		{name: "well past steal", diff: 35, expected: draft.ValueTagSteal},
		{name: "exactly steal", diff: 20, expected: draft.ValueTagSteal},
		{name: "between value and steal", diff: 15, expected: draft.ValueTagValue},
		{name: "exactly value", diff: 10, expected: draft.ValueTagValue},
		{name: "just under value", diff: 9.9, expected: draft.ValueTagNone},
		{name: "neutral zero", diff: 0, expected: draft.ValueTagNone},
		{name: "just above early", diff: -9.9, expected: draft.ValueTagNone},
		{name: "exactly early", diff: -10, expected: draft.ValueTagEarly},
		{name: "between early and reach", diff: -15, expected: draft.ValueTagEarly},
		{name: "exactly reach", diff: -20, expected: draft.ValueTagReach},
		{name: "well past reach", diff: -44, expected: draft.ValueTagReach},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValueTagFor(tt.diff, thresholds))
		})
	}
}

// TestScarcityBoosts tests dropoff normalization across positions
func TestScarcityBoosts(t *testing.T) {
	byPos := map[draft.Position][]*draft.PlayerRecord{
		draft.PositionRB: {{Points: 300}, {Points: 200}},
		draft.PositionWR: {{Points: 260}, {Points: 210}},
	}
	levels := map[draft.Position]float64{
		draft.PositionRB: 180, // drop 120, the steepest
		draft.PositionWR: 200, // drop 60, half as steep
	}

	boosts := ScarcityBoosts(byPos, levels, 0.15)

	assert.InDelta(t, 1.15, boosts[draft.PositionRB], 1e-9, "steepest position earns the full weight")
	assert.InDelta(t, 1.075, boosts[draft.PositionWR], 1e-9)
}

// TestScarcityBoostsFlat tests that flat pools carry no boost
func TestScarcityBoostsFlat(t *testing.T) {
	byPos := map[draft.Position][]*draft.PlayerRecord{
		draft.PositionQB: {{Points: 250}, {Points: 250}},
	}
	levels := map[draft.Position]float64{draft.PositionQB: 250}

	boosts := ScarcityBoosts(byPos, levels, 0.15)

	assert.InDelta(t, 1.0, boosts[draft.PositionQB], 1e-9)
}

// TestRoundBonusFor tests first-bracket-wins evaluation
func TestRoundBonusFor(t *testing.T) {
	brackets := []league.RoundBonus{
		{
			Label: "premium",
			Bonus: 50,
			Criteria: map[string]league.BonusCriteria{
				"RB": {MinVORP: 80, MaxPosRank: 6},
			},
		},
		{
			Label: "mid",
			Bonus: 35,
			Criteria: map[string]league.BonusCriteria{
				"RB": {MinVORP: 40, MaxPosRank: 20},
				"TE": {MinVORP: 45, MaxPosRank: 4},
			},
		},
	}

	tests := []struct {
		name     string
		pos      draft.Position
		vorp     float64
		posRank  int
		expected float64
	}{
		{name: "elite back hits the first bracket", pos: draft.PositionRB, vorp: 95, posRank: 3, expected: 50},
		{name: "solid back falls through to mid", pos: draft.PositionRB, vorp: 55, posRank: 12, expected: 35},
		{name: "rank too deep for either", pos: draft.PositionRB, vorp: 95, posRank: 25, expected: 0},
		{name: "elite tight end only matches mid", pos: draft.PositionTE, vorp: 90, posRank: 1, expected: 35},
		{name: "position without criteria", pos: draft.PositionQB, vorp: 120, posRank: 1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundBonusFor(brackets, tt.pos, tt.vorp, tt.posRank))
		})
	}
}

// TestDraftPriorityScore tests boost gating on the sign of VORP
func TestDraftPriorityScore(t *testing.T) {
	assert.InDelta(t, 115, DraftPriorityScore(100, 1.15, 0), 1e-9, "positive VORP is boosted")
	assert.InDelta(t, 130, DraftPriorityScore(100, 1.15, 15), 1e-9, "bonus is added after the boost")
	assert.InDelta(t, -10, DraftPriorityScore(-10, 1.15, 0), 1e-9, "negative VORP is never boosted")
	assert.InDelta(t, 5, DraftPriorityScore(-10, 1.15, 15), 1e-9, "bonus still applies below replacement")
	assert.InDelta(t, 0, DraftPriorityScore(0, 1.15, 0), 1e-9)
}

// TestSortForBoard tests the total ordering of the draft board
func TestSortForBoard(t *testing.T) {
	records := []*draft.PlayerRecord{
		{CleanName: "beta", DraftPriority: 80, ADP: 20},
		{CleanName: "alpha", DraftPriority: 80, ADP: 20},
		{CleanName: "cheap tie", DraftPriority: 80, ADP: 8},
		{CleanName: "leader", DraftPriority: 120, ADP: 90},
	}

	SortForBoard(records)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.CleanName
	}
	assert.Equal(t, []string{"leader", "cheap tie", "alpha", "beta"}, names)
}
