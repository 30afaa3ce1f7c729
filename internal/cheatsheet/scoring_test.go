package cheatsheet

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
)

// TestFantasyPoints tests weight application over a stat line
func TestFantasyPoints(t *testing.T) {
	weights := league.DefaultProfile().Scoring.Offense

	tests := []struct {
		name     string
		stats    map[string]float64
		expected float64
	}{
		{
			name: "quarterback line",
			stats: map[string]float64{
				draft.StatPassYd:  4500,
				draft.StatPassTD:  38,
				draft.StatPassInt: 10,
			},
			expected: 4500*0.04 + 38*4.0 - 10*2.0,
		},
		{
			name: "receiver line with receptions",
			stats: map[string]float64{
				draft.StatRec:   105,
				draft.StatRecYd: 1400,
				draft.StatRecTD: 9,
			},
			expected: 105*1.0 + 1400*0.1 + 9*6.0,
		},
		{
			name: "unknown stats are ignored",
			stats: map[string]float64{
				draft.StatRushYd: 1000,
				"snap_count":     950,
			},
			expected: 100,
		},
		{
			name:     "empty line scores zero",
			stats:    map[string]float64{},
			expected: 0,
		},
		{
			name:     "nil line scores zero",
			stats:    nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, FantasyPoints(tt.stats, weights), 1e-9)
		})
	}
}

// TestFantasyPointsDeterministic tests that summation order is stable
func TestFantasyPointsDeterministic(t *testing.T) {
	weights := make(map[string]float64)
	stats := make(map[string]float64)
	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("stat_%02d", i)
		weights[key] = 0.1 * float64(i%7)
		stats[key] = 3.3 * float64(i)
	}

	first := FantasyPoints(stats, weights)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, FantasyPoints(stats, weights))
	}
}

// TestEstimatePoints tests the rankings-only decay fallback
func TestEstimatePoints(t *testing.T) {
	assert.InDelta(t, 280, EstimatePoints(draft.PositionQB, 1), 1e-9, "rank 1 scores the base")
	assert.InDelta(t, 250, EstimatePoints(draft.PositionRB, 1), 1e-9)
	assert.InDelta(t, 200, EstimatePoints(draft.PositionTE, 1), 1e-9)
	assert.InDelta(t, 180, EstimatePoints(draft.PositionLB, 1), 1e-9)

	// Strictly decreasing in rank.
	prev := EstimatePoints(draft.PositionWR, 1)
	for rank := 2; rank <= 60; rank++ {
		cur := EstimatePoints(draft.PositionWR, rank)
		assert.Less(t, cur, prev, "rank %d should score below rank %d", rank, rank-1)
		prev = cur
	}

	assert.Zero(t, EstimatePoints(draft.PositionK, 5), "positions without a curve score zero")
	assert.Zero(t, EstimatePoints(draft.PositionQB, 0))
	assert.Zero(t, EstimatePoints(draft.PositionQB, -3))
}

// TestImputeTackles tests the 60/40 solo and assisted split
func TestImputeTackles(t *testing.T) {
	t.Run("total only", func(t *testing.T) {
		stats := map[string]float64{draft.StatTackleTot: 100}
		ImputeTackles(stats)
		assert.InDelta(t, 60, stats[draft.StatTackleSolo], 1e-9)
		assert.InDelta(t, 40, stats[draft.StatTackleAst], 1e-9)
	})

	t.Run("existing split untouched", func(t *testing.T) {
		stats := map[string]float64{
			draft.StatTackleTot:  100,
			draft.StatTackleSolo: 72,
		}
		ImputeTackles(stats)
		assert.InDelta(t, 72, stats[draft.StatTackleSolo], 1e-9)
		_, ok := stats[draft.StatTackleAst]
		assert.False(t, ok, "assists should not be invented next to a real solo count")
	})

	t.Run("nil and empty are safe", func(t *testing.T) {
		ImputeTackles(nil)
		stats := map[string]float64{}
		ImputeTackles(stats)
		assert.Empty(t, stats)
	})
}

// TestReplacementRank tests the starter-demand formula
func TestReplacementRank(t *testing.T) {
	profile := league.DefaultProfile() // 12 teams, QB 1 / RB 2 / WR 2 / TE 1

	tests := []struct {
		name     string
		pos      draft.Position
		poolSize int
		expected int
	}{
		{name: "quarterback shallow bench", pos: draft.PositionQB, poolSize: 40, expected: 6},   // 1 * 12 * 0.5
		{name: "running back full bench", pos: draft.PositionRB, poolSize: 120, expected: 24},   // 2 * 12 * 1.0
		{name: "wide receiver full bench", pos: draft.PositionWR, poolSize: 150, expected: 24},  // 2 * 12 * 1.0
		{name: "tight end shallow bench", pos: draft.PositionTE, poolSize: 60, expected: 6},     // 1 * 12 * 0.5
		{name: "clamped to pool", pos: draft.PositionRB, poolSize: 10, expected: 10},
		{name: "never below one", pos: draft.PositionDL, poolSize: 30, expected: 1}, // no DL starters configured
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReplacementRank(profile, tt.pos, tt.poolSize))
		})
	}
}

// TestReplacementRankSuperflex tests that the flexible quarterback slot
// deepens the quarterback baseline
func TestReplacementRankSuperflex(t *testing.T) {
	profile := league.DefaultProfile()
	standard := ReplacementRank(profile, draft.PositionQB, 40)

	profile.League.Superflex = true
	flexed := ReplacementRank(profile, draft.PositionQB, 40)

	assert.Equal(t, 6, standard)
	assert.Equal(t, 9, flexed, "floor(1 * 1.6 * 12 * 0.5)")
	assert.Greater(t, flexed, standard)
}

// TestReplacementLevels tests baseline extraction from sorted pools
func TestReplacementLevels(t *testing.T) {
	profile := league.DefaultProfile()

	pool := make([]*draft.PlayerRecord, 0, 12)
	for i := 0; i < 12; i++ {
		pool = append(pool, &draft.PlayerRecord{
			CleanName: fmt.Sprintf("quarterback %02d", i+1),
			Position:  draft.PositionQB,
			Points:    380 - float64(i)*15,
		})
	}
	byPos := map[draft.Position][]*draft.PlayerRecord{draft.PositionQB: pool}

	levels := ReplacementLevels(byPos, profile)

	require.Contains(t, levels, draft.PositionQB)
	assert.InDelta(t, pool[5].Points, levels[draft.PositionQB], 1e-9, "rank 6 is the baseline")

	empty := ReplacementLevels(map[draft.Position][]*draft.PlayerRecord{draft.PositionWR: {}}, profile)
	assert.NotContains(t, empty, draft.PositionWR, "empty pools produce no baseline")
}
