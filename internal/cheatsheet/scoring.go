package cheatsheet

import (
	"math"
	"sort"

	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
)

// FantasyPoints applies a scoring weight table to a stat line. Statistics
// missing from the line contribute zero; statistics without a weight are
// ignored. Keys are summed in sorted order so the float result is identical
// across runs.
func FantasyPoints(stats, weights map[string]float64) float64 {
	if len(stats) == 0 || len(weights) == 0 {
		return 0
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0.0
	for _, k := range keys {
		if w, ok := weights[k]; ok {
			total += stats[k] * w
		}
	}
	return total
}

// decayCurves estimate season points from a bare positional rank. Tuned so
// rank 1 lands near a typical top finisher and the curve flattens through
// the startable range.
var decayCurves = map[draft.Position]struct{ base, decay float64 }{
	draft.PositionQB: {280, 0.05},
	draft.PositionRB: {250, 0.04},
	draft.PositionWR: {250, 0.04},
	draft.PositionTE: {200, 0.06},
	draft.PositionDL: {180, 0.03},
	draft.PositionLB: {180, 0.03},
	draft.PositionDB: {180, 0.03},
}

// EstimatePoints converts a rankings-only row into a point projection via
// positional exponential decay. Positions without a curve and non-positive
// ranks return 0.
func EstimatePoints(pos draft.Position, sourceRank int) float64 {
	if sourceRank <= 0 {
		return 0
	}
	c, ok := decayCurves[pos]
	if !ok {
		return 0
	}
	return c.base * math.Exp(-c.decay*float64(sourceRank-1))
}

// ImputeTackles splits a combined tackle total 60/40 into solo and assisted
// tackles when a defensive source reports only the total. Lines that
// already carry either split stat are left alone.
func ImputeTackles(stats map[string]float64) {
	if stats == nil {
		return
	}
	total := stats[draft.StatTackleTot]
	if total <= 0 {
		return
	}
	if _, ok := stats[draft.StatTackleSolo]; ok {
		return
	}
	if _, ok := stats[draft.StatTackleAst]; ok {
		return
	}
	stats[draft.StatTackleSolo] = total * 0.6
	stats[draft.StatTackleAst] = total * 0.4
}

// ReplacementRank returns the 1-based depth of a position's replacement
// player: floor(starters x teams x bench factor), clamped to the pool.
// Superflex leagues reach deeper at quarterback through the effective
// starter multiplier.
func ReplacementRank(profile *league.Profile, pos draft.Position, poolSize int) int {
	starters := profile.League.EffectiveStarters(pos)
	rank := int(math.Floor(starters * float64(profile.League.NumTeams) * profile.League.BenchFactorFor(pos)))
	if rank < 1 {
		rank = 1
	}
	if poolSize > 0 && rank > poolSize {
		rank = poolSize
	}
	return rank
}

// ReplacementLevels computes the baseline points for each position from
// pools already sorted descending by points.
func ReplacementLevels(byPos map[draft.Position][]*draft.PlayerRecord, profile *league.Profile) map[draft.Position]float64 {
	levels := make(map[draft.Position]float64, len(byPos))
	for pos, records := range byPos {
		if len(records) == 0 {
			continue
		}
		levels[pos] = records[ReplacementRank(profile, pos, len(records))-1].Points
	}
	return levels
}
