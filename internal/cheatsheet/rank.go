package cheatsheet

import (
	"sort"

	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
)

// ValueTagFor labels the gap between market ADP and model rank, where diff
// is ADP minus overall rank. Positive means the market drafts the player
// later than the model ranks them. Wider thresholds are checked first so a
// plus thirty never reads as a mere VALUE.
func ValueTagFor(diff float64, t league.ValueTagThresholds) draft.ValueTag {
	switch {
	case diff >= t.Steal:
		return draft.ValueTagSteal
	case diff >= t.Value:
		return draft.ValueTagValue
	case diff <= t.Reach:
		return draft.ValueTagReach
	case diff <= t.Early:
		return draft.ValueTagEarly
	default:
		return draft.ValueTagNone
	}
}

// ScarcityBoosts computes a multiplicative boost per position from how
// steeply points fall between the best player and the replacement baseline.
// The steepest position gets 1 + weight; flat positions stay near 1. Pools
// must be sheet-ordered.
func ScarcityBoosts(byPos map[draft.Position][]*draft.PlayerRecord, levels map[draft.Position]float64, weight float64) map[draft.Position]float64 {
	drops := make(map[draft.Position]float64, len(byPos))
	maxDrop := 0.0
	for pos, records := range byPos {
		if len(records) == 0 {
			continue
		}
		drop := records[0].Points - levels[pos]
		if drop < 0 {
			drop = 0
		}
		drops[pos] = drop
		if drop > maxDrop {
			maxDrop = drop
		}
	}

	boosts := make(map[draft.Position]float64, len(drops))
	for pos, drop := range drops {
		if maxDrop <= 0 {
			boosts[pos] = 1
			continue
		}
		boosts[pos] = 1 + weight*(drop/maxDrop)
	}
	return boosts
}

// RoundBonusFor returns the bonus of the first bracket whose criteria the
// record satisfies. Brackets are evaluated in profile order; a bracket with
// no criteria for the position never matches.
func RoundBonusFor(brackets []league.RoundBonus, pos draft.Position, vorp float64, posRank int) float64 {
	for _, b := range brackets {
		if c, ok := b.CriteriaFor(pos); ok && c.Matches(vorp, posRank) {
			return b.Bonus
		}
	}
	return 0
}

// DraftPriorityScore folds the scarcity boost and round bonus onto VORP.
// The boost applies to positive VORP only; below-replacement players do not
// get more attractive because their position is scarce.
func DraftPriorityScore(vorp, boost, bonus float64) float64 {
	score := vorp
	if vorp > 0 {
		score = vorp * boost
	}
	return score + bonus
}

// SortForBoard orders records for the draft board: priority desc, market
// ADP asc, clean name asc. The comparison chain is total, so identical
// inputs always produce the same board.
func SortForBoard(records []*draft.PlayerRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.DraftPriority != b.DraftPriority {
			return a.DraftPriority > b.DraftPriority
		}
		if a.ADP != b.ADP {
			return a.ADP < b.ADP
		}
		return a.CleanName < b.CleanName
	})
}
