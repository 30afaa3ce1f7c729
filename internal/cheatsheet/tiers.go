package cheatsheet

import (
	"sort"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// SortForSheet orders records the way every sheet is read: best projected
// points first, market ADP breaking ties (the player the market trusts
// sorts ahead), clean name making the order total.
func SortForSheet(records []*draft.PlayerRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.ADP != b.ADP {
			return a.ADP < b.ADP
		}
		return a.CleanName < b.CleanName
	})
}

// TierBreaks walks a sheet-ordered slice and returns a tier number per
// record, starting at 1 and incrementing wherever consecutive points drop
// by at least gap. Zero- and one-record slices never leave tier 1.
func TierBreaks(records []*draft.PlayerRecord, gap float64) []int {
	tiers := make([]int, len(records))
	tier := 1
	for i, r := range records {
		if i > 0 && records[i-1].Points-r.Points >= gap {
			tier++
		}
		tiers[i] = tier
	}
	return tiers
}

// cliffWindow is how deep into a position sheet the CLIFF label applies.
// Past the first dozen players a big drop is depth noise, not a cliff.
const cliffWindow = 12

// AnnotatePositionSheet decorates a sheet-ordered position slice with
// position rank, tier, the points lead over the next player, and a
// scarcity label where that lead is steep.
func AnnotatePositionSheet(records []*draft.PlayerRecord, gap float64) {
	tiers := TierBreaks(records, gap)
	for i, r := range records {
		r.PosRank = i + 1
		r.Tier = tiers[i]

		r.NextDrop = 0
		if i+1 < len(records) {
			r.NextDrop = r.Points - records[i+1].Points
		}

		switch {
		case i < cliffWindow && r.NextDrop >= 1.5*gap:
			r.ScarcityLabel = "CLIFF"
		case r.NextDrop >= gap:
			r.ScarcityLabel = "DROP"
		default:
			r.ScarcityLabel = ""
		}
	}
}
