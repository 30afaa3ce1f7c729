package cheatsheet

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
)

// Sheet is one complete cheat-sheet build. Overall is points order, Board
// is draft-priority order, and the position slices are sheet order; all
// three share the same underlying records.
type Sheet struct {
	Profile           string                                   `json:"profile"`
	BuiltAt           time.Time                                `json:"built_at"`
	Overall           []*draft.PlayerRecord                    `json:"overall"`
	ByPosition        map[draft.Position][]*draft.PlayerRecord `json:"by_position"`
	Board             []*draft.PlayerRecord                    `json:"board"`
	ReplacementLevels map[draft.Position]float64               `json:"replacement_levels"`
	Warnings          []draft.Warning                          `json:"warnings"`
}

// Positions returns the sheet's position keys in fixed sheet order.
func (s *Sheet) Positions() []draft.Position {
	out := make([]draft.Position, 0, len(s.ByPosition))
	for _, pos := range draft.SheetPositions(true) {
		if _, ok := s.ByPosition[pos]; ok {
			out = append(out, pos)
		}
	}
	return out
}

// Pipeline turns raw projection and ADP rows into a Sheet under one league
// profile. It holds no mutable state; Build can be called repeatedly and
// concurrently, and identical inputs always produce identical output.
type Pipeline struct {
	profile *league.Profile
	logger  *logrus.Logger
}

func NewPipeline(profile *league.Profile, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
	}
	return &Pipeline{profile: profile, logger: logger}
}

// Build runs the full sequence: score and dedupe projections, join ADP,
// compute replacement levels and VORP, rank, tier, tag, and order the
// board. Input slices are never mutated.
func (p *Pipeline) Build(projRows []draft.ProjectionRow, adpRows []draft.ADPRow) (*Sheet, error) {
	if p.profile == nil {
		return nil, fmt.Errorf("cheatsheet: nil league profile")
	}

	var warnings []draft.Warning
	records, keptRows, ingestWarnings := p.ingest(projRows)
	warnings = append(warnings, ingestWarnings...)
	if len(records) == 0 {
		return nil, fmt.Errorf("cheatsheet: no usable projection rows for profile %q", p.profile.Name)
	}

	hints := make(map[string]float64, len(records))
	for _, r := range records {
		hints[r.Key()] = r.Points
	}
	matched := Match(adpRows, keptRows, MatchOptions{
		SimilarityThreshold: p.profile.Matcher.SimilarityThreshold,
		PreferTeamTieBreak:  p.profile.Matcher.PreferTeamTieBreak,
		PointsHint:          hints,
	})
	warnings = append(warnings, matched.Warnings...)

	for _, r := range records {
		r.ADP = draft.UndraftedADP
		r.HasADP = false
	}
	for _, pair := range matched.Pairs {
		rec, adp := records[pair.ProjIndex], adpRows[pair.ADPIndex]
		rec.ADP = adp.ADP
		rec.HasADP = true
		if rec.Team == "" && adp.Team != "" {
			rec.Team = draft.NormalizeTeam(adp.Team)
		}
	}

	byPos := make(map[draft.Position][]*draft.PlayerRecord)
	for _, r := range records {
		byPos[r.Position] = append(byPos[r.Position], r)
	}
	for _, pos := range draft.SheetPositions(true) {
		SortForSheet(byPos[pos])
	}

	levels := ReplacementLevels(byPos, p.profile)
	for _, r := range records {
		r.VORP = r.Points - levels[r.Position]
	}

	overall := make([]*draft.PlayerRecord, len(records))
	copy(overall, records)
	SortForSheet(overall)
	flexTiers := TierBreaks(overall, p.profile.Tiers.GapFor(draft.PositionFlex))
	for i, r := range overall {
		r.OverallRank = i + 1
		r.OverallTier = flexTiers[i]
	}

	for _, r := range records {
		if !r.HasADP {
			r.ADPDiff = 0
			r.ValueTag = draft.ValueTagNone
			continue
		}
		r.ADPDiff = r.ADP - float64(r.OverallRank)
		r.ValueTag = ValueTagFor(r.ADPDiff, p.profile.Strategy.ValueTags)
	}

	for _, pos := range draft.SheetPositions(true) {
		if len(byPos[pos]) > 0 {
			AnnotatePositionSheet(byPos[pos], p.profile.Tiers.GapFor(pos))
		}
	}

	boosts := ScarcityBoosts(byPos, levels, p.profile.Strategy.ScarcityWeight)
	for _, r := range records {
		bonus := RoundBonusFor(p.profile.Strategy.RoundBonuses, r.Position, r.VORP, r.PosRank)
		r.DraftPriority = DraftPriorityScore(r.VORP, boosts[r.Position], bonus)
	}

	board := make([]*draft.PlayerRecord, len(records))
	copy(board, records)
	SortForBoard(board)
	for i, r := range board {
		r.DraftRank = i + 1
	}

	sheet := &Sheet{
		Profile:           p.profile.Name,
		BuiltAt:           time.Now().UTC(),
		Overall:           overall,
		ByPosition:        byPos,
		Board:             board,
		ReplacementLevels: levels,
		Warnings:          warnings,
	}

	for _, w := range warnings {
		p.logger.WithField("kind", string(w.Kind)).Warn(w.Message)
	}
	p.logger.WithFields(logrus.Fields{
		"profile":  p.profile.Name,
		"players":  len(records),
		"matched":  len(matched.Pairs),
		"warnings": len(warnings),
	}).Info("Cheat sheet built")

	return sheet, nil
}

// ingest scores, filters, and dedupes projection rows. It returns the
// surviving records together with their source rows so the matcher sees
// exactly the rows that made it into the pool.
func (p *Pipeline) ingest(projRows []draft.ProjectionRow) ([]*draft.PlayerRecord, []draft.ProjectionRow, []draft.Warning) {
	allowed := make(map[draft.Position]bool)
	for _, pos := range draft.SheetPositions(p.profile.League.IDP) {
		allowed[pos] = true
	}

	var (
		records  []*draft.PlayerRecord
		keptRows []draft.ProjectionRow
		warnings []draft.Warning
		byKey    = make(map[string]int)
	)

	for _, row := range projRows {
		clean, suffix := NormalizeName(row.Name)
		if clean == "" {
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnSkippedRow,
				Message: fmt.Sprintf("projection row %q has no usable name", row.Name),
			})
			continue
		}
		if !allowed[row.Position] {
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnSkippedRow,
				Message: fmt.Sprintf("%s: position %q is not on this sheet", row.Name, row.Position),
			})
			continue
		}

		stats := copyStats(row.Stats)
		ImputeTackles(stats)
		points := FantasyPoints(stats, p.profile.Scoring.WeightsFor(row.Position))
		if !hasNonzeroStat(stats) && row.SourceRank > 0 {
			points = EstimatePoints(row.Position, row.SourceRank)
		}

		rec := &draft.PlayerRecord{
			Name:       row.Name,
			CleanName:  clean,
			Suffix:     suffix,
			Team:       draft.NormalizeTeam(row.Team),
			Position:   row.Position,
			Stats:      stats,
			SourceRank: row.SourceRank,
			Points:     points,
		}

		if idx, dup := byKey[rec.Key()]; dup {
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnDuplicatePlayer,
				Message: fmt.Sprintf("duplicate projection for %s (%s); kept the higher-scoring row", clean, row.Position),
			})
			if points > records[idx].Points {
				records[idx] = rec
				keptRows[idx] = row
			}
			continue
		}
		byKey[rec.Key()] = len(records)
		records = append(records, rec)
		keptRows = append(keptRows, row)
	}

	return records, keptRows, warnings
}

func copyStats(stats map[string]float64) map[string]float64 {
	if stats == nil {
		return nil
	}
	out := make(map[string]float64, len(stats))
	for k, v := range stats {
		out[k] = v
	}
	return out
}

func hasNonzeroStat(stats map[string]float64) bool {
	for _, v := range stats {
		if v != 0 {
			return true
		}
	}
	return false
}
