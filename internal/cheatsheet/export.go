package cheatsheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// OverallCSV writes the overall cheat sheet, priority-ordered for live
// drafting.
func OverallCSV(w io.Writer, records []*draft.PlayerRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Priority", "Draft Rank", "Player", "Pos", "Team",
		"Points", "VORP", "Tier", "ADP", "ADP Diff", "Value", "Overall Rank",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			fmt.Sprintf("%.1f", r.DraftPriority),
			fmt.Sprintf("%d", r.DraftRank),
			r.Name,
			string(r.Position),
			r.Team,
			fmt.Sprintf("%.1f", r.Points),
			fmt.Sprintf("%.1f", r.VORP),
			fmt.Sprintf("%d", r.OverallTier),
			formatADP(r),
			fmt.Sprintf("%.1f", r.ADPDiff),
			string(r.ValueTag),
			fmt.Sprintf("%d", r.OverallRank),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PositionCSV writes one position's sheet with scarcity context.
func PositionCSV(w io.Writer, records []*draft.PlayerRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Pos Rank", "Player", "Team", "Points", "VORP",
		"Tier", "Next Drop", "Scarcity", "ADP",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			fmt.Sprintf("%d", r.PosRank),
			r.Name,
			r.Team,
			fmt.Sprintf("%.1f", r.Points),
			fmt.Sprintf("%.1f", r.VORP),
			fmt.Sprintf("%d", r.Tier),
			fmt.Sprintf("%.1f", r.NextDrop),
			r.ScarcityLabel,
			formatADP(r),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// BoardCSV writes the simplified draft board. Drafted is pre-marked for
// decorated records; Round and Pick stay blank for marking by hand.
func BoardCSV(w io.Writer, records []*draft.PlayerRecord) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Priority", "Rank", "Player", "Pos", "Team",
		"Tier", "ADP", "Value", "Drafted", "Round", "Pick",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		drafted := ""
		if r.Drafted {
			drafted = "X"
		}
		row := []string{
			fmt.Sprintf("%.1f", r.DraftPriority),
			fmt.Sprintf("%d", r.DraftRank),
			r.Name,
			string(r.Position),
			r.Team,
			fmt.Sprintf("%d", r.OverallTier),
			formatADP(r),
			string(r.ValueTag),
			drafted,
			"",
			"",
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatADP(r *draft.PlayerRecord) string {
	if !r.HasADP {
		return ""
	}
	return fmt.Sprintf("%.1f", r.ADP)
}
