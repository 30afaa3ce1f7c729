package providers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// ReadADPFile opens and parses one ADP CSV.
func ReadADPFile(path string) ([]draft.ADPRow, []draft.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open ADP %s: %w", path, err)
	}
	defer f.Close()

	rows, warnings, err := ReadADP(f)
	if err != nil {
		return nil, warnings, fmt.Errorf("parse ADP %s: %w", path, err)
	}
	return rows, warnings, nil
}

// ReadADP parses ADP rows from CSV data. The name column follows the usual
// aliases; the ADP column is discovered in preference order: anything
// called adp, then an overall-rank style column, then a bare rank or pick
// column. Team and position columns are optional. Rows with non-numeric
// ADP are dropped with a warning.
func ReadADP(r io.Reader) ([]draft.ADPRow, []draft.Warning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rawHeader, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	nameIdx, firstIdx, lastIdx, teamIdx, posIdx := -1, -1, -1, -1, -1
	for i, raw := range rawHeader {
		col := normalizeHeader(raw)
		switch {
		case matchesAny(col, nameColumns):
			if nameIdx < 0 {
				nameIdx = i
			}
		case matchesAny(col, firstColumns):
			firstIdx = i
		case matchesAny(col, lastColumns):
			lastIdx = i
		case matchesAny(col, teamColumns):
			teamIdx = i
		case matchesAny(col, posColumns):
			posIdx = i
		}
	}
	adpIdx := findADPColumn(rawHeader)

	if nameIdx < 0 && (firstIdx < 0 || lastIdx < 0) {
		return nil, nil, errors.New("no player name column recognized")
	}
	if adpIdx < 0 {
		return nil, nil, errors.New("no ADP column recognized")
	}

	var (
		rows     []draft.ADPRow
		warnings []draft.Warning
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, warnings, fmt.Errorf("read row: %w", err)
		}

		name := cell(record, nameIdx)
		if name == "" && firstIdx >= 0 && lastIdx >= 0 {
			name = strings.TrimSpace(cell(record, firstIdx) + " " + cell(record, lastIdx))
		}
		if name == "" {
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnSkippedRow,
				Message: "ADP row with empty player name skipped",
			})
			continue
		}

		raw := cell(record, adpIdx)
		adp, ok := parseNumber(raw)
		if !ok || adp <= 0 {
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnBadValue,
				Message: fmt.Sprintf("%s has unusable ADP %q; row dropped", name, raw),
			})
			continue
		}

		rows = append(rows, draft.ADPRow{
			Name:     name,
			Team:     cell(record, teamIdx),
			Position: draft.ParsePosition(cell(record, posIdx)),
			ADP:      adp,
		})
	}

	return rows, warnings, nil
}

// findADPColumn prefers an explicit adp column, then overall-rank hybrids,
// then any plain rank or pick column.
func findADPColumn(rawHeader []string) int {
	for i, raw := range rawHeader {
		if strings.Contains(normalizeHeader(raw), "adp") {
			return i
		}
	}
	for i, raw := range rawHeader {
		col := normalizeHeader(raw)
		if strings.Contains(col, "overall") && strings.Contains(col, "rank") {
			return i
		}
	}
	for i, raw := range rawHeader {
		switch normalizeHeader(raw) {
		case "rank", "rk", "pick", "overall", "avg pick":
			return i
		}
	}
	return -1
}
