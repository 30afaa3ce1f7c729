package providers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// ProjectionOptions tunes one CSV read.
type ProjectionOptions struct {
	// Source labels every row for consensus weighting and warnings.
	Source string

	// DefaultPosition applies when the file carries no position column,
	// the common layout for single-position exports.
	DefaultPosition draft.Position
}

// Column aliases seen across projection exports. Headers are normalized
// to lower case with collapsed whitespace before lookup.
var (
	nameColumns  = []string{"player name", "player", "name", "full name"}
	firstColumns = []string{"first name", "first"}
	lastColumns  = []string{"last name", "last"}
	teamColumns  = []string{"team", "tm", "nfl team"}
	posColumns   = []string{"pos", "position"}
	rankColumns  = []string{"rk", "rank", "ecr"}
)

// statAliases maps source column names onto canonical stat keys.
var statAliases = map[string]string{
	"pass yds":      draft.StatPassYd,
	"pass yards":    draft.StatPassYd,
	"passing yds":   draft.StatPassYd,
	"pass yd":       draft.StatPassYd,
	"pass tds":      draft.StatPassTD,
	"pass td":       draft.StatPassTD,
	"passing tds":   draft.StatPassTD,
	"pass int":      draft.StatPassInt,
	"pass ints":     draft.StatPassInt,
	"pass 2pt":      draft.StatPass2Pt,
	"rush yds":      draft.StatRushYd,
	"rush yards":    draft.StatRushYd,
	"rushing yds":   draft.StatRushYd,
	"rush yd":       draft.StatRushYd,
	"rush tds":      draft.StatRushTD,
	"rush td":       draft.StatRushTD,
	"rushing tds":   draft.StatRushTD,
	"rec":           draft.StatRec,
	"receptions":    draft.StatRec,
	"catch":         draft.StatRec,
	"catches":       draft.StatRec,
	"rec yds":       draft.StatRecYd,
	"rec yards":     draft.StatRecYd,
	"receiving yds": draft.StatRecYd,
	"rec yd":        draft.StatRecYd,
	"rec tds":       draft.StatRecTD,
	"rec td":        draft.StatRecTD,
	"receiving tds": draft.StatRecTD,
	"rec 2pt":       draft.StatRec2Pt,
	"fum":           draft.StatFumLost,
	"fl":            draft.StatFumLost,
	"fum lost":      draft.StatFumLost,
	"fumbles":       draft.StatFumLost,
	"fumbles lost":  draft.StatFumLost,

	// IDP
	"tkl":               draft.StatTackleTot,
	"tackles":           draft.StatTackleTot,
	"total tackles":     draft.StatTackleTot,
	"comb":              draft.StatTackleTot,
	"tot":               draft.StatTackleTot,
	"solo":              draft.StatTackleSolo,
	"solo tackles":      draft.StatTackleSolo,
	"ast":               draft.StatTackleAst,
	"asst":              draft.StatTackleAst,
	"assists":           draft.StatTackleAst,
	"sack":              draft.StatSack,
	"sacks":             draft.StatSack,
	"sck":               draft.StatSack,
	"ff":                draft.StatForcedFum,
	"forced fumbles":    draft.StatForcedFum,
	"fum forced":        draft.StatForcedFum,
	"fr":                draft.StatFumRec,
	"fum rec":           draft.StatFumRec,
	"fumbles recovered": draft.StatFumRec,
	"pd":                draft.StatPassDef,
	"pass def":          draft.StatPassDef,
	"passes defended":   draft.StatPassDef,
	"def td":            draft.StatDefTD,
	"def tds":           draft.StatDefTD,
	"def int":           draft.StatDefInt,
}

// ignoredColumns are common export columns that carry nothing we score.
var ignoredColumns = map[string]bool{
	"bye":      true,
	"bye week": true,
	"fpts":     true,
	"pts":      true,
	"points":   true,
	"avg":      true,
	"notes":    true,
	"tier":     true,
	"adp":      true,
	"sos":      true,
}

// dualKind marks columns whose meaning depends on the row's position, like
// a bare "YDS" that is passing for quarterbacks and receiving otherwise.
type dualKind int

const (
	dualNone dualKind = iota
	dualYards
	dualTouchdowns
	dualInterceptions
)

var dualColumns = map[string]dualKind{
	"yds":  dualYards,
	"tds":  dualTouchdowns,
	"td":   dualTouchdowns,
	"int":  dualInterceptions,
	"ints": dualInterceptions,
}

type statColumn struct {
	index  int
	header string
	key    string
	dual   dualKind
}

// projectionHeader is the result of scanning a header row: identity column
// indexes (-1 when absent) plus every recognized stat column.
type projectionHeader struct {
	nameIdx, firstIdx, lastIdx int
	teamIdx, posIdx, rankIdx   int
	stats                      []statColumn
	warnings                   []draft.Warning
}

// ReadProjectionsFile opens and parses one projection or rankings CSV.
func ReadProjectionsFile(path string, opts ProjectionOptions) ([]draft.ProjectionRow, []draft.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open projections %s: %w", path, err)
	}
	defer f.Close()

	rows, warnings, err := ReadProjections(f, opts)
	if err != nil {
		return nil, warnings, fmt.Errorf("parse projections %s: %w", path, err)
	}
	return rows, warnings, nil
}

// ReadProjections parses projection rows from CSV data. Columns are
// discovered from the header by alias; the set of recognized stat columns
// decides whether rows carry stat lines or only a source rank. Malformed
// cells degrade to warnings; an unusable header is an error.
func ReadProjections(r io.Reader, opts ProjectionOptions) ([]draft.ProjectionRow, []draft.Warning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rawHeader, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header := scanProjectionHeader(rawHeader)
	warnings := header.warnings

	if header.nameIdx < 0 && (header.firstIdx < 0 || header.lastIdx < 0) {
		return nil, warnings, errors.New("no player name column recognized")
	}
	if len(header.stats) == 0 && header.rankIdx < 0 {
		return nil, warnings, errors.New("no stat or rank columns recognized")
	}

	var rows []draft.ProjectionRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, warnings, fmt.Errorf("read row: %w", err)
		}

		name := cell(record, header.nameIdx)
		if name == "" && header.firstIdx >= 0 && header.lastIdx >= 0 {
			name = strings.TrimSpace(cell(record, header.firstIdx) + " " + cell(record, header.lastIdx))
		}
		if name == "" {
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnSkippedRow,
				Message: fmt.Sprintf("%s: row with empty player name skipped", opts.Source),
			})
			continue
		}

		pos := opts.DefaultPosition
		if header.posIdx >= 0 {
			raw := cell(record, header.posIdx)
			pos = draft.ParsePosition(raw)
			if pos == "" {
				warnings = append(warnings, draft.Warning{
					Kind:    draft.WarnSkippedRow,
					Message: fmt.Sprintf("%s: %s has unknown position %q", opts.Source, name, raw),
				})
				continue
			}
		}
		if pos == "" {
			warnings = append(warnings, draft.Warning{
				Kind:    draft.WarnSkippedRow,
				Message: fmt.Sprintf("%s: %s has no position", opts.Source, name),
			})
			continue
		}

		row := draft.ProjectionRow{
			Name:     name,
			Team:     cell(record, header.teamIdx),
			Position: pos,
			Source:   opts.Source,
		}

		for _, col := range header.stats {
			raw := cell(record, col.index)
			v, ok := parseNumber(raw)
			if !ok {
				warnings = append(warnings, draft.Warning{
					Kind:    draft.WarnBadValue,
					Message: fmt.Sprintf("%s: %s column %q value %q is not numeric; using 0", opts.Source, name, col.header, raw),
				})
				continue
			}
			if v == 0 {
				continue
			}
			key := col.key
			if col.dual != dualNone {
				key = resolveDual(col.dual, pos)
			}
			if row.Stats == nil {
				row.Stats = make(map[string]float64)
			}
			if _, exists := row.Stats[key]; !exists {
				row.Stats[key] = v
			}
		}

		if header.rankIdx >= 0 {
			raw := cell(record, header.rankIdx)
			if raw != "" {
				if rank, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && rank > 0 {
					row.SourceRank = rank
				} else {
					warnings = append(warnings, draft.Warning{
						Kind:    draft.WarnBadValue,
						Message: fmt.Sprintf("%s: %s has unusable rank %q", opts.Source, name, raw),
					})
				}
			}
		}

		rows = append(rows, row)
	}

	return rows, warnings, nil
}

func scanProjectionHeader(rawHeader []string) projectionHeader {
	h := projectionHeader{nameIdx: -1, firstIdx: -1, lastIdx: -1, teamIdx: -1, posIdx: -1, rankIdx: -1}

	for i, raw := range rawHeader {
		col := normalizeHeader(raw)
		switch {
		case matchesAny(col, nameColumns):
			if h.nameIdx < 0 {
				h.nameIdx = i
			}
		case matchesAny(col, firstColumns):
			h.firstIdx = i
		case matchesAny(col, lastColumns):
			h.lastIdx = i
		case matchesAny(col, teamColumns):
			h.teamIdx = i
		case matchesAny(col, posColumns):
			h.posIdx = i
		case matchesAny(col, rankColumns):
			if h.rankIdx < 0 {
				h.rankIdx = i
			}
		case ignoredColumns[col]:
			// deliberately carries nothing we score
		default:
			if key, ok := statAliases[col]; ok {
				h.stats = append(h.stats, statColumn{index: i, header: raw, key: key})
			} else if dual, ok := dualColumns[col]; ok {
				h.stats = append(h.stats, statColumn{index: i, header: raw, dual: dual})
			} else if col != "" {
				h.warnings = append(h.warnings, draft.Warning{
					Kind:    draft.WarnUnknownStat,
					Message: fmt.Sprintf("column %q not recognized; ignored", raw),
				})
			}
		}
	}

	return h
}

// resolveDual maps a position-dependent column onto its stat key.
// Quarterbacks own the passing reading; defenders own interceptions.
func resolveDual(dual dualKind, pos draft.Position) string {
	switch dual {
	case dualYards:
		if pos == draft.PositionQB {
			return draft.StatPassYd
		}
		return draft.StatRecYd
	case dualTouchdowns:
		if pos == draft.PositionQB {
			return draft.StatPassTD
		}
		return draft.StatRecTD
	case dualInterceptions:
		if pos.IsIDP() {
			return draft.StatDefInt
		}
		return draft.StatPassInt
	}
	return ""
}

func normalizeHeader(raw string) string {
	s := strings.TrimPrefix(raw, "\uFEFF")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, ".")
	return strings.Join(strings.Fields(s), " ")
}

func matchesAny(col string, aliases []string) bool {
	for _, a := range aliases {
		if col == a {
			return true
		}
	}
	return false
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// parseNumber cleans thousands separators and treats empty or dash cells
// as zero. The bool reports whether the cell was usable.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" || s == "-" || s == "--" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
