package draft

import (
	"regexp"
	"strings"
	"time"
)

// Position is a canonical fantasy roster position.
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
	PositionDL  Position = "DL"
	PositionLB  Position = "LB"
	PositionDB  Position = "DB"

	// PositionFlex is not a player position; it keys the overall-sheet
	// tier gap and flex starter slots in league configuration.
	PositionFlex Position = "FLEX"
)

// posRankSuffix matches source values like "WR1" or "RB24".
var posRankSuffix = regexp.MustCompile(`^([A-Za-z/]+)\d*$`)

// positionAliases maps raw source position codes onto canonical positions.
// Defensive line and secondary roles collapse into the IDP groups used for
// scoring and replacement math.
var positionAliases = map[string]Position{
	"QB":   PositionQB,
	"RB":   PositionRB,
	"FB":   PositionRB,
	"WR":   PositionWR,
	"TE":   PositionTE,
	"K":    PositionK,
	"PK":   PositionK,
	"DST":  PositionDST,
	"DEF":  PositionDST,
	"D/ST": PositionDST,
	"DL":   PositionDL,
	"DE":   PositionDL,
	"DT":   PositionDL,
	"EDGE": PositionDL,
	"LB":   PositionLB,
	"ILB":  PositionLB,
	"OLB":  PositionLB,
	"MLB":  PositionLB,
	"DB":   PositionDB,
	"CB":   PositionDB,
	"S":    PositionDB,
	"FS":   PositionDB,
	"SS":   PositionDB,
}

// ParsePosition canonicalizes a raw position value from a CSV export.
// Trailing position-rank digits ("WR1") are ignored. Unknown values
// return the empty Position; callers decide whether that is a warning.
func ParsePosition(raw string) Position {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if m := posRankSuffix.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if pos, ok := positionAliases[s]; ok {
		return pos
	}
	return ""
}

// OffensePositions returns the offensive positions in sheet order.
func OffensePositions() []Position {
	return []Position{PositionQB, PositionRB, PositionWR, PositionTE}
}

// IDPPositions returns the defensive positions in sheet order.
func IDPPositions() []Position {
	return []Position{PositionDL, PositionLB, PositionDB}
}

// SheetPositions returns every position that gets its own sheet, in a
// fixed order so output is reproducible.
func SheetPositions(idp bool) []Position {
	out := OffensePositions()
	if idp {
		out = append(out, IDPPositions()...)
	}
	return out
}

// IsIDP reports whether p is an individual-defensive-player position.
func (p Position) IsIDP() bool {
	return p == PositionDL || p == PositionLB || p == PositionDB
}

// ValueTag labels the gap between market ADP and model rank. It is
// informational only and never feeds the priority score.
type ValueTag string

const (
	ValueTagNone  ValueTag = ""
	ValueTagSteal ValueTag = "STEAL"
	ValueTagValue ValueTag = "VALUE"
	ValueTagEarly ValueTag = "EARLY"
	ValueTagReach ValueTag = "REACH"
)

// UndraftedADP is the placeholder for players without market ADP. It sorts
// after every real pick in a standard draft.
const UndraftedADP = 999

// ProjectionRow is one raw player row from a projection or rankings source.
type ProjectionRow struct {
	Name       string             `json:"name"`
	Team       string             `json:"team"`
	Position   Position           `json:"position"`
	Stats      map[string]float64 `json:"stats"`
	SourceRank int                `json:"source_rank,omitempty"` // rank within a rankings-only export, 0 when absent
	Source     string             `json:"source,omitempty"`
}

// ADPRow is one raw player row from an ADP export.
type ADPRow struct {
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Position Position `json:"position"`
	ADP      float64  `json:"adp"`
}

// PlayerRecord is one fully enriched cheat-sheet row. Records are built
// from projection rows, enriched in place through the pipeline stages, and
// handed to the presentation layer immutably. Drafted and Injury belong to
// the presentation layer; the pipeline never reads or writes them.
type PlayerRecord struct {
	Name      string   `json:"name"`
	CleanName string   `json:"clean_name"`
	Suffix    string   `json:"suffix,omitempty"`
	Team      string   `json:"team"`
	Position  Position `json:"position"`

	Stats      map[string]float64 `json:"stats,omitempty"`
	SourceRank int                `json:"source_rank,omitempty"`

	ADP     float64 `json:"adp"`
	HasADP  bool    `json:"has_adp"`
	ADPDiff float64 `json:"adp_diff"`

	Points        float64  `json:"points"`
	VORP          float64  `json:"vorp"`
	Tier          int      `json:"tier"`
	OverallTier   int      `json:"overall_tier"`
	OverallRank   int      `json:"overall_rank"`
	PosRank       int      `json:"pos_rank"`
	NextDrop      float64  `json:"next_drop"`
	ScarcityLabel string   `json:"scarcity_label,omitempty"`
	ValueTag      ValueTag `json:"value_tag,omitempty"`
	DraftPriority float64  `json:"draft_priority"`
	DraftRank     int      `json:"draft_rank"`

	Drafted bool   `json:"drafted"`
	Injury  string `json:"injury,omitempty"`
}

// Key identifies a record within one run: exactly one PlayerRecord exists
// per (CleanName, Position).
func (r *PlayerRecord) Key() string {
	return r.CleanName + ":" + string(r.Position)
}

// WarningKind classifies pipeline warnings so callers can filter them.
type WarningKind string

const (
	WarnUnmatchedADP    WarningKind = "unmatched_adp"
	WarnMissingADP      WarningKind = "missing_adp"
	WarnDuplicatePlayer WarningKind = "duplicate_player"
	WarnAmbiguousName   WarningKind = "ambiguous_name"
	WarnUnknownStat     WarningKind = "unknown_stat"
	WarnBadValue        WarningKind = "bad_value"
	WarnSkippedRow      WarningKind = "skipped_row"
)

// Warning is a non-fatal data-quality note surfaced alongside the sheet so
// a human can review it before a live draft.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// InjuryStatus is presentation-layer enrichment fetched from a news feed.
type InjuryStatus struct {
	Status  string    `json:"status"`
	Detail  string    `json:"detail,omitempty"`
	Updated time.Time `json:"updated,omitempty"`
}

// CacheProvider is the minimal cache surface data providers need.
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}
