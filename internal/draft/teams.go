package draft

import "strings"

// Team is one NFL franchise.
type Team struct {
	Abbr string // canonical abbreviation, e.g. "SEA"
	Name string
}

// AllTeams returns the canonical franchise list. ADP and projection exports
// disagree on several abbreviations; teamAliases maps the variants onto
// this list.
func AllTeams() []Team {
	return []Team{
		{Abbr: "ARI", Name: "Arizona Cardinals"},
		{Abbr: "ATL", Name: "Atlanta Falcons"},
		{Abbr: "BAL", Name: "Baltimore Ravens"},
		{Abbr: "BUF", Name: "Buffalo Bills"},
		{Abbr: "CAR", Name: "Carolina Panthers"},
		{Abbr: "CHI", Name: "Chicago Bears"},
		{Abbr: "CIN", Name: "Cincinnati Bengals"},
		{Abbr: "CLE", Name: "Cleveland Browns"},
		{Abbr: "DAL", Name: "Dallas Cowboys"},
		{Abbr: "DEN", Name: "Denver Broncos"},
		{Abbr: "DET", Name: "Detroit Lions"},
		{Abbr: "GB", Name: "Green Bay Packers"},
		{Abbr: "HOU", Name: "Houston Texans"},
		{Abbr: "IND", Name: "Indianapolis Colts"},
		{Abbr: "JAX", Name: "Jacksonville Jaguars"},
		{Abbr: "KC", Name: "Kansas City Chiefs"},
		{Abbr: "LAC", Name: "Los Angeles Chargers"},
		{Abbr: "LAR", Name: "Los Angeles Rams"},
		{Abbr: "LV", Name: "Las Vegas Raiders"},
		{Abbr: "MIA", Name: "Miami Dolphins"},
		{Abbr: "MIN", Name: "Minnesota Vikings"},
		{Abbr: "NE", Name: "New England Patriots"},
		{Abbr: "NO", Name: "New Orleans Saints"},
		{Abbr: "NYG", Name: "New York Giants"},
		{Abbr: "NYJ", Name: "New York Jets"},
		{Abbr: "PHI", Name: "Philadelphia Eagles"},
		{Abbr: "PIT", Name: "Pittsburgh Steelers"},
		{Abbr: "SEA", Name: "Seattle Seahawks"},
		{Abbr: "SF", Name: "San Francisco 49ers"},
		{Abbr: "TB", Name: "Tampa Bay Buccaneers"},
		{Abbr: "TEN", Name: "Tennessee Titans"},
		{Abbr: "WAS", Name: "Washington Commanders"},
	}
}

var teamAliases = map[string]string{
	"JAC": "JAX",
	"WSH": "WAS",
	"GNB": "GB",
	"KAN": "KC",
	"NWE": "NE",
	"NOR": "NO",
	"SFO": "SF",
	"TAM": "TB",
	"LVR": "LV",
	"OAK": "LV",
	"SD":  "LAC",
	"STL": "LAR",
	"LA":  "LAR",
}

var canonicalAbbrs = func() map[string]bool {
	m := make(map[string]bool, 32)
	for _, t := range AllTeams() {
		m[t.Abbr] = true
	}
	return m
}()

// NormalizeTeam maps a raw team value onto the canonical abbreviation.
// Unknown values are returned upper-cased so they still compare equal to
// themselves.
func NormalizeTeam(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if alias, ok := teamAliases[s]; ok {
		return alias
	}
	if canonicalAbbrs[s] {
		return s
	}
	return s
}

// SameTeam reports whether two raw team values refer to the same franchise.
// Empty values never match; matcher tie-breaks need a positive signal.
func SameTeam(a, b string) bool {
	na, nb := NormalizeTeam(a), NormalizeTeam(b)
	return na != "" && na == nb
}
