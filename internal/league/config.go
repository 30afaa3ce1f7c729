package league

import (
	"fmt"
	"strings"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// Profile bundles every setting one cheat-sheet run needs. Profiles are
// selected by name at invocation time and are immutable for the run.
type Profile struct {
	Name      string            `mapstructure:"-" json:"name"`
	League    LeagueSettings    `mapstructure:"league" json:"league"`
	Scoring   ScoringSettings   `mapstructure:"scoring" json:"scoring"`
	Tiers     TierSettings      `mapstructure:"tiers" json:"tiers"`
	Matcher   MatcherSettings   `mapstructure:"matcher" json:"matcher"`
	Strategy  StrategySettings  `mapstructure:"strategy" json:"strategy"`
	Paths     SourcePaths       `mapstructure:"paths" json:"paths"`
	Consensus ConsensusSettings `mapstructure:"consensus" json:"consensus"`
}

// LeagueSettings describes the roster shape replacement levels derive from.
type LeagueSettings struct {
	NumTeams              int                `mapstructure:"num_teams" json:"num_teams"`
	Superflex             bool               `mapstructure:"superflex" json:"superflex"`
	SuperflexQBMultiplier float64            `mapstructure:"superflex_qb_multiplier" json:"superflex_qb_multiplier"`
	IDP                   bool               `mapstructure:"idp" json:"idp"`
	Starters              map[string]int     `mapstructure:"starters" json:"starters"`
	BenchFactor           map[string]float64 `mapstructure:"bench_factor" json:"bench_factor"`
}

// lookup helpers match config keys case-insensitively because viper
// lowercases map keys when reading config files.

// StartersFor returns the configured starter count for a position.
func (l LeagueSettings) StartersFor(pos draft.Position) int {
	for k, v := range l.Starters {
		if strings.EqualFold(k, string(pos)) {
			return v
		}
	}
	return 0
}

// BenchFactorFor returns the bench factor for a position, defaulting to 0.5
// when the profile does not set one.
func (l LeagueSettings) BenchFactorFor(pos draft.Position) float64 {
	for k, v := range l.BenchFactor {
		if strings.EqualFold(k, string(pos)) {
			return v
		}
	}
	return 0.5
}

// EffectiveStarters returns the starter count used for replacement-level
// math. Superflex leagues scale the QB count by the configured multiplier
// because quarterbacks also fill the flexible slot.
func (l LeagueSettings) EffectiveStarters(pos draft.Position) float64 {
	n := float64(l.StartersFor(pos))
	if pos == draft.PositionQB && l.Superflex {
		mult := l.SuperflexQBMultiplier
		if mult <= 0 {
			mult = 1
		}
		n *= mult
	}
	return n
}

// ScoringSettings holds per-statistic point weights.
type ScoringSettings struct {
	Offense map[string]float64 `mapstructure:"offense" json:"offense"`
	IDP     map[string]float64 `mapstructure:"idp" json:"idp"`
}

// WeightsFor returns the weight table that applies to a position.
func (s ScoringSettings) WeightsFor(pos draft.Position) map[string]float64 {
	if pos.IsIDP() {
		return s.IDP
	}
	return s.Offense
}

// TierSettings holds the per-position point gaps that cut tier boundaries.
type TierSettings struct {
	GapPoints map[string]float64 `mapstructure:"tier_gap_points" json:"tier_gap_points"`
}

// GapFor returns the tier gap for a position, defaulting to 10 points.
// The FLEX entry drives the overall sheet.
func (t TierSettings) GapFor(pos draft.Position) float64 {
	for k, v := range t.GapPoints {
		if strings.EqualFold(k, string(pos)) {
			return v
		}
	}
	return 10
}

// MatcherSettings tunes the fuzzy name-matching fallback. The similarity
// threshold and the prefer-matching-team tie-break were never pinned down
// upstream, so both stay configurable per profile.
type MatcherSettings struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold"`
	PreferTeamTieBreak  bool    `mapstructure:"prefer_team_tiebreak" json:"prefer_team_tiebreak"`
}

// StrategySettings tunes the draft-priority ranker.
type StrategySettings struct {
	ScarcityWeight float64            `mapstructure:"scarcity_weight" json:"scarcity_weight"`
	ValueTags      ValueTagThresholds `mapstructure:"value_tags" json:"value_tags"`
	RoundBonuses   []RoundBonus       `mapstructure:"round_bonuses" json:"round_bonuses"`
}

// ValueTagThresholds are ADP-minus-rank cutoffs for the informational value
// tags. Steal/Value are positive (market drafts the player later than the
// model ranks them), Early/Reach negative.
type ValueTagThresholds struct {
	Steal float64 `mapstructure:"steal" json:"steal"`
	Value float64 `mapstructure:"value" json:"value"`
	Early float64 `mapstructure:"early" json:"early"`
	Reach float64 `mapstructure:"reach" json:"reach"`
}

// RoundBonus is one data-driven bonus bracket. Criteria are statistical
// thresholds over existing record fields, never player identities, so the
// same profile survives season rollover.
type RoundBonus struct {
	Label    string                   `mapstructure:"label" json:"label"`
	Bonus    float64                  `mapstructure:"bonus" json:"bonus"`
	Criteria map[string]BonusCriteria `mapstructure:"criteria" json:"criteria"`
}

// CriteriaFor returns the bracket's criteria for a position, if any.
func (b RoundBonus) CriteriaFor(pos draft.Position) (BonusCriteria, bool) {
	for k, v := range b.Criteria {
		if strings.EqualFold(k, string(pos)) {
			return v, true
		}
	}
	return BonusCriteria{}, false
}

// BonusCriteria gates a round bonus. Zero values mean "no constraint".
type BonusCriteria struct {
	MinVORP    float64 `mapstructure:"min_vorp" json:"min_vorp"`
	MaxPosRank int     `mapstructure:"max_pos_rank" json:"max_pos_rank"`
}

// Matches reports whether a record with the given VORP and position rank
// satisfies the criteria.
func (c BonusCriteria) Matches(vorp float64, posRank int) bool {
	if c.MinVORP != 0 && vorp < c.MinVORP {
		return false
	}
	if c.MaxPosRank > 0 && posRank > c.MaxPosRank {
		return false
	}
	return true
}

// WeightedSource is one projection CSV with its consensus weight.
type WeightedSource struct {
	Name   string  `mapstructure:"name" json:"name"`
	Path   string  `mapstructure:"path" json:"path"`
	Weight float64 `mapstructure:"weight" json:"weight"`
}

// SourcePaths locates the input CSVs for a profile. Relative paths are
// resolved against the configured data directory at load time.
type SourcePaths struct {
	OffenseSources []WeightedSource `mapstructure:"offense_sources" json:"offense_sources"`
	IDPCSV         string           `mapstructure:"idp_csv" json:"idp_csv"`
	ADPCSV         string           `mapstructure:"adp_csv" json:"adp_csv"`
}

// ConsensusSettings tunes the multi-source projection merge.
type ConsensusSettings struct {
	MinSources       int     `mapstructure:"min_sources" json:"min_sources"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" json:"outlier_threshold"`
}

func (p *Profile) applyDefaults() {
	if p.League.SuperflexQBMultiplier <= 0 {
		p.League.SuperflexQBMultiplier = 1.6
	}
	if p.Matcher.SimilarityThreshold <= 0 {
		p.Matcher.SimilarityThreshold = 0.72
	}
	if p.Strategy.ScarcityWeight <= 0 {
		p.Strategy.ScarcityWeight = 0.15
	}
	if p.Strategy.ValueTags == (ValueTagThresholds{}) {
		p.Strategy.ValueTags = ValueTagThresholds{Steal: 20, Value: 10, Early: -10, Reach: -20}
	}
	if p.Consensus.MinSources <= 0 {
		p.Consensus.MinSources = 1
	}
}

// Validate rejects profiles that cannot produce a sane run. Callers treat
// any error as fatal: no partial run on bad configuration.
func (p *Profile) Validate() error {
	if p.League.NumTeams < 2 {
		return fmt.Errorf("profile %q: num_teams must be at least 2, got %d", p.Name, p.League.NumTeams)
	}
	if len(p.League.Starters) == 0 {
		return fmt.Errorf("profile %q: league.starters is empty", p.Name)
	}
	if len(p.Scoring.Offense) == 0 {
		return fmt.Errorf("profile %q: scoring.offense is empty", p.Name)
	}
	if p.League.IDP && len(p.Scoring.IDP) == 0 {
		return fmt.Errorf("profile %q: idp enabled but scoring.idp is empty", p.Name)
	}
	for i, src := range p.Paths.OffenseSources {
		if src.Path == "" {
			return fmt.Errorf("profile %q: offense source %d has no path", p.Name, i)
		}
		if src.Weight < 0 {
			return fmt.Errorf("profile %q: offense source %q has negative weight", p.Name, src.Name)
		}
	}
	if p.Matcher.SimilarityThreshold <= 0 || p.Matcher.SimilarityThreshold > 1 {
		return fmt.Errorf("profile %q: matcher.similarity_threshold must be in (0,1], got %v",
			p.Name, p.Matcher.SimilarityThreshold)
	}
	return nil
}

// DefaultProfile returns the baseline 12-team PPR profile. It backs tests
// and the CLI when no profile file is supplied.
func DefaultProfile() *Profile {
	p := &Profile{
		Name: "redraft_12team",
		League: LeagueSettings{
			NumTeams:              12,
			Superflex:             false,
			SuperflexQBMultiplier: 1.6,
			Starters: map[string]int{
				"QB": 1, "RB": 2, "WR": 2, "TE": 1, "FLEX": 1,
			},
			BenchFactor: map[string]float64{
				"QB": 0.5, "RB": 1.0, "WR": 1.0, "TE": 0.5,
			},
		},
		Scoring: ScoringSettings{
			Offense: map[string]float64{
				draft.StatPassYd:  0.04,
				draft.StatPassTD:  4.0,
				draft.StatPassInt: -2.0,
				draft.StatPass2Pt: 2.0,
				draft.StatRushYd:  0.1,
				draft.StatRushTD:  6.0,
				draft.StatRec:     1.0,
				draft.StatRecYd:   0.1,
				draft.StatRecTD:   6.0,
				draft.StatRec2Pt:  2.0,
				draft.StatFumLost: -2.0,
			},
			IDP: map[string]float64{
				draft.StatTackleSolo: 1.0,
				draft.StatTackleAst:  0.5,
				draft.StatSack:       2.0,
				draft.StatDefInt:     3.0,
				draft.StatForcedFum:  2.0,
				draft.StatFumRec:     2.0,
				draft.StatPassDef:    1.0,
				draft.StatDefTD:      6.0,
			},
		},
		Tiers: TierSettings{
			GapPoints: map[string]float64{
				"QB": 18, "RB": 15, "WR": 15, "TE": 12,
				"DL": 10, "LB": 10, "DB": 8, "FLEX": 15,
			},
		},
		Matcher: MatcherSettings{
			SimilarityThreshold: 0.72,
			PreferTeamTieBreak:  true,
		},
		Strategy: StrategySettings{
			ScarcityWeight: 0.15,
			ValueTags:      ValueTagThresholds{Steal: 20, Value: 10, Early: -10, Reach: -20},
			RoundBonuses: []RoundBonus{
				{
					Label: "rounds_1_2",
					Bonus: 50,
					Criteria: map[string]BonusCriteria{
						"RB": {MinVORP: 80, MaxPosRank: 6},
						"WR": {MinVORP: 70, MaxPosRank: 6},
					},
				},
				{
					Label: "rounds_3_5",
					Bonus: 35,
					Criteria: map[string]BonusCriteria{
						"QB": {MinVORP: 60, MaxPosRank: 8},
						"RB": {MinVORP: 40, MaxPosRank: 20},
						"WR": {MinVORP: 40, MaxPosRank: 20},
						"TE": {MinVORP: 45, MaxPosRank: 4},
					},
				},
				{
					Label: "rounds_6_plus",
					Bonus: 15,
					Criteria: map[string]BonusCriteria{
						"QB": {MinVORP: 30, MaxPosRank: 15},
						"RB": {MinVORP: 15, MaxPosRank: 35},
						"WR": {MinVORP: 15, MaxPosRank: 35},
						"TE": {MinVORP: 20, MaxPosRank: 10},
					},
				},
			},
		},
		Consensus: ConsensusSettings{MinSources: 1, OutlierThreshold: 2.0},
	}
	return p
}
