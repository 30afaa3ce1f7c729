package cheatsheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jstittsworth/draftsheet/internal/draft"
)

// MatchStage records which pass of the matcher produced a pair.
type MatchStage string

const (
	StageExact MatchStage = "exact"
	StageName  MatchStage = "name"
	StageFuzzy MatchStage = "fuzzy"
)

// MatchOptions tunes the ADP-to-projection join.
type MatchOptions struct {
	// SimilarityThreshold is the minimum levenshtein similarity the fuzzy
	// pass accepts. Values at or below zero fall back to the default.
	SimilarityThreshold float64

	// PreferTeamTieBreak makes equal-similarity fuzzy candidates prefer the
	// pair whose team fields agree.
	PreferTeamTieBreak bool

	// PointsHint supplies projected points keyed by "cleanname:POS". It
	// resolves one ADP name facing same-named projection rows at several
	// positions: the higher-scoring candidate wins.
	PointsHint map[string]float64
}

// DefaultSimilarityThreshold accepts common nickname drift ("gabriel davis"
// vs "gabe davis" scores 0.769) while rejecting unrelated names.
const DefaultSimilarityThreshold = 0.72

// MatchPair joins one ADP row to one projection row by input index.
type MatchPair struct {
	ADPIndex   int
	ProjIndex  int
	Stage      MatchStage
	Similarity float64
}

// MatchResult carries the pairs plus the unmatched remainder of each side.
// Every input index appears exactly once, either in a pair or in an
// unmatched list.
type MatchResult struct {
	Pairs         []MatchPair
	UnmatchedADP  []int
	UnmatchedProj []int
	Warnings      []draft.Warning
}

// Match joins ADP rows to projection rows in three passes, each consuming
// only rows untouched by earlier passes: exact join on (clean name,
// position), clean-name-only join where the name is unambiguous, then a
// greedy same-position fuzzy pass. Output is deterministic for identical
// inputs.
func Match(adpRows []draft.ADPRow, projRows []draft.ProjectionRow, opts MatchOptions) MatchResult {
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}

	adp := make([]matchSide, len(adpRows))
	for i, row := range adpRows {
		clean, _ := NormalizeName(row.Name)
		adp[i] = matchSide{clean: clean, pos: row.Position, team: row.Team}
	}
	proj := make([]matchSide, len(projRows))
	for i, row := range projRows {
		clean, _ := NormalizeName(row.Name)
		proj[i] = matchSide{clean: clean, pos: row.Position, team: row.Team}
	}

	var result MatchResult
	adpTaken := make([]bool, len(adp))
	projTaken := make([]bool, len(proj))

	pair := func(ai, pi int, stage MatchStage, sim float64) {
		result.Pairs = append(result.Pairs, MatchPair{ADPIndex: ai, ProjIndex: pi, Stage: stage, Similarity: sim})
		adpTaken[ai] = true
		projTaken[pi] = true
	}

	// Pass 1: exact on (clean name, position).
	projByKey := make(map[string]int, len(proj))
	for i, p := range proj {
		if p.clean == "" {
			continue
		}
		key := p.clean + ":" + string(p.pos)
		if _, dup := projByKey[key]; !dup {
			projByKey[key] = i
		}
	}
	for ai, a := range adp {
		if a.clean == "" || a.pos == "" {
			continue
		}
		if pi, ok := projByKey[a.clean+":"+string(a.pos)]; ok && !projTaken[pi] {
			pair(ai, pi, StageExact, 1)
		}
	}

	// Pass 2: clean name alone, when unambiguous. An ADP row without a
	// position facing several same-named candidates resolves to the one
	// with the higher projected points.
	adpByName := groupRemaining(adp, adpTaken)
	projByName := groupRemaining(proj, projTaken)
	names := make([]string, 0, len(adpByName))
	for name := range adpByName {
		if _, ok := projByName[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		ais, pis := adpByName[name], projByName[name]
		if len(ais) != 1 {
			continue
		}
		ai := ais[0]
		switch {
		case len(pis) == 1:
			pair(ai, pis[0], StageName, 1)
		case adp[ai].pos == "":
			best := pickByPoints(pis, proj, opts.PointsHint)
			pair(ai, best, StageName, 1)
			result.Warnings = append(result.Warnings, draft.Warning{
				Kind: draft.WarnAmbiguousName,
				Message: fmt.Sprintf("ADP name %q matches %d positions; kept %s by projected points",
					name, len(pis), proj[best].pos),
			})
		}
	}

	// Pass 3: greedy fuzzy over the remainder, same position only. Sorting
	// candidates once is equivalent to repeatedly taking the best pair
	// because similarities never change as rows drop out.
	var candidates []fuzzyCandidate
	for ai, a := range adp {
		if adpTaken[ai] || a.clean == "" || a.pos == "" {
			continue
		}
		for pi, p := range proj {
			if projTaken[pi] || p.clean == "" || p.pos != a.pos {
				continue
			}
			sim := nameSimilarity(a.clean, p.clean)
			if sim >= opts.SimilarityThreshold {
				candidates = append(candidates, fuzzyCandidate{ai: ai, pi: pi, sim: sim, teamMatch: draft.SameTeam(a.team, p.team)})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.sim != b.sim {
			return a.sim > b.sim
		}
		if opts.PreferTeamTieBreak && a.teamMatch != b.teamMatch {
			return a.teamMatch
		}
		if adp[a.ai].clean != adp[b.ai].clean {
			return adp[a.ai].clean < adp[b.ai].clean
		}
		if proj[a.pi].clean != proj[b.pi].clean {
			return proj[a.pi].clean < proj[b.pi].clean
		}
		if a.ai != b.ai {
			return a.ai < b.ai
		}
		return a.pi < b.pi
	})
	for _, c := range candidates {
		if adpTaken[c.ai] || projTaken[c.pi] {
			continue
		}
		pair(c.ai, c.pi, StageFuzzy, c.sim)
	}

	for i := range adp {
		if !adpTaken[i] {
			result.UnmatchedADP = append(result.UnmatchedADP, i)
		}
	}
	for i := range proj {
		if !projTaken[i] {
			result.UnmatchedProj = append(result.UnmatchedProj, i)
		}
	}

	if n := len(result.UnmatchedADP); n > 0 {
		result.Warnings = append(result.Warnings, draft.Warning{
			Kind:    draft.WarnUnmatchedADP,
			Message: fmt.Sprintf("%d ADP rows have no projection: %s", n, sampleNames(result.UnmatchedADP, func(i int) string { return adpRows[i].Name })),
		})
	}
	if n := len(result.UnmatchedProj); n > 0 {
		result.Warnings = append(result.Warnings, draft.Warning{
			Kind:    draft.WarnMissingADP,
			Message: fmt.Sprintf("%d projection rows have no ADP and rank as undrafted", n),
		})
	}

	return result
}

type matchSide struct {
	clean string
	pos   draft.Position
	team  string
}

type fuzzyCandidate struct {
	ai, pi    int
	sim       float64
	teamMatch bool
}

func groupRemaining(rows []matchSide, taken []bool) map[string][]int {
	groups := make(map[string][]int)
	for i, r := range rows {
		if !taken[i] && r.clean != "" {
			groups[r.clean] = append(groups[r.clean], i)
		}
	}
	return groups
}

// pickByPoints chooses the candidate with the highest hinted points,
// breaking ties by position so the pick is stable.
func pickByPoints(pis []int, proj []matchSide, hints map[string]float64) int {
	best := pis[0]
	bestPts := hints[proj[best].clean+":"+string(proj[best].pos)]
	for _, pi := range pis[1:] {
		pts := hints[proj[pi].clean+":"+string(proj[pi].pos)]
		if pts > bestPts || (pts == bestPts && proj[pi].pos < proj[best].pos) {
			best, bestPts = pi, pts
		}
	}
	return best
}

// sampleNames renders up to ten names for a warning message.
func sampleNames(indexes []int, name func(int) string) string {
	names := make([]string, 0, len(indexes))
	for _, i := range indexes {
		names = append(names, name(i))
	}
	sort.Strings(names)
	if len(names) > 10 {
		return strings.Join(names[:10], ", ") + fmt.Sprintf(" and %d more", len(names)-10)
	}
	return strings.Join(names, ", ")
}

// nameSimilarity is 1 minus the levenshtein distance normalized by the
// longer name. Identical names score 1, disjoint names approach 0.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	max := la
	if lb > max {
		max = lb
	}
	if max == 0 {
		return 1
	}
	return 1 - float64(levenshteinDistance(a, b))/float64(max)
}

func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
