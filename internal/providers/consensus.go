package providers

import (
	"fmt"
	"math"
	"sort"

	"github.com/jstittsworth/draftsheet/internal/cheatsheet"
	"github.com/jstittsworth/draftsheet/internal/draft"
	"github.com/jstittsworth/draftsheet/internal/league"
)

// WeightedProjections is one source's rows plus its consensus weight.
// A weight of zero or less counts as 1.
type WeightedProjections struct {
	Source string
	Weight float64
	Rows   []draft.ProjectionRow
}

type consensusEntry struct {
	clean   string
	pos     draft.Position
	rows    []draft.ProjectionRow
	weights []float64
}

// MergeProjections folds rows from multiple sources into one consensus row
// per player. Players are grouped by clean name and position; stat values
// are weighted averages with outliers rejected when at least three sources
// report the stat and one sits beyond the configured number of standard
// deviations from the mean. Identity fields come from the highest-weight
// source. Players seen by fewer than MinSources sources are dropped.
func MergeProjections(sources []WeightedProjections, settings league.ConsensusSettings) ([]draft.ProjectionRow, []draft.Warning) {
	minSources := settings.MinSources
	if minSources <= 0 {
		minSources = 1
	}

	grouped := make(map[string]*consensusEntry)
	var order []string
	for _, src := range sources {
		weight := src.Weight
		if weight <= 0 {
			weight = 1
		}
		for _, row := range src.Rows {
			clean, _ := cheatsheet.NormalizeName(row.Name)
			if clean == "" {
				continue
			}
			key := clean + ":" + string(row.Position)
			entry, ok := grouped[key]
			if !ok {
				entry = &consensusEntry{clean: clean, pos: row.Position}
				grouped[key] = entry
				order = append(order, key)
			}
			entry.rows = append(entry.rows, row)
			entry.weights = append(entry.weights, weight)
		}
	}
	sort.Strings(order)

	var (
		merged   []draft.ProjectionRow
		warnings []draft.Warning
		dropped  int
	)
	for _, key := range order {
		entry := grouped[key]
		if len(entry.rows) < minSources {
			dropped++
			continue
		}
		merged = append(merged, mergeEntry(entry, settings.OutlierThreshold))
	}
	if dropped > 0 {
		warnings = append(warnings, draft.Warning{
			Kind:    draft.WarnSkippedRow,
			Message: fmt.Sprintf("%d players dropped for appearing in fewer than %d sources", dropped, minSources),
		})
	}

	return merged, warnings
}

func mergeEntry(entry *consensusEntry, outlierThreshold float64) draft.ProjectionRow {
	// Identity from the heaviest source; first listed wins ties.
	best := 0
	for i := 1; i < len(entry.rows); i++ {
		if entry.weights[i] > entry.weights[best] {
			best = i
		}
	}
	out := draft.ProjectionRow{
		Name:     entry.rows[best].Name,
		Team:     entry.rows[best].Team,
		Position: entry.rows[best].Position,
		Source:   "consensus",
	}
	for _, row := range entry.rows {
		if out.Team == "" && row.Team != "" {
			out.Team = row.Team
		}
	}

	statKeys := make(map[string]struct{})
	for _, row := range entry.rows {
		for k := range row.Stats {
			statKeys[k] = struct{}{}
		}
	}
	if len(statKeys) > 0 {
		out.Stats = make(map[string]float64, len(statKeys))
		keys := make([]string, 0, len(statKeys))
		for k := range statKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			var values, weights []float64
			for i, row := range entry.rows {
				if v, ok := row.Stats[k]; ok {
					values = append(values, v)
					weights = append(weights, entry.weights[i])
				}
			}
			out.Stats[k] = weightedAverage(values, weights, outlierThreshold)
		}
	}

	var rankSum, rankWeight float64
	for i, row := range entry.rows {
		if row.SourceRank > 0 {
			rankSum += float64(row.SourceRank) * entry.weights[i]
			rankWeight += entry.weights[i]
		}
	}
	if rankWeight > 0 {
		out.SourceRank = int(math.Round(rankSum / rankWeight))
	}

	return out
}

// weightedAverage averages values by weight, first discarding any value
// more than threshold standard deviations from the unweighted mean when
// three or more values are present. If rejection would discard everything,
// all values are kept.
func weightedAverage(values, weights []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	keepValues, keepWeights := values, weights
	if threshold > 0 && len(values) >= 3 {
		mean, std := meanStd(values)
		if std > 0 {
			var kv, kw []float64
			for i, v := range values {
				if math.Abs(v-mean) <= threshold*std {
					kv = append(kv, v)
					kw = append(kw, weights[i])
				}
			}
			if len(kv) > 0 {
				keepValues, keepWeights = kv, kw
			}
		}
	}

	var sum, weightSum float64
	for i, v := range keepValues {
		sum += v * keepWeights[i]
		weightSum += keepWeights[i]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

func meanStd(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}
