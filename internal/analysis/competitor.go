package analysis

import (
	"sort"
	"strings"

	"plancharts/internal/model"
)

// ScoreMax is the upper bound of competitor and SWOT scores.
const ScoreMax = 10.0

// ClampScore bounds v to [0, ScoreMax].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// CompetitorStrength is one competitor's row of the aggregation.
type CompetitorStrength struct {
	Name string `json:"name"`
	// Scores is aligned with the category axis; missing categories are null.
	Scores  []model.Value `json:"scores"`
	Overall model.Value   `json:"overall"`
}

// CategoryLeader is the best-scoring competitor of one category.
type CategoryLeader struct {
	Category   string  `json:"category"`
	Competitor string  `json:"competitor"`
	Score      float64 `json:"score"`
}

// CompetitorSummary aggregates competitor scores per category.
type CompetitorSummary struct {
	Categories  []string             `json:"categories"`
	Averages    []model.Value        `json:"averages"`
	Competitors []CompetitorStrength `json:"competitors"`
	Strongest   string               `json:"strongest,omitempty"`
	Leaders     []CategoryLeader     `json:"leaders"`

	// ByCategory holds the clamped scores keyed category first.
	ByCategory model.CategoryScore `json:"byCategory"`
}

// AggregateCompetitors clamps every score to [0,10] and computes:
//   - per-category averages over the competitors that have the category
//     (missing is excluded, not zero);
//   - overall strength as the mean of a competitor's present scores;
//   - the strongest competitor and each category leader, ties going to the
//     first competitor encountered.
func AggregateCompetitors(categories []string, competitors []model.Competitor) CompetitorSummary {
	sum := CompetitorSummary{
		Categories:  categories,
		Averages:    make([]model.Value, len(categories)),
		Competitors: make([]CompetitorStrength, 0, len(competitors)),
		Leaders:     make([]CategoryLeader, 0, len(categories)),
		ByCategory:  model.CategoryScore{},
	}

	for _, c := range competitors {
		row := CompetitorStrength{Name: c.Name, Scores: make([]model.Value, len(categories)), Overall: model.Null}
		total, n := 0.0, 0
		for j, cat := range categories {
			v, ok := lookupScore(c.Scores, cat)
			if !ok {
				row.Scores[j] = model.Null
				continue
			}
			v = ClampScore(v)
			row.Scores[j] = model.V(v)
			sum.ByCategory.Set(cat, c.Name, v)
			total += v
			n++
		}
		if n > 0 {
			row.Overall = model.V(total / float64(n))
		}
		sum.Competitors = append(sum.Competitors, row)
	}

	for j, cat := range categories {
		total, n := 0.0, 0
		leader := CategoryLeader{Category: cat}
		found := false
		for _, row := range sum.Competitors {
			v := row.Scores[j]
			if !v.Valid {
				continue
			}
			total += v.Float
			n++
			if !found || v.Float > leader.Score {
				leader.Competitor = row.Name
				leader.Score = v.Float
				found = true
			}
		}
		if n == 0 {
			sum.Averages[j] = model.Null
			continue
		}
		sum.Averages[j] = model.V(total / float64(n))
		sum.Leaders = append(sum.Leaders, leader)
	}

	best := -1.0
	for _, row := range sum.Competitors {
		if row.Overall.Valid && row.Overall.Float > best {
			best = row.Overall.Float
			sum.Strongest = row.Name
		}
	}
	return sum
}

// lookupScore matches the category exactly first, then case-insensitively.
func lookupScore(scores map[string]float64, category string) (float64, bool) {
	if v, ok := scores[category]; ok {
		return v, true
	}
	var keys []string
	for k := range scores {
		if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(category)) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return 0, false
	}
	sort.Strings(keys)
	return scores[keys[0]], true
}
