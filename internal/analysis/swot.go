package analysis

import (
	"fmt"

	"plancharts/internal/model"
)

// SWOTCategories is the fixed category axis of the SWOT chart.
var SWOTCategories = []string{
	"Technology",
	"Intellectual Property",
	"Talent",
	"Market Position",
	"Partnerships",
	"Financial",
	"Regulatory",
	"Operations",
}

// Reassignment records an item the balancer moved onto the fixed axis.
type Reassignment struct {
	Item string `json:"item"`
	From string `json:"from"`
	To   string `json:"to"`
}

// SWOTResult is the normalised SWOT category breakdown.
type SWOTResult struct {
	Categories []string `json:"categories"`
	// Scores is the overall 0–10 score per category.
	Scores []float64 `json:"scores"`
	// QuadrantScores holds the 0–10 score per category for each quadrant.
	QuadrantScores map[model.Quadrant][]float64 `json:"quadrantScores"`
	QuadrantCounts map[model.Quadrant]int       `json:"quadrantCounts"`
	Divisor        int                          `json:"divisor"`
	Reassigned     []Reassignment               `json:"reassigned,omitempty"`
}

// NormalizeSWOT weights each item by impact (Low=1, Medium=2, High=3),
// buckets it into SWOTCategories and scales each bucket to 0–10 by
// dividing by (max items in any quadrant × 3) and multiplying by 10.
// Scores are clamped to 10 and rounded to one decimal.
func NormalizeSWOT(items []model.SWOTItem) (SWOTResult, error) {
	res := SWOTResult{
		Categories:     SWOTCategories,
		QuadrantScores: make(map[model.Quadrant][]float64, len(model.Quadrants)),
		QuadrantCounts: make(map[model.Quadrant]int, len(model.Quadrants)),
	}
	perQuadrant := make(map[model.Quadrant][]float64, len(model.Quadrants))
	for _, q := range model.Quadrants {
		perQuadrant[q] = make([]float64, len(SWOTCategories))
		res.QuadrantCounts[q] = 0
	}

	bal := NewBalancer(SWOTCategories)
	for i, it := range items {
		q, err := model.ParseQuadrant(string(it.Quadrant))
		if err != nil {
			return SWOTResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		w, err := it.Impact.Weight()
		if err != nil {
			return SWOTResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		bucket, matched := bal.Assign(it.Category, float64(w))
		if !matched {
			res.Reassigned = append(res.Reassigned, Reassignment{Item: it.Text, From: it.Category, To: bal.Name(bucket)})
		}
		perQuadrant[q][bucket] += float64(w)
		res.QuadrantCounts[q]++
	}

	maxItems := 0
	for _, c := range res.QuadrantCounts {
		if c > maxItems {
			maxItems = c
		}
	}
	res.Divisor = maxItems * 3

	res.Scores = normalizeWeights(bal.Weights(), res.Divisor)
	for _, q := range model.Quadrants {
		res.QuadrantScores[q] = normalizeWeights(perQuadrant[q], res.Divisor)
	}
	return res, nil
}

func normalizeWeights(weights []float64, divisor int) []float64 {
	out := make([]float64, len(weights))
	if divisor == 0 {
		return out
	}
	for i, w := range weights {
		out[i] = Round1(ClampScore(w / float64(divisor) * 10))
	}
	return out
}
