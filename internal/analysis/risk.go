package analysis

// RiskScore is probability × impact, each on a 1..10 scale.
func RiskScore(probability, impact int) int {
	return probability * impact
}

// Thresholds are the high/medium cutoffs for one batch of risk scores.
type Thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Max    float64 `json:"max"`
}

// RiskThresholds derives cutoffs relative to the largest score in the batch:
// high = 0.7 × max, medium = 0.4 × max. They move with the data, so they
// must be recomputed for every batch.
func RiskThresholds(scores []float64) Thresholds {
	if len(scores) == 0 {
		return Thresholds{}
	}
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	return Thresholds{
		High:   scale(max, "0.7"),
		Medium: scale(max, "0.4"),
		Max:    max,
	}
}
