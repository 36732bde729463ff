package analysis

import "sort"

// RankedStrength is a competitor with its 1-based position by overall strength.
type RankedStrength struct {
	Rank int `json:"rank"`
	CompetitorStrength
}

// RankByOverall sorts competitors descending by overall strength.
// Competitors without any score sink to the bottom; equal strengths keep
// input order.
func RankByOverall(rows []CompetitorStrength) []RankedStrength {
	out := make([]RankedStrength, 0, len(rows))
	for _, r := range rows {
		out = append(out, RankedStrength{CompetitorStrength: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Overall, out[j].Overall
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Float > b.Float
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
