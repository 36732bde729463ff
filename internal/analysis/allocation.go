package analysis

import "plancharts/internal/model"

// Extremes describes the largest and smallest share of an allocation set.
type Extremes struct {
	Largest       string  `json:"largest"`
	LargestShare  float64 `json:"largestShare"`
	Smallest      string  `json:"smallest"`
	SmallestShare float64 `json:"smallestShare"`
	// Ratio is largest/smallest rounded to one decimal; null when smallest is 0.
	Ratio model.Value `json:"ratio"`
	Total float64     `json:"total"`
}

// AllocationExtremes scans allocs once; the first occurrence wins ties.
func AllocationExtremes(allocs []model.Allocation) (Extremes, bool) {
	if len(allocs) == 0 {
		return Extremes{}, false
	}
	lo, hi := 0, 0
	total := 0.0
	for i, a := range allocs {
		total += a.Percentage
		if a.Percentage > allocs[hi].Percentage {
			hi = i
		}
		if a.Percentage < allocs[lo].Percentage {
			lo = i
		}
	}
	ex := Extremes{
		Largest:       allocs[hi].Category,
		LargestShare:  allocs[hi].Percentage,
		Smallest:      allocs[lo].Category,
		SmallestShare: allocs[lo].Percentage,
		Ratio:         model.Null,
		Total:         total,
	}
	if ex.SmallestShare > 0 {
		ex.Ratio = model.V(Round1(ex.LargestShare / ex.SmallestShare))
	}
	return ex, true
}
