package analysis

// Sum adds up values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Cumulative returns the running total of values.
func Cumulative(values []float64) []float64 {
	out := make([]float64, len(values))
	acc := 0.0
	for i, v := range values {
		acc += v
		out[i] = acc
	}
	return out
}

// Share returns part/total in percent, or false when total is zero.
func Share(part, total float64) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	return part / total * 100, true
}
