package analysis

import "strings"

// Balancer accumulates weight into a fixed set of buckets.
//
// Items whose category matches no bucket are placed in whichever bucket has
// the lowest accumulated weight at that moment (first bucket on ties). This
// keeps legacy datasets with free-form categories renderable on a fixed
// axis; see DESIGN.md for why it is kept instead of rejecting the item.
type Balancer struct {
	names   []string
	index   map[string]int
	weights []float64
}

// NewBalancer creates a balancer over names, matched case-insensitively.
func NewBalancer(names []string) *Balancer {
	b := &Balancer{
		names:   names,
		index:   make(map[string]int, len(names)),
		weights: make([]float64, len(names)),
	}
	for i, n := range names {
		b.index[normalizeKey(n)] = i
	}
	return b
}

// Assign adds weight to the bucket for category and returns its index.
// matched is false when the load-balancing fallback chose the bucket.
func (b *Balancer) Assign(category string, weight float64) (bucket int, matched bool) {
	if i, ok := b.index[normalizeKey(category)]; ok {
		b.weights[i] += weight
		return i, true
	}
	bucket = 0
	for i, w := range b.weights {
		if w < b.weights[bucket] {
			bucket = i
		}
	}
	b.weights[bucket] += weight
	return bucket, false
}

// Weights returns a copy of the accumulated weights in bucket order.
func (b *Balancer) Weights() []float64 {
	out := make([]float64, len(b.weights))
	copy(out, b.weights)
	return out
}

// Name returns the bucket name at i.
func (b *Balancer) Name(i int) string { return b.names[i] }

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
