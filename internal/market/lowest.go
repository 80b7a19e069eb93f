package market

import (
	"math"
	"slices"
)

// Missing stands in for an order without a price. It sorts after every real
// price and is never reported.
const Missing = math.MaxInt

// Lowest keeps the k smallest values seen so far in ascending order.
type Lowest struct {
	k    int
	vals []int
}

// NewLowest creates a Lowest bounded to k values.
func NewLowest(k int) *Lowest {
	return &Lowest{k: k, vals: make([]int, 0, k+1)}
}

// Add inserts v at its sorted position and drops anything past k.
func (l *Lowest) Add(v int) {
	if l.k <= 0 {
		return
	}
	if len(l.vals) == l.k && v >= l.vals[len(l.vals)-1] {
		return
	}
	i, _ := slices.BinarySearch(l.vals, v)
	l.vals = slices.Insert(l.vals, i, v)
	if len(l.vals) > l.k {
		l.vals = l.vals[:l.k]
	}
}

// Values returns the kept values in ascending order without Missing entries.
func (l *Lowest) Values() []int {
	out := make([]int, 0, len(l.vals))
	for _, v := range l.vals {
		if v == Missing {
			break
		}
		out = append(out, v)
	}
	return out
}
