package semanticcache

import "math/rand/v2"

// Gate decides, from the tag-overlap candidate count, whether a vector
// search is worth running. The count comes from a cheap keyword filter;
// the gate's job is to avoid paying for an embedding when the cache is
// unlikely to hold a match.
type Gate interface {
	ShouldSearch(candidates int) bool
}

// CountGate searches whenever at least one tag-compatible entry exists.
// This is the default gate.
type CountGate struct{}

func (CountGate) ShouldSearch(candidates int) bool { return candidates > 0 }

// ProbabilisticGate searches with a probability that grows with cache
// population. Sparse caches rarely hit, so most lookups skip straight to
// generation; dense caches are almost always worth searching.
//
//	< 10 candidates:  never
//	< 50 candidates:  50%
//	< 100 candidates: 80%
//	otherwise:        95%
type ProbabilisticGate struct {
	// Rand returns a float in [0, 1). Defaults to math/rand/v2.
	Rand func() float64
}

func (g ProbabilisticGate) ShouldSearch(candidates int) bool {
	roll := g.Rand
	if roll == nil {
		roll = rand.Float64
	}

	switch {
	case candidates < 10:
		return false
	case candidates < 50:
		return roll() < 0.50
	case candidates < 100:
		return roll() < 0.80
	}
	return roll() < 0.95
}
