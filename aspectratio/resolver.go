package aspectratio

import "errors"

// ExactMatchEpsilon is the waste below which a resolution is treated as an
// exact match and no downstream crop is required.
const ExactMatchEpsilon = 1e-3

// ErrNoCandidates is returned when Resolve is called with an empty supported
// set. This is a configuration error on the caller's side, not a condition
// that retrying can fix.
var ErrNoCandidates = errors.New("aspectratio: supported ratio set is empty")

// Resolution is the outcome of mapping a target ratio onto a backend's
// supported set: the source ratio to generate at and the area fraction
// that cropping to the target will discard.
type Resolution struct {
	Source Ratio
	Waste  float64
}

// ExactMatch reports whether the chosen source ratio matches the target
// closely enough that cropping can be skipped.
func (r Resolution) ExactMatch() bool {
	return r.Waste < ExactMatchEpsilon
}

// Resolve picks the supported ratio that minimizes the area discarded when
// cropping to target. Waste is the symmetric ratio distance
//
//	1 - min(c, t) / max(c, t)
//
// over the decimal values: 0 means a perfect match and values approaching 1
// mean nearly all of the generated image would be thrown away. Cropping can
// shrink either dimension, so every candidate is viable regardless of
// orientation; ties keep the earliest candidate, preserving the caller's
// declared priority order.
func Resolve(target Ratio, supported []Ratio) (Resolution, error) {
	if len(supported) == 0 {
		return Resolution{}, ErrNoCandidates
	}

	best := Resolution{Source: supported[0], Waste: Waste(supported[0], target)}
	for _, c := range supported[1:] {
		if w := Waste(c, target); w < best.Waste {
			best = Resolution{Source: c, Waste: w}
		}
	}
	return best, nil
}

// Waste computes the symmetric ratio distance between a candidate source
// ratio and the target ratio.
func Waste(candidate, target Ratio) float64 {
	c, t := candidate.Decimal(), target.Decimal()
	if c > t {
		return 1 - t/c
	}
	return 1 - c/t
}
