package aspectratio

import (
	"fmt"
	"strconv"
	"strings"
)

// Ratio is an aspect ratio expressed as a width/height integer pair,
// always stored in lowest terms. The zero value is invalid; construct
// ratios with New or Parse.
type Ratio struct {
	W int
	H int
}

// New builds a Ratio from a width/height pair, reducing it to lowest terms.
// Both dimensions must be positive.
func New(w, h int) (Ratio, error) {
	if w <= 0 || h <= 0 {
		return Ratio{}, fmt.Errorf("aspectratio: dimensions must be positive, got %d:%d", w, h)
	}
	d := gcd(w, h)
	return Ratio{W: w / d, H: h / d}, nil
}

// MustNew is like New but panics on invalid input. Intended for
// package-level declarations of known-good ratios.
func MustNew(w, h int) Ratio {
	r, err := New(w, h)
	if err != nil {
		panic(err)
	}
	return r
}

// Parse converts a "w:h" string such as "16:9" or "2:7" into a Ratio.
func Parse(s string) (Ratio, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Ratio{}, fmt.Errorf("aspectratio: invalid format %q, want \"w:h\"", s)
	}

	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Ratio{}, fmt.Errorf("aspectratio: invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Ratio{}, fmt.Errorf("aspectratio: invalid height in %q: %w", s, err)
	}

	return New(w, h)
}

// MustParse is like Parse but panics on invalid input.
func MustParse(s string) Ratio {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseList converts a comma-separated list such as "1:1,16:9,9:16" into
// ratios, preserving order. Empty elements are skipped.
func ParseList(s string) ([]Ratio, error) {
	var out []Ratio
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("aspectratio: empty ratio list %q", s)
	}
	return out, nil
}

// Decimal returns the ratio as w/h.
func (r Ratio) Decimal() float64 {
	return float64(r.W) / float64(r.H)
}

// String renders the ratio in "w:h" form.
func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.W, r.H)
}

// IsZero reports whether the ratio is the (invalid) zero value.
func (r Ratio) IsZero() bool {
	return r.W == 0 || r.H == 0
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
