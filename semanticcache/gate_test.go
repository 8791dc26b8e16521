package semanticcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountGate(t *testing.T) {
	g := CountGate{}
	assert.False(t, g.ShouldSearch(0))
	assert.True(t, g.ShouldSearch(1))
	assert.True(t, g.ShouldSearch(1000))
}

func TestProbabilisticGateBands(t *testing.T) {
	tests := []struct {
		name       string
		candidates int
		roll       float64
		want       bool
	}{
		{"below minimum never searches", 9, 0.0, false},
		{"sparse band passes under 0.5", 10, 0.49, true},
		{"sparse band fails over 0.5", 49, 0.51, false},
		{"mid band passes under 0.8", 50, 0.79, true},
		{"mid band fails over 0.8", 99, 0.81, false},
		{"dense band passes under 0.95", 100, 0.94, true},
		{"dense band fails over 0.95", 500, 0.96, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ProbabilisticGate{Rand: func() float64 { return tt.roll }}
			assert.Equal(t, tt.want, g.ShouldSearch(tt.candidates))
		})
	}
}

func TestProbabilisticGateDefaultsRand(t *testing.T) {
	g := ProbabilisticGate{}
	// Below the minimum the gate never rolls, so the nil default is safe
	// and the outcome deterministic.
	assert.False(t, g.ShouldSearch(5))
}
