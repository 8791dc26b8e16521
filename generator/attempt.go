package generator

import "time"

// Outcome is the result class of a single backend attempt.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeTransientError Outcome = "transient_error"
	OutcomeFatalError     Outcome = "fatal_error"
)

// Attempt is one entry in the per-request attempt log. Entries are appended
// by the chain and never mutated afterwards.
type Attempt struct {
	Backend string        `json:"backend"`
	Index   int           `json:"index"` // 0-based attempt index within the backend
	Outcome Outcome       `json:"outcome"`
	Kind    ErrorKind     `json:"kind,omitempty"` // set for error outcomes
	Latency time.Duration `json:"latency"`
}

// Backends flattens an attempt log into the ordered list of backend ids,
// one per attempt, for response provenance.
func Backends(attempts []Attempt) []string {
	out := make([]string, len(attempts))
	for i, a := range attempts {
		out[i] = a.Backend
	}
	return out
}
