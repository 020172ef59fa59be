package harness

import (
	"github.com/roach88/reldir/internal/pipeline"
	"github.com/roach88/reldir/internal/resolver"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	Output  string            `json:"output"`
	Outcome pipeline.Outcome  `json:"outcome"`
	Reason  string            `json:"reason,omitempty"`
	Changes []resolver.Change `json:"changes,omitempty"`

	// RunID is the id of the run recorded in the scenario's run log.
	RunID string `json:"run_id,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Modified returns the number of relationships whose direction changed.
func (r *Result) Modified() int {
	n := 0
	for _, c := range r.Changes {
		if c.Kind != resolver.Kept {
			n++
		}
	}
	return n
}
