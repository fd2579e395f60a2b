package harness

import (
	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/journal"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Output is the rewritten module as printed by ir.FormatModule.
	Output string `json:"output"`

	// Rewrites are the journal records the run produced, in seq order.
	Rewrites []journal.Rewrite `json:"rewrites"`

	Errors []string `json:"errors,omitempty"`

	before *ir.Module
	after  *ir.Module
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true, Rewrites: []journal.Rewrite{}, Errors: []string{}}
}

// AddError records a failed assertion and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns the number of rewrites with the given status.
func (r *Result) Count(status string) int {
	n := 0
	for _, rw := range r.Rewrites {
		if rw.Status == status {
			n++
		}
	}
	return n
}
