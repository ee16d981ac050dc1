package batch

import (
	"time"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

// Result is the aggregated outcome of one batch run: exactly one outcome per
// submitted source. In sequential mode the order matches submission; in
// parallel mode it is completion order, and callers must correlate by the
// Source field, not by index.
type Result struct {
	Outcomes []convert.Outcome
	Elapsed  time.Duration
}

// Succeeded returns the number of successful outcomes.
func (r Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Succeeded() {
			n++
		}
	}
	return n
}

// Failed returns the number of failed outcomes.
func (r Result) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Failures returns the failed outcomes in result order.
func (r Result) Failures() []convert.Outcome {
	var failed []convert.Outcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}
