package batch

import (
	"sync"

	"github.com/docbridge-ai/docbridge/internal/convert"
)

// Aggregator collects outcomes produced concurrently by workers. Record is
// the only write path and is mutually exclusive; workers never observe each
// other's in-flight outcomes.
type Aggregator struct {
	mu       sync.Mutex
	outcomes []convert.Outcome
}

// NewAggregator creates an aggregator sized for the expected batch.
func NewAggregator(expected int) *Aggregator {
	return &Aggregator{outcomes: make([]convert.Outcome, 0, expected)}
}

// Record appends one outcome. Called exactly once per submitted source.
func (a *Aggregator) Record(outcome convert.Outcome) {
	a.mu.Lock()
	a.outcomes = append(a.outcomes, outcome)
	a.mu.Unlock()
}

// Len returns the number of outcomes recorded so far.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.outcomes)
}

// Finalize returns the collected outcomes. Only valid once every expected
// Record call has completed; the orchestrator waits on its workers before
// calling this.
func (a *Aggregator) Finalize() []convert.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcomes
}
