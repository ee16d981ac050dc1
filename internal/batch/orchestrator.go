// Package batch drives the conversion gateway over many sources, either
// sequentially or through a bounded worker pool, and aggregates one outcome
// per source regardless of individual failures.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/docbridge-ai/docbridge/internal/convert"
	"github.com/docbridge-ai/docbridge/internal/observability"
)

// Mode selects how a batch is scheduled.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

// DefaultMaxWorkers bounds the pool when the caller does not choose a size.
const DefaultMaxWorkers = 4

// Concurrency configures scheduling for one batch run.
type Concurrency struct {
	Mode       Mode
	MaxWorkers int
	// ItemTimeout bounds each individual conversion. Zero disables the bound.
	ItemTimeout time.Duration
}

// DefaultConcurrency returns the sequential single-context configuration.
func DefaultConcurrency() Concurrency {
	return Concurrency{Mode: ModeSequential, MaxWorkers: DefaultMaxWorkers}
}

// Validate rejects configurations that would abort the batch before any work.
func (c Concurrency) Validate() error {
	switch c.Mode {
	case ModeSequential, ModeParallel:
	default:
		return convert.ConfigurationError(fmt.Sprintf("unknown concurrency mode %q", c.Mode))
	}
	if c.Mode == ModeParallel && c.MaxWorkers <= 0 {
		return convert.ConfigurationError(fmt.Sprintf("max workers must be positive, got %d", c.MaxWorkers))
	}
	if c.ItemTimeout < 0 {
		return convert.ConfigurationError("item timeout must not be negative")
	}
	return nil
}

// Observer is notified after each outcome is produced. It is a side channel
// for progress display and runs on the worker that produced the outcome.
type Observer func(source string, ok bool)

// Orchestrator runs batches of conversions against a shared gateway.
type Orchestrator struct {
	gateway  *convert.Gateway
	logger   *observability.Logger
	observer Observer
}

// NewOrchestrator creates a batch orchestrator.
func NewOrchestrator(gateway *convert.Gateway, logger *observability.Logger) *Orchestrator {
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Orchestrator{gateway: gateway, logger: logger}
}

// SetObserver installs a per-outcome progress callback.
func (o *Orchestrator) SetObserver(obs Observer) {
	o.observer = obs
}

// Run converts every source and returns exactly one outcome per source.
// Per-item failures never abort the batch; only an invalid configuration
// does, before any work starts. An empty source list yields an empty result.
func (o *Orchestrator) Run(ctx context.Context, sources []string, opts convert.Options, cfg Concurrency) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	if len(sources) == 0 {
		return Result{Elapsed: time.Since(start)}, nil
	}

	o.logger.Info().
		Int("sources", len(sources)).
		Str("mode", string(cfg.Mode)).
		Int("max_workers", cfg.MaxWorkers).
		Msg("Starting batch conversion")

	agg := NewAggregator(len(sources))
	if cfg.Mode == ModeSequential {
		for _, source := range sources {
			o.record(agg, o.convertOne(ctx, source, opts, cfg.ItemTimeout))
		}
	} else {
		o.runParallel(ctx, sources, opts, cfg, agg)
	}

	result := Result{Outcomes: agg.Finalize(), Elapsed: time.Since(start)}
	o.logger.Info().
		Int("succeeded", result.Succeeded()).
		Int("failed", result.Failed()).
		Dur("elapsed", result.Elapsed).
		Msg("Batch conversion finished")
	return result, nil
}

// runParallel fans the sources out over a bounded worker pool. Outcomes land
// in completion order.
func (o *Orchestrator) runParallel(ctx context.Context, sources []string, opts convert.Options, cfg Concurrency, agg *Aggregator) {
	workChan := make(chan string, len(sources))
	for _, source := range sources {
		workChan <- source
	}
	close(workChan)

	var wg sync.WaitGroup
	for i := 0; i < cfg.MaxWorkers && i < len(sources); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range workChan {
				o.record(agg, o.convertOne(ctx, source, opts, cfg.ItemTimeout))
			}
		}()
	}
	wg.Wait()
}

// convertOne produces the single outcome for a source. With a timeout the
// conversion runs in its own goroutine so an overrunning engine call cannot
// hold up collection of sibling outcomes.
func (o *Orchestrator) convertOne(ctx context.Context, source string, opts convert.Options, timeout time.Duration) convert.Outcome {
	if timeout <= 0 {
		return o.gateway.Convert(ctx, source, opts)
	}

	itemCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan convert.Outcome, 1)
	go func() {
		done <- o.gateway.Convert(itemCtx, source, opts)
	}()

	select {
	case outcome := <-done:
		return outcome
	case <-itemCtx.Done():
		return convert.FailureOutcome(source, convert.TimeoutError(fmt.Sprintf("conversion exceeded %v", timeout)))
	}
}

// record stores the outcome and emits the progress side channel.
func (o *Orchestrator) record(agg *Aggregator, outcome convert.Outcome) {
	agg.Record(outcome)

	if outcome.Succeeded() {
		o.logger.Info().Str("source", outcome.Source).Bool("success", true).Msg("Converted document")
	} else {
		o.logger.Warn().
			Str("source", outcome.Source).
			Bool("success", false).
			Err(outcome.Err).
			Msg("Conversion failed")
	}
	if o.observer != nil {
		o.observer(outcome.Source, outcome.Succeeded())
	}
}
