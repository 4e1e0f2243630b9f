// Package harness runs batches of compiled test binaries through the
// bounded process runner.
//
// The harness classifies each binary, enforces a per-command deadline via
// runner.RunWithTimeout, bounds the number of concurrently running
// processes, and optionally rate-limits process spawns. It makes no
// pass/fail judgment about the binaries it runs; each Report exposes the
// raw outcome for the caller to interpret.
package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/phil-opp/runner-utils/binkind"
	"github.com/phil-opp/runner-utils/runner"
)

// DefaultTimeout is the deadline applied to commands that do not carry
// their own.
const DefaultTimeout = 5 * time.Minute

// Telemetry provides observability for harness runs.
type Telemetry interface {
	// StartSpan starts a new trace span.
	StartSpan(ctx context.Context, name string) (context.Context, func())

	// RecordRun records the outcome of a single run.
	RecordRun(binary, kind, status string, duration time.Duration)
}

// Observer is notified after each completed run.
type Observer interface {
	// RunCompleted is called once per run with the finished report.
	RunCompleted(ctx context.Context, report *Report) error
}

// Harness executes commands through the bounded runner with a bounded
// worker count. A Harness is immutable after Build and safe for concurrent
// use.
type Harness struct {
	maxWorkers     int
	defaultTimeout time.Duration
	limiter        *rate.Limiter
	telemetry      Telemetry
	observers      []Observer
}

// Builder creates configured Harness instances.
type Builder struct {
	maxWorkers     int
	defaultTimeout time.Duration
	spawnRate      float64
	spawnBurst     int
	telemetry      Telemetry
	observers      []Observer
}

// NewBuilder creates a new harness builder.
func NewBuilder() *Builder {
	return &Builder{
		maxWorkers:     4,
		defaultTimeout: DefaultTimeout,
	}
}

// WithMaxWorkers sets the maximum number of concurrently running processes.
func (b *Builder) WithMaxWorkers(workers int) *Builder {
	b.maxWorkers = workers
	return b
}

// WithDefaultTimeout sets the deadline for commands without their own.
func (b *Builder) WithDefaultTimeout(timeout time.Duration) *Builder {
	b.defaultTimeout = timeout
	return b
}

// WithSpawnRate limits process spawns to perSecond with the given burst.
// A zero perSecond disables rate limiting.
func (b *Builder) WithSpawnRate(perSecond float64, burst int) *Builder {
	b.spawnRate = perSecond
	b.spawnBurst = burst
	return b
}

// WithTelemetry sets the telemetry provider.
func (b *Builder) WithTelemetry(telemetry Telemetry) *Builder {
	b.telemetry = telemetry
	return b
}

// WithObservers adds run observers.
func (b *Builder) WithObservers(observers ...Observer) *Builder {
	b.observers = append(b.observers, observers...)
	return b
}

// Build creates the harness.
func (b *Builder) Build() (*Harness, error) {
	if b.maxWorkers <= 0 {
		return nil, fmt.Errorf("max workers must be positive, got %d", b.maxWorkers)
	}
	if b.defaultTimeout <= 0 {
		return nil, fmt.Errorf("default timeout must be positive, got %v", b.defaultTimeout)
	}

	h := &Harness{
		maxWorkers:     b.maxWorkers,
		defaultTimeout: b.defaultTimeout,
		telemetry:      b.telemetry,
		observers:      b.observers,
	}

	if b.spawnRate > 0 {
		burst := b.spawnBurst
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(b.spawnRate), burst)
	}

	return h, nil
}

// Run executes all commands and returns one report per command, in input
// order. At most the configured number of workers run concurrently. When
// ctx is canceled, commands that have not yet spawned are reported with the
// context error; commands already running complete under their own
// deadlines.
func (h *Harness) Run(ctx context.Context, cmds []*runner.Command) []*Report {
	reports := make([]*Report, len(cmds))
	sem := make(chan struct{}, h.maxWorkers)

	var wg sync.WaitGroup
	for i, cmd := range cmds {
		wg.Add(1)
		go func(i int, cmd *runner.Command) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				reports[i] = h.newReport(cmd, ctx.Err())
				return
			}

			reports[i] = h.runOne(ctx, cmd)
		}(i, cmd)
	}
	wg.Wait()

	return reports
}

// RunOne executes a single command and returns its report.
func (h *Harness) RunOne(ctx context.Context, cmd *runner.Command) *Report {
	return h.runOne(ctx, cmd)
}

func (h *Harness) runOne(ctx context.Context, cmd *runner.Command) *Report {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return h.newReport(cmd, err)
		}
	}

	if h.telemetry != nil {
		var endSpan func()
		ctx, endSpan = h.telemetry.StartSpan(ctx, "harness.run")
		defer endSpan()
	}

	timeout := cmd.Timeout
	if timeout == 0 {
		timeout = h.defaultTimeout
	}

	report := h.newReport(cmd, nil)
	start := time.Now()
	report.Result, report.Err = runner.RunWithTimeout(cmd, timeout)
	report.Duration = time.Since(start)

	if h.telemetry != nil {
		h.telemetry.RecordRun(cmd.Binary, report.Kind.String(), report.Status(), report.Duration)
	}

	for _, obs := range h.observers {
		if err := obs.RunCompleted(ctx, report); err != nil && report.Err == nil {
			report.Err = err
		}
	}

	return report
}

// newReport builds a report skeleton with identity and classification.
func (h *Harness) newReport(cmd *runner.Command, err error) *Report {
	return &Report{
		RunID:  uuid.New().String(),
		Binary: cmd.Binary,
		Kind:   binkind.Of(cmd.Binary),
		Err:    err,
	}
}
