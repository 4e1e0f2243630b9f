package observability

import (
	"context"
	"sync"
	"time"

	"github.com/phil-opp/runner-utils/harness"
)

// Metrics is an in-process run counter, useful for end-of-run summaries
// without an OpenTelemetry pipeline. It satisfies the harness.Observer
// interface.
type Metrics struct {
	mu            sync.Mutex
	totalRuns     int64
	completedRuns int64
	timedOutRuns  int64
	failedRuns    int64
	testRuns      int64
	totalDuration time.Duration
}

// MetricsSnapshot is a point-in-time copy of the collected counters.
type MetricsSnapshot struct {
	TotalRuns     int64
	CompletedRuns int64
	TimedOutRuns  int64
	FailedRuns    int64
	TestRuns      int64
	TotalDuration time.Duration
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RunCompleted implements harness.Observer.
func (m *Metrics) RunCompleted(ctx context.Context, report *harness.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRuns++
	m.totalDuration += report.Duration

	switch {
	case report.TimedOut():
		m.timedOutRuns++
	case report.Err != nil:
		m.failedRuns++
	default:
		m.completedRuns++
	}

	if report.Kind.IsTest() {
		m.testRuns++
	}

	return nil
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return MetricsSnapshot{
		TotalRuns:     m.totalRuns,
		CompletedRuns: m.completedRuns,
		TimedOutRuns:  m.timedOutRuns,
		FailedRuns:    m.failedRuns,
		TestRuns:      m.testRuns,
		TotalDuration: m.totalDuration,
	}
}
