package harness

import (
	"errors"
	"time"

	"github.com/phil-opp/runner-utils/binkind"
	"github.com/phil-opp/runner-utils/runner"
)

// Report is the outcome of running one command through the harness.
type Report struct {
	// RunID uniquely identifies this run.
	RunID string

	// Binary is the path of the executed binary.
	Binary string

	// Kind is the binary's classification.
	Kind binkind.Kind

	// Result is the termination status; nil when the run did not complete
	// on its own terms (timeout, spawn failure, cancellation).
	Result *runner.Result

	// Err is the run error, nil on completion within the deadline.
	Err error

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// TimedOut reports whether the run exceeded its deadline.
func (r *Report) TimedOut() bool {
	return errors.Is(r.Err, runner.ErrTimedOut)
}

// Completed reports whether the process terminated on its own within the
// deadline, regardless of its exit code.
func (r *Report) Completed() bool {
	return r.Err == nil && r.Result != nil
}

// Status returns a short status label for logs and metrics.
func (r *Report) Status() string {
	switch {
	case r.TimedOut():
		return "timeout"
	case r.Err != nil:
		return "error"
	case r.Result != nil && r.Result.Success():
		return "success"
	default:
		return "failed"
	}
}
