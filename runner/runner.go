package runner

import (
	"time"

	"github.com/phil-opp/runner-utils/internal/envutil"
	"github.com/phil-opp/runner-utils/internal/proc"
)

// RunWithTimeout spawns cmd and waits at most timeout for it to terminate.
//
// It returns the termination status when the process finishes within the
// deadline; a nonzero exit code is still a successful run at this layer.
// When the deadline elapses, the process is killed and reaped and
// ErrTimedOut is returned. Every OS-level failure surfaces as an *IOError
// identifying the step that failed.
//
// Invocations are independent: no state is shared between calls, and
// RunWithTimeout is safe to call from multiple goroutines, each call
// managing its own child process. There is no cancellation hook other than
// the deadline itself; once called, the function runs to a terminal result.
func RunWithTimeout(cmd *Command, timeout time.Duration) (*Result, error) {
	start := time.Now()

	p, err := proc.Start(&proc.StartConfig{
		Binary:     cmd.Binary,
		Args:       cmd.Args,
		Env:        envutil.BuildEnv(cmd.Env),
		WorkingDir: cmd.WorkingDir,
		Stdin:      cmd.Stdin,
		Stdout:     cmd.Stdout,
		Stderr:     cmd.Stderr,
	})
	if err != nil {
		// No process exists yet; nothing to clean up.
		return nil, &IOError{Context: ContextCommand, Command: cmd.String(), Err: err}
	}

	state, done, err := p.WaitTimeout(timeout)
	if err != nil {
		// The wait mechanism itself failed. The child may still be
		// running; kill it best-effort before surfacing the wait error,
		// since there is no status left to collect.
		_ = p.Kill()
		return nil, newIOError(ContextWaitWithTimeout, err)
	}
	if done {
		return resultFrom(state, time.Since(start)), nil
	}

	// Deadline elapsed: kill, then reap to release the process-table entry.
	if err := p.Kill(); err != nil {
		// The child may remain unreaped here; it is presumed stuck or
		// already gone.
		return nil, newIOError(ContextKillProcess, err)
	}
	if _, err := p.Reap(); err != nil {
		return nil, newIOError(ContextWaitForProcess, err)
	}

	return nil, ErrTimedOut
}

// resultFrom builds a Result from the process termination state.
func resultFrom(state *proc.State, duration time.Duration) *Result {
	result := &Result{Duration: duration}
	if state != nil {
		result.ExitCode = state.ExitCode
		result.Signal = state.Signal
		result.Pid = state.Pid
	}
	return result
}
