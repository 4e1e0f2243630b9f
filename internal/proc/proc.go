// Package proc provides the internal process-management wrapper.
// This is the ONLY package in the entire library that imports os/exec.
// All process spawning, waiting, killing, and reaping goes through here.
package proc

import (
	"errors"
	"io"
	"os/exec"
	"time"
)

// StartConfig contains configuration for spawning a process.
type StartConfig struct {
	// Binary is the absolute path to the executable.
	Binary string

	// Args are the command arguments (excluding the binary name).
	Args []string

	// Env is the process environment in KEY=VALUE form.
	// If nil, the parent environment is inherited.
	Env []string

	// WorkingDir is the working directory.
	WorkingDir string

	// Stdin provides input to the process.
	Stdin io.Reader

	// Stdout receives standard output. If nil, output is discarded.
	Stdout io.Writer

	// Stderr receives standard error. If nil, output is discarded.
	Stderr io.Writer
}

// State is the termination state of a finished process.
type State struct {
	// ExitCode is the exit code, -1 if terminated by a signal.
	ExitCode int

	// Signal is the name of the terminating signal, empty if none.
	Signal string

	// Pid is the process id.
	Pid int
}

// waitOutcome carries the terminal state of the single wait call.
type waitOutcome struct {
	state *State
	err   error
}

// Process is one spawned OS process. It is owned exclusively by a single
// run invocation: the owner must either observe natural completion through
// WaitTimeout or call Kill followed by Reap before discarding it, so the
// process-table entry is always released.
type Process struct {
	cmd *exec.Cmd

	// waitCh receives the outcome of the single cmd.Wait call. Buffered
	// so the wait goroutine never blocks on an abandoned handle.
	waitCh chan waitOutcome
}

// Start spawns the process described by config. On success exactly one
// background goroutine waits for termination; its outcome is consumed by
// either WaitTimeout or Reap, never both.
func Start(config *StartConfig) (*Process, error) {
	cmd := exec.Command(config.Binary, config.Args...)

	if config.Env != nil {
		cmd.Env = config.Env
	}
	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}
	cmd.Stdin = config.Stdin
	cmd.Stdout = config.Stdout
	cmd.Stderr = config.Stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &Process{
		cmd:    cmd,
		waitCh: make(chan waitOutcome, 1),
	}

	go func() {
		err := cmd.Wait()
		// A nonzero exit code surfaces from Wait as *exec.ExitError.
		// That is a normal termination, not a wait failure.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = nil
		}
		p.waitCh <- waitOutcome{state: p.state(), err: err}
	}()

	return p, nil
}

// Pid returns the process id of the spawned process.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// WaitTimeout waits for the process to terminate naturally for at most d.
// It returns (state, true, nil) on natural termination, (nil, false, nil)
// when the deadline elapses, and (nil, false, err) when the wait mechanism
// itself fails. It never blocks past the deadline and does not busy-poll.
func (p *Process) WaitTimeout(d time.Duration) (*State, bool, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case outcome := <-p.waitCh:
		if outcome.err != nil {
			return nil, false, outcome.err
		}
		return outcome.state, true, nil
	case <-timer.C:
		return nil, false, nil
	}
}

// Kill sends a kill signal to the process.
func (p *Process) Kill() error {
	return p.cmd.Process.Kill()
}

// Reap waits, without bound, for the process to fully terminate and
// collects its exit status so the process-table entry is released.
// Call only after WaitTimeout reported a deadline overrun.
func (p *Process) Reap() (*State, error) {
	outcome := <-p.waitCh
	if outcome.err != nil {
		return nil, outcome.err
	}
	return outcome.state, nil
}

// state builds the termination state from the finished command.
func (p *Process) state() *State {
	ps := p.cmd.ProcessState
	if ps == nil {
		return nil
	}
	return &State{
		ExitCode: ps.ExitCode(),
		Signal:   signalName(ps.Sys()),
		Pid:      ps.Pid(),
	}
}
