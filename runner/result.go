package runner

import "time"

// Result is the termination status of a process that finished within the
// deadline. It passes through the OS-reported status unmodified; pass/fail
// judgment belongs to the caller.
type Result struct {
	// ExitCode is the process exit code. -1 if the process was terminated
	// by a signal.
	ExitCode int

	// Signal is the name of the terminating signal, empty if the process
	// exited on its own.
	Signal string

	// Pid is the OS process id of the finished process.
	Pid int

	// Duration is the wall-clock time from spawn to termination.
	Duration time.Duration
}

// Success reports whether the process exited with code 0 and was not
// terminated by a signal.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Signal == ""
}

// Signaled reports whether the process was terminated by a signal.
func (r *Result) Signaled() bool {
	return r.Signal != ""
}
