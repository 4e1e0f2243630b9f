package runner

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrTimedOut indicates the process did not terminate within the
	// deadline. By the time a caller sees this error the process has been
	// killed and reaped.
	ErrTimedOut = errors.New("command timed out")

	// ErrInvalidCommand indicates invalid command configuration.
	ErrInvalidCommand = errors.New("invalid command")
)

// IOContext identifies the runner step at which an OS-level operation failed.
type IOContext int

const (
	// ContextCommand is a spawn failure; the error carries the rendered
	// command line.
	ContextCommand IOContext = iota
	// ContextWaitWithTimeout is a failure of the bounded wait itself,
	// distinct from the deadline elapsing.
	ContextWaitWithTimeout
	// ContextKillProcess is a failure to kill the process after the
	// deadline elapsed.
	ContextKillProcess
	// ContextWaitForProcess is a failure to reap the process after it was
	// killed.
	ContextWaitForProcess
)

// String returns the string representation of the context.
func (c IOContext) String() string {
	switch c {
	case ContextCommand:
		return "failed to execute command"
	case ContextWaitWithTimeout:
		return "failed to wait with timeout"
	case ContextKillProcess:
		return "failed to kill process after timeout"
	case ContextWaitForProcess:
		return "failed to wait for process after killing it"
	default:
		return "unknown"
	}
}

// IOError wraps an OS-level failure with the runner step it occurred in.
type IOError struct {
	// Context is the step that failed.
	Context IOContext

	// Command is the rendered command line. Set only for ContextCommand.
	Command string

	// Err is the underlying OS error.
	Err error
}

// Error returns the error message.
func (e *IOError) Error() string {
	if e.Context == ContextCommand && e.Command != "" {
		return fmt.Sprintf("failed to execute command `%s`: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// newIOError constructs an IOError for the given step.
func newIOError(context IOContext, err error) *IOError {
	return &IOError{Context: context, Err: err}
}
