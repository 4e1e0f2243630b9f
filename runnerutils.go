package runnerutils

import (
	"time"

	"github.com/phil-opp/runner-utils/binkind"
	"github.com/phil-opp/runner-utils/harness"
	"github.com/phil-opp/runner-utils/runner"
)

// =============================================================================
// Core Types
// =============================================================================

// Kind is the role of an executable.
type Kind = binkind.Kind

// Kind constants.
const (
	KindOther   = binkind.Other
	KindTest    = binkind.Test
	KindDocTest = binkind.DocTest
)

// Command represents a command to be executed.
// Use Cmd() to create commands.
type Command = runner.Command

// CommandBuilder creates commands with a fluent interface.
type CommandBuilder = runner.CommandBuilder

// Result is the termination status of a completed process.
type Result = runner.Result

// IOError wraps an OS-level failure with the runner step it occurred in.
type IOError = runner.IOError

// IOContext identifies the runner step at which an operation failed.
type IOContext = runner.IOContext

// IOContext constants.
const (
	ContextCommand         = runner.ContextCommand
	ContextWaitWithTimeout = runner.ContextWaitWithTimeout
	ContextKillProcess     = runner.ContextKillProcess
	ContextWaitForProcess  = runner.ContextWaitForProcess
)

// Harness executes batches of commands through the bounded runner.
type Harness = harness.Harness

// Report is the outcome of running one command through the harness.
type Report = harness.Report

// =============================================================================
// Error Variables
// =============================================================================

// Common errors returned by the library.
var (
	// ErrTimedOut indicates the process overran its deadline and has been
	// killed and reaped.
	ErrTimedOut = runner.ErrTimedOut

	// ErrInvalidCommand indicates an invalid command configuration.
	ErrInvalidCommand = runner.ErrInvalidCommand
)

// =============================================================================
// Classification
// =============================================================================

// BinaryKind classifies the executable at path by its parent directory
// name. Pure: no I/O is performed and the path need not exist.
func BinaryKind(path string) Kind {
	return binkind.Of(path)
}

// =============================================================================
// Command Construction
// =============================================================================

// Cmd creates a new CommandBuilder with the specified binary and arguments.
// Call Build() on the returned builder to get the final Command.
func Cmd(binary string, args ...string) *CommandBuilder {
	return runner.NewCommand(binary, args...)
}

// MustCmd creates a command and panics on error.
// Use only when the binary path is known to be valid.
func MustCmd(binary string, args ...string) *Command {
	return runner.NewCommand(binary, args...).MustBuild()
}

// =============================================================================
// Execution
// =============================================================================

// RunWithTimeout spawns cmd and waits at most timeout for it to terminate,
// killing and reaping the child on overrun. See runner.RunWithTimeout.
func RunWithTimeout(cmd *Command, timeout time.Duration) (*Result, error) {
	return runner.RunWithTimeout(cmd, timeout)
}

// NewHarness creates a new harness builder for batch execution.
func NewHarness() *harness.Builder {
	return harness.NewBuilder()
}
