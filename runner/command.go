// Package runner provides timeout-bounded execution of external commands.
package runner

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// Command describes a program to execute. Commands are owned by the caller;
// the runner borrows one for the duration of a single invocation and never
// mutates or retains it afterward.
type Command struct {
	// Binary is the absolute path to the executable.
	Binary string

	// Args are the command arguments (excluding the binary name).
	Args []string

	// Env is the environment for the command.
	// If nil, the parent process environment is inherited.
	Env map[string]string

	// WorkingDir is the working directory for the command.
	WorkingDir string

	// Timeout is the per-command deadline used by callers that manage
	// defaults (such as the harness). RunWithTimeout takes the deadline
	// explicitly and ignores this field.
	Timeout time.Duration

	// Stdin provides input to the command.
	Stdin io.Reader

	// Stdout receives standard output. If nil, output is discarded.
	Stdout io.Writer

	// Stderr receives standard error. If nil, output is discarded.
	Stderr io.Writer

	// Metadata contains arbitrary key-value pairs for audit/logging.
	Metadata map[string]string
}

// CommandBuilder provides a fluent API for constructing commands.
type CommandBuilder struct {
	cmd *Command
	err error
}

// NewCommand creates a new CommandBuilder with the specified binary and arguments.
func NewCommand(binary string, args ...string) *CommandBuilder {
	return &CommandBuilder{
		cmd: &Command{
			Binary:   binary,
			Args:     args,
			Metadata: make(map[string]string),
		},
	}
}

// WithWorkingDir sets the working directory.
func (b *CommandBuilder) WithWorkingDir(dir string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.WorkingDir = dir
	return b
}

// WithTimeout sets the per-command deadline.
func (b *CommandBuilder) WithTimeout(timeout time.Duration) *CommandBuilder {
	if b.err != nil {
		return b
	}
	if timeout <= 0 {
		b.err = fmt.Errorf("timeout must be positive")
		return b
	}
	b.cmd.Timeout = timeout
	return b
}

// WithEnv adds an environment variable.
func (b *CommandBuilder) WithEnv(key, value string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	if b.cmd.Env == nil {
		b.cmd.Env = make(map[string]string)
	}
	b.cmd.Env[key] = value
	return b
}

// WithEnvMap adds multiple environment variables.
func (b *CommandBuilder) WithEnvMap(env map[string]string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	if b.cmd.Env == nil {
		b.cmd.Env = make(map[string]string, len(env))
	}
	for k, v := range env {
		b.cmd.Env[k] = v
	}
	return b
}

// WithStdin sets the standard input reader.
func (b *CommandBuilder) WithStdin(stdin io.Reader) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.Stdin = stdin
	return b
}

// WithStdout sets the standard output writer.
func (b *CommandBuilder) WithStdout(stdout io.Writer) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.Stdout = stdout
	return b
}

// WithStderr sets the standard error writer.
func (b *CommandBuilder) WithStderr(stderr io.Writer) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.Stderr = stderr
	return b
}

// WithMetadata adds metadata for audit/logging.
func (b *CommandBuilder) WithMetadata(key, value string) *CommandBuilder {
	if b.err != nil {
		return b
	}
	b.cmd.Metadata[key] = value
	return b
}

// Build validates and returns the command.
func (b *CommandBuilder) Build() (*Command, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.cmd.Binary == "" {
		return nil, fmt.Errorf("%w: binary path is required", ErrInvalidCommand)
	}

	if !filepath.IsAbs(b.cmd.Binary) {
		return nil, fmt.Errorf("%w: binary must be an absolute path", ErrInvalidCommand)
	}

	if b.cmd.WorkingDir != "" && !filepath.IsAbs(b.cmd.WorkingDir) {
		return nil, fmt.Errorf("%w: working directory must be an absolute path", ErrInvalidCommand)
	}

	return b.cmd, nil
}

// MustBuild validates and returns the command, panicking on error.
func (b *CommandBuilder) MustBuild() *Command {
	cmd, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cmd
}

// Clone creates a deep copy of the command. Stdin/Stdout/Stderr are shared.
func (c *Command) Clone() *Command {
	clone := &Command{
		Binary:     c.Binary,
		Args:       make([]string, len(c.Args)),
		WorkingDir: c.WorkingDir,
		Timeout:    c.Timeout,
		Stdin:      c.Stdin,
		Stdout:     c.Stdout,
		Stderr:     c.Stderr,
	}

	copy(clone.Args, c.Args)

	if c.Env != nil {
		clone.Env = make(map[string]string, len(c.Env))
		for k, v := range c.Env {
			clone.Env[k] = v
		}
	}

	if c.Metadata != nil {
		clone.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			clone.Metadata[k] = v
		}
	}

	return clone
}

// String renders the command line, used as error context on spawn failures.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}
