package runner

import (
	"bytes"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}

func shellCmd(t *testing.T, script string) *Command {
	t.Helper()
	cmd, err := NewCommand("/bin/sh", "-c", script).Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return cmd
}

func TestRunWithTimeout_Success(t *testing.T) {
	skipOnWindows(t)

	result, err := RunWithTimeout(shellCmd(t, "exit 0"), 5*time.Second)
	if err != nil {
		t.Fatalf("RunWithTimeout() failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %d", result.ExitCode)
	}
	if !result.Success() {
		t.Error("Expected Success() to be true")
	}
	if result.Pid <= 0 {
		t.Errorf("Expected a positive pid, got %d", result.Pid)
	}
	if result.Duration <= 0 {
		t.Error("Expected a positive duration")
	}
}

func TestRunWithTimeout_NonZeroExit(t *testing.T) {
	skipOnWindows(t)

	// A nonzero exit code is a completed run, not an error: the runner
	// passes the raw termination status through.
	result, err := RunWithTimeout(shellCmd(t, "exit 3"), 5*time.Second)
	if err != nil {
		t.Fatalf("RunWithTimeout() failed: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", result.ExitCode)
	}
	if result.Success() {
		t.Error("Expected Success() to be false")
	}
}

func TestRunWithTimeout_SignaledWithinDeadline(t *testing.T) {
	skipOnWindows(t)

	result, err := RunWithTimeout(shellCmd(t, "kill -TERM $$"), 5*time.Second)
	if err != nil {
		t.Fatalf("RunWithTimeout() failed: %v", err)
	}
	if !result.Signaled() {
		t.Fatalf("Expected a signaled result, got %+v", result)
	}
	if result.Signal != "terminated" {
		t.Errorf("Expected signal 'terminated', got %q", result.Signal)
	}
	if result.Success() {
		t.Error("Expected Success() to be false for a signaled process")
	}
}

func TestRunWithTimeout_TimedOut(t *testing.T) {
	skipOnWindows(t)

	start := time.Now()
	result, err := RunWithTimeout(shellCmd(t, "sleep 10"), 200*time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("Expected ErrTimedOut, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil result on timeout, got %+v", result)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Call took %v, did not honor a 200ms deadline", elapsed)
	}
}

func TestRunWithTimeout_SpawnFailure(t *testing.T) {
	cmd := &Command{Binary: "/nonexistent/binary/path", Args: []string{"--flag"}}

	result, err := RunWithTimeout(cmd, 5*time.Second)
	if result != nil {
		t.Errorf("Expected nil result, got %+v", result)
	}
	if errors.Is(err, ErrTimedOut) {
		t.Fatal("Spawn failure must not report a timeout")
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected *IOError, got %v", err)
	}
	if ioErr.Context != ContextCommand {
		t.Errorf("Expected ContextCommand, got %v", ioErr.Context)
	}
	if !strings.Contains(ioErr.Error(), "/nonexistent/binary/path --flag") {
		t.Errorf("Error message missing rendered command: %q", ioErr.Error())
	}
	if ioErr.Unwrap() == nil {
		t.Error("Expected a wrapped OS error")
	}
}

func TestRunWithTimeout_Boundary(t *testing.T) {
	skipOnWindows(t)

	// A runtime effectively equal to the timeout must still resolve
	// deterministically, as either success or timeout, within a bounded
	// margin.
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err := RunWithTimeout(shellCmd(t, "sleep 0.2"), 200*time.Millisecond)
		if err == nil {
			if result == nil {
				t.Error("nil result with nil error")
			}
		} else if !errors.Is(err, ErrTimedOut) {
			t.Errorf("Expected success or ErrTimedOut, got %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Boundary run did not return")
	}
}

func TestRunWithTimeout_SequentialCallsIndependent(t *testing.T) {
	skipOnWindows(t)

	cmd := shellCmd(t, "exit 0")
	for i := 0; i < 2; i++ {
		result, err := RunWithTimeout(cmd, 5*time.Second)
		if err != nil {
			t.Fatalf("Call %d failed: %v", i, err)
		}
		if result.ExitCode != 0 {
			t.Errorf("Call %d: expected exit code 0, got %d", i, result.ExitCode)
		}
	}
}

func TestRunWithTimeout_OutputPassThrough(t *testing.T) {
	skipOnWindows(t)

	var stdout, stderr bytes.Buffer
	cmd, err := NewCommand("/bin/sh", "-c", "echo out; echo err >&2").
		WithStdout(&stdout).
		WithStderr(&stderr).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if _, err := RunWithTimeout(cmd, 5*time.Second); err != nil {
		t.Fatalf("RunWithTimeout() failed: %v", err)
	}

	if stdout.String() != "out\n" {
		t.Errorf("Expected stdout 'out\\n', got %q", stdout.String())
	}
	if stderr.String() != "err\n" {
		t.Errorf("Expected stderr 'err\\n', got %q", stderr.String())
	}
}

func TestRunWithTimeout_CallerEnvironment(t *testing.T) {
	skipOnWindows(t)

	cmd, err := NewCommand("/bin/sh", "-c", `test "$MARKER" = "present"`).
		WithEnv("MARKER", "present").
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	result, err := RunWithTimeout(cmd, 5*time.Second)
	if err != nil {
		t.Fatalf("RunWithTimeout() failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("Environment not passed through, exit code %d", result.ExitCode)
	}
}

func TestRunWithTimeout_DoesNotMutateCommand(t *testing.T) {
	skipOnWindows(t)

	cmd := shellCmd(t, "exit 0")
	clone := cmd.Clone()

	if _, err := RunWithTimeout(cmd, 5*time.Second); err != nil {
		t.Fatalf("RunWithTimeout() failed: %v", err)
	}

	if cmd.Binary != clone.Binary || len(cmd.Args) != len(clone.Args) {
		t.Error("RunWithTimeout() mutated the command")
	}
	for i := range cmd.Args {
		if cmd.Args[i] != clone.Args[i] {
			t.Errorf("Arg %d mutated: %q != %q", i, cmd.Args[i], clone.Args[i])
		}
	}
}
