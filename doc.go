// Package runnerutils provides small, precise building blocks for test
// harnesses that run compiled binaries inside an external environment such
// as an emulator or sandbox.
//
// It offers two core capabilities:
//
//   - Binary classification: derive a binary's role (unit test, doc test,
//     or other) purely from its filesystem location.
//   - Bounded process execution: run an external command with an enforced
//     wall-clock timeout, guaranteeing the child is terminated and reaped
//     if it overruns.
//
// # Basic Usage
//
//	kind := runnerutils.BinaryKind("/target/debug/deps/mycrate-1a2b3c")
//	if kind.IsTest() {
//	    // interpret the run as a test run
//	}
//
//	cmd := runnerutils.Cmd("/usr/bin/qemu-system-x86_64", "-drive", img).MustBuild()
//	result, err := runnerutils.RunWithTimeout(cmd, 5*time.Minute)
//	switch {
//	case errors.Is(err, runnerutils.ErrTimedOut):
//	    // the child was killed and reaped
//	case err != nil:
//	    // an *IOError identifying the failed step
//	default:
//	    // result carries the raw exit code / signal
//	}
//
// The runner passes the child's termination status through unmodified;
// pass/fail judgment belongs to the caller.
//
// # Package Structure
//
//   - runnerutils: entry point and convenience functions
//   - binkind: binary role classification
//   - runner: Command construction and RunWithTimeout
//   - harness: batch execution with bounded workers and spawn rate limiting
//   - observability: OpenTelemetry metrics/tracing and JSONL audit logging
//   - config: YAML harness configuration
package runnerutils
