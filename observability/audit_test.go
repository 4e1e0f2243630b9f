package observability

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phil-opp/runner-utils/binkind"
	"github.com/phil-opp/runner-utils/harness"
	"github.com/phil-opp/runner-utils/runner"
)

func TestFileAuditLogger_RunCompleted(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewFileAuditLogger(AuditConfig{
		Enabled:  true,
		BasePath: dir,
		FilePath: "audit.log",
	})
	if err != nil {
		t.Fatalf("NewFileAuditLogger() failed: %v", err)
	}

	reports := []*harness.Report{
		{
			RunID:    "run-1",
			Binary:   "/target/debug/deps/mycrate-1a2b",
			Kind:     binkind.Test,
			Result:   &runner.Result{ExitCode: 0},
			Duration: 120 * time.Millisecond,
		},
		{
			RunID:    "run-2",
			Binary:   "/usr/bin/qemu",
			Kind:     binkind.Other,
			Err:      runner.ErrTimedOut,
			Duration: 5 * time.Second,
		},
	}

	for _, report := range reports {
		if err := logger.RunCompleted(context.Background(), report); err != nil {
			t.Fatalf("RunCompleted() failed: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}

	var events []AuditEvent
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var event AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("unmarshaling audit line %q: %v", scanner.Text(), err)
		}
		events = append(events, event)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 audit events, got %d", len(events))
	}

	if events[0].RunID != "run-1" || events[0].Kind != "test" || events[0].Status != "success" {
		t.Errorf("Unexpected first event: %+v", events[0])
	}
	if events[1].RunID != "run-2" || events[1].Status != "timeout" || events[1].Error == "" {
		t.Errorf("Unexpected second event: %+v", events[1])
	}
}

func TestFileAuditLogger_Disabled(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewFileAuditLogger(AuditConfig{
		Enabled:  false,
		BasePath: dir,
		FilePath: "audit.log",
	})
	if err != nil {
		t.Fatalf("NewFileAuditLogger() failed: %v", err)
	}

	report := &harness.Report{RunID: "run-1", Binary: "/bin/true"}
	if err := logger.RunCompleted(context.Background(), report); err != nil {
		t.Fatalf("RunCompleted() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "audit.log")); !os.IsNotExist(err) {
		t.Error("Disabled logger should not create a log file")
	}
}

func TestCreateAuditEvent(t *testing.T) {
	report := &harness.Report{
		RunID:    "run-9",
		Binary:   "/tmp/rustdoctest1/rust_out",
		Kind:     binkind.DocTest,
		Result:   &runner.Result{ExitCode: 1, Signal: ""},
		Duration: time.Second,
	}

	event := CreateAuditEvent(report)

	if event.RunID != "run-9" {
		t.Errorf("RunID = %q, want 'run-9'", event.RunID)
	}
	if event.Kind != "doctest" {
		t.Errorf("Kind = %q, want 'doctest'", event.Kind)
	}
	if event.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", event.ExitCode)
	}
	if event.Status != "failed" {
		t.Errorf("Status = %q, want 'failed'", event.Status)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}
