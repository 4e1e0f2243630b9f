package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/victoralfred/gowritter/safepath"

	"github.com/phil-opp/runner-utils/harness"
)

// AuditEvent is one audit log entry, serialized as a single JSON line.
type AuditEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Binary    string        `json:"binary"`
	Kind      string        `json:"kind"`
	Status    string        `json:"status"`
	ExitCode  int           `json:"exit_code"`
	Signal    string        `json:"signal,omitempty"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// AuditConfig configures the audit logger.
type AuditConfig struct {
	// Enabled turns audit logging on.
	Enabled bool

	// BasePath is the directory the audit log is confined to.
	BasePath string

	// FilePath is the log file path relative to BasePath.
	FilePath string
}

// DefaultAuditConfig returns default configuration. Auditing is disabled
// by default; the core runner produces no files.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:  false,
		FilePath: "runner-audit.log",
	}
}

// FileAuditLogger appends one JSON line per completed run. It satisfies the
// harness.Observer interface. All file access goes through gowritter's
// safepath so the log cannot escape its base directory.
type FileAuditLogger struct {
	safePath *safepath.SafePath
	config   AuditConfig
	mu       sync.Mutex
}

// NewFileAuditLogger creates a new file-based audit logger.
func NewFileAuditLogger(config AuditConfig) (*FileAuditLogger, error) {
	sp, err := safepath.New(config.BasePath)
	if err != nil {
		return nil, fmt.Errorf("creating safe path: %w", err)
	}

	return &FileAuditLogger{
		config:   config,
		safePath: sp,
	}, nil
}

// RunCompleted implements harness.Observer.
func (l *FileAuditLogger) RunCompleted(ctx context.Context, report *harness.Report) error {
	return l.Log(ctx, CreateAuditEvent(report))
}

// Log appends an audit event to the log file.
func (l *FileAuditLogger) Log(ctx context.Context, event *AuditEvent) error {
	if !l.config.Enabled {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling audit event: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.safePath.AppendFile(l.config.FilePath, data, 0o644); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}

	return nil
}

// CreateAuditEvent creates an audit event from a harness report.
func CreateAuditEvent(report *harness.Report) *AuditEvent {
	event := &AuditEvent{
		Timestamp: time.Now(),
		RunID:     report.RunID,
		Binary:    report.Binary,
		Kind:      report.Kind.String(),
		Status:    report.Status(),
		Duration:  report.Duration,
	}

	if report.Result != nil {
		event.ExitCode = report.Result.ExitCode
		event.Signal = report.Result.Signal
	}

	if report.Err != nil {
		event.Error = report.Err.Error()
	}

	return event
}
