// Package audit records per-calculation session trails.
//
// Every calculation opens a session, logs its pipeline steps, and
// completes with an outcome. Completed sessions land in a bounded FIFO
// history the diagnostics endpoints read from.
package audit

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"genquote/internal/config"
	"genquote/internal/logging"
)

// StepLevel classifies a session step
type StepLevel string

const (
	LevelInfo    StepLevel = "info"
	LevelWarning StepLevel = "warning"
	LevelError   StepLevel = "error"
)

// Step is one recorded pipeline event
type Step struct {
	// At is the event timestamp
	At time.Time `json:"at"`

	// Level classifies the event
	Level StepLevel `json:"level"`

	// Name identifies the pipeline stage
	Name string `json:"name"`

	// Detail is the human-readable description
	Detail string `json:"detail,omitempty"`

	// Data is an isolated snapshot of stage data
	Data json.RawMessage `json:"data,omitempty"`
}

// Session is one calculation's audit trail
type Session struct {
	mu sync.Mutex

	// ID is the unique session identifier
	ID string `json:"id"`

	// StartedAt is the session open time
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is the session close time, zero while open
	CompletedAt time.Time `json:"completed_at,omitempty"`

	// Success reports the outcome of a completed session
	Success bool `json:"success"`

	// Steps are the recorded events in order
	Steps []Step `json:"steps"`

	// Warnings counts warning-level steps
	Warnings int `json:"warnings"`

	// Errors counts error-level steps
	Errors int `json:"errors"`

	trail  *Trail
	logger *zap.Logger
}

// Trail owns the bounded session history
type Trail struct {
	mu       sync.Mutex
	history  []*Session
	capacity int
	started  uint64
	logger   *zap.Logger
}

// New builds a trail from configuration
func New(cfg config.AuditConfig) *Trail {
	capacity := cfg.HistoryCapacity
	if capacity <= 0 {
		capacity = 100
	}
	return &Trail{
		capacity: capacity,
		logger:   logging.Component("audit"),
	}
}

// Start opens a new session
func (t *Trail) Start() *Session {
	t.mu.Lock()
	t.started++
	t.mu.Unlock()

	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		trail:     t,
		logger:    t.logger,
	}
}

// record appends a step, snapshotting data via JSON so later caller
// mutations cannot rewrite history.
func (s *Session) record(level StepLevel, name, detail string, data interface{}) {
	step := Step{
		At:     time.Now(),
		Level:  level,
		Name:   name,
		Detail: detail,
	}
	if data != nil {
		if snapshot, err := json.Marshal(data); err == nil {
			step.Data = snapshot
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps = append(s.Steps, step)
	switch level {
	case LevelWarning:
		s.Warnings++
	case LevelError:
		s.Errors++
	}
}

// Log records an info step
func (s *Session) Log(name, detail string, data interface{}) {
	s.record(LevelInfo, name, detail, data)
}

// Warn records a warning step
func (s *Session) Warn(name, detail string) {
	s.record(LevelWarning, name, detail, nil)
	s.logger.Warn(detail, zap.String("session", s.ID), zap.String("step", name))
}

// LogError records an error step
func (s *Session) LogError(name string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	s.record(LevelError, name, detail, nil)
	s.logger.Error("calculation step failed",
		zap.String("session", s.ID),
		zap.String("step", name),
		zap.Error(err))
}

// Complete closes the session and files it into the trail history
func (s *Session) Complete(success bool) {
	s.mu.Lock()
	s.CompletedAt = time.Now()
	s.Success = success
	s.mu.Unlock()

	if s.trail != nil {
		s.trail.file(s)
	}
}

// Duration returns the session wall time, or zero while open
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CompletedAt.IsZero() {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}

// file appends a completed session, dropping the oldest at capacity
func (t *Trail) file(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, s)
	if len(t.history) > t.capacity {
		t.history = t.history[len(t.history)-t.capacity:]
	}
}

// History returns the retained sessions, newest last
func (t *Trail) History() []*Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Session, len(t.history))
	copy(out, t.history)
	return out
}

// Stats summarizes the retained history
type Stats struct {
	// Started counts every session opened since process start
	Started uint64 `json:"started"`

	// Retained is the current history length
	Retained int `json:"retained"`

	// SuccessRate is the fraction of retained sessions that succeeded
	SuccessRate float64 `json:"success_rate"`

	// AvgDurationMs is the mean wall time of retained sessions
	AvgDurationMs float64 `json:"avg_duration_ms"`

	// Warnings counts warning steps across retained sessions
	Warnings int `json:"warnings"`

	// Errors counts error steps across retained sessions
	Errors int `json:"errors"`
}

// Stats computes summary statistics over the retained history
func (t *Trail) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{Started: t.started, Retained: len(t.history)}
	if len(t.history) == 0 {
		return s
	}

	succeeded := 0
	var total time.Duration
	for _, session := range t.history {
		if session.Success {
			succeeded++
		}
		total += session.CompletedAt.Sub(session.StartedAt)
		s.Warnings += session.Warnings
		s.Errors += session.Errors
	}
	s.SuccessRate = float64(succeeded) / float64(len(t.history))
	s.AvgDurationMs = float64(total.Milliseconds()) / float64(len(t.history))
	return s
}
