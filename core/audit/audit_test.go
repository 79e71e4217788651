package audit

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"genquote/internal/config"
)

func testTrail(capacity int) *Trail {
	return New(config.AuditConfig{HistoryCapacity: capacity})
}

func TestSessionLifecycle(t *testing.T) {
	trail := testTrail(10)

	s := trail.Start()
	if s.ID == "" {
		t.Fatal("session must get an ID")
	}
	s.Log("validate", "request accepted", map[string]int{"generators": 2})
	s.Warn("distance", "provider unavailable, using 0 miles")
	s.Complete(true)

	history := trail.History()
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	got := history[0]
	if !got.Success {
		t.Error("session must record success")
	}
	if len(got.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(got.Steps))
	}
	if got.Warnings != 1 || got.Errors != 0 {
		t.Errorf("warnings=%d errors=%d, want 1/0", got.Warnings, got.Errors)
	}
	if got.CompletedAt.Before(got.StartedAt) {
		t.Error("completion must not precede start")
	}
}

// Step data is snapshotted at log time; mutating the logged value
// afterwards must not rewrite the trail.
func TestStepDataSnapshot(t *testing.T) {
	trail := testTrail(10)
	s := trail.Start()

	payload := map[string]string{"bracket": "35-150"}
	s.Log("classify", "", payload)
	payload["bracket"] = "rewritten"
	s.Complete(true)

	var decoded map[string]string
	if err := json.Unmarshal(trail.History()[0].Steps[0].Data, &decoded); err != nil {
		t.Fatalf("step data invalid: %v", err)
	}
	if decoded["bracket"] != "35-150" {
		t.Errorf("step data = %q, want the value at log time", decoded["bracket"])
	}
}

func TestDistinctSessionIDs(t *testing.T) {
	trail := testTrail(10)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		s := trail.Start()
		if seen[s.ID] {
			t.Fatalf("duplicate session ID %s", s.ID)
		}
		seen[s.ID] = true
		s.Complete(true)
	}
}

// The history is FIFO-bounded: oldest sessions drop first.
func TestHistoryBound(t *testing.T) {
	trail := testTrail(3)
	var ids []string
	for i := 0; i < 5; i++ {
		s := trail.Start()
		s.Log("step", strconv.Itoa(i), nil)
		s.Complete(true)
		ids = append(ids, s.ID)
	}

	history := trail.History()
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	for i, session := range history {
		if session.ID != ids[i+2] {
			t.Errorf("history[%d] = %s, want %s (oldest dropped first)", i, session.ID, ids[i+2])
		}
	}
}

func TestStats(t *testing.T) {
	trail := testTrail(10)

	ok := trail.Start()
	ok.Log("calculate", "", nil)
	ok.Complete(true)

	failed := trail.Start()
	failed.LogError("calculate", errors.New("bracket lookup miss"))
	failed.Complete(false)

	warned := trail.Start()
	warned.Warn("tax", "provider fallback")
	warned.Complete(true)

	s := trail.Stats()
	if s.Started != 3 || s.Retained != 3 {
		t.Errorf("started=%d retained=%d, want 3/3", s.Started, s.Retained)
	}
	if s.SuccessRate < 0.66 || s.SuccessRate > 0.67 {
		t.Errorf("success rate = %f, want 2/3", s.SuccessRate)
	}
	if s.Warnings != 1 || s.Errors != 1 {
		t.Errorf("warnings=%d errors=%d, want 1/1", s.Warnings, s.Errors)
	}
}
