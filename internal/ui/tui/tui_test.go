package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudprobe/cloudprobe/internal/platform/awscloud"
	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/provisioning/inventory"
)

var testPhases = []string{"create", "wait after-create", "list"}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestPhaseKey(t *testing.T) {
	tests := map[string]string{
		"create (1/9)":            "create",
		"wait after-create (2/9)": "wait after-create",
		"verify":                  "verify",
	}
	for in, want := range tests {
		if got := phaseKey(in); got != want {
			t.Errorf("phaseKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCalculateProgress_Done(t *testing.T) {
	m := Model{Done: true}
	if p := calculateProgress(m); p != 1.0 {
		t.Errorf("expected 1.0, got %v", p)
	}
}

func TestCalculateProgress_Phases(t *testing.T) {
	m := NewRunModel("us-east-2", testPhases, nil)
	m.Phases[0].Status = PhaseDone
	m.Phases[1].Status = PhaseSkipped
	m.Phases[2].Status = PhaseActive

	p := calculateProgress(m)
	expected := 2.0 / 3.0
	if p < expected-0.01 || p > expected+0.01 {
		t.Errorf("expected ~%v, got %v", expected, p)
	}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelUpdate_PhaseEvents(t *testing.T) {
	m := NewRunModel("us-east-2", testPhases, nil)
	now := time.Now()

	m = update(m, EventMsg{Event: provisioning.Event{
		Type: provisioning.EventPhaseStarted, Phase: "create (1/3)", Timestamp: now,
		Fields: map[string]string{"run": "0a1b2c3d"},
	}})
	if m.Phases[0].Status != PhaseActive {
		t.Fatal("expected create to be active")
	}
	if m.RunID != "0a1b2c3d" {
		t.Errorf("expected run id from event fields, got %q", m.RunID)
	}

	m = update(m, EventMsg{Event: provisioning.Event{Type: provisioning.EventPhaseCompleted, Phase: "create (1/3)", Timestamp: now.Add(2 * time.Second)}})
	if m.Phases[0].Status != PhaseDone {
		t.Error("expected create to be done")
	}

	m = update(m, EventMsg{Event: provisioning.Event{Type: provisioning.EventPhaseStarted, Phase: "wait after-create (2/3)", Timestamp: now}})
	m = update(m, ProgressMsg{Phase: "wait after-create", Current: 2, Total: 24})
	if m.Phases[1].Current != 2 || m.Phases[1].Total != 24 {
		t.Errorf("expected progress 2/24, got %d/%d", m.Phases[1].Current, m.Phases[1].Total)
	}

	m = update(m, EventMsg{Event: provisioning.Event{Type: provisioning.EventPhaseSkipped, Phase: "list (3/3)", Message: "skipped: aborted"}})
	if m.Phases[2].Status != PhaseSkipped || m.Phases[2].Detail != "skipped: aborted" {
		t.Errorf("expected list to be skipped, got %+v", m.Phases[2])
	}
}

func TestModelUpdate_Problems(t *testing.T) {
	m := NewRunModel("us-east-2", testPhases, nil)
	m = update(m, EventMsg{Event: provisioning.Event{Type: provisioning.EventStepFailed, Message: "create bucket failed: denied"}})
	m = update(m, EventMsg{Event: provisioning.Event{Type: provisioning.EventStepWarning, Message: "confirm queue deletion: still listed"}})

	if len(m.Failures) != 1 || len(m.Warnings) != 1 {
		t.Fatalf("expected 1 failure and 1 warning, got %d and %d", len(m.Failures), len(m.Warnings))
	}

	view := m.View()
	if !strings.Contains(view, "create bucket failed: denied") {
		t.Error("expected failure in view")
	}
	if !strings.Contains(view, "Problems") {
		t.Error("expected problems section")
	}
}

func TestModelUpdate_LogIsCapped(t *testing.T) {
	m := NewRunModel("us-east-2", testPhases, nil)
	for i := 0; i < maxLogLines+4; i++ {
		m = update(m, LogMsg{Line: strings.Repeat("x", i)})
	}
	if len(m.Log) != maxLogLines {
		t.Fatalf("expected %d log lines, got %d", maxLogLines, len(m.Log))
	}
	if m.Log[maxLogLines-1] != strings.Repeat("x", maxLogLines+3) {
		t.Error("expected the most recent line last")
	}
}

func TestModelUpdate_Done(t *testing.T) {
	m := NewRunModel("us-east-2", testPhases, nil)
	report := provisioning.NewReport("run")
	report.Record(provisioning.Step{Phase: "create", Name: "create bucket", Status: provisioning.StatusOK})

	next, cmd := m.Update(DoneMsg{Report: report})
	m = next.(Model)
	if !m.Done || m.Report != report {
		t.Error("expected model to be done with report")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
	if !strings.Contains(m.View(), "Complete") {
		t.Error("expected completed header")
	}
}

func TestModelUpdate_QuitBeforeDone(t *testing.T) {
	m := NewRunModel("us-east-2", testPhases, nil)
	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.Interrupted {
		t.Error("expected interrupted model")
	}
	if !strings.Contains(m.View(), "Interrupted") {
		t.Error("expected interrupted header")
	}
}

func TestModelUpdate_ETA(t *testing.T) {
	m := NewRunModel("us-east-2", testPhases, map[string]int{"create": 10, "wait after-create": 20, "list": 5})
	m.Phases[0].Status = PhaseActive
	m.Phases[0].StartedAt = time.Now()

	m = update(m, TickMsg{})
	if m.EstimatedRemaining < 30*time.Second || m.EstimatedRemaining > 35*time.Second {
		t.Errorf("expected ETA around 35s, got %v", m.EstimatedRemaining)
	}
	if m.SpinnerFrame != 1 {
		t.Errorf("expected spinner to advance, got %d", m.SpinnerFrame)
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *recordingSender) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func TestProgramObserver(t *testing.T) {
	sender := &recordingSender{}
	obs := NewProgramObserver(sender).WithFields(map[string]string{"run": "abc"})

	obs.Printf("hello %s", "world")
	obs.Event(provisioning.Event{Type: provisioning.EventPhaseStarted, Phase: "create"})
	obs.Progress("wait after-create", 1, 3)

	if len(sender.msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(sender.msgs))
	}
	if msg, ok := sender.msgs[0].(LogMsg); !ok || msg.Line != "hello world" {
		t.Errorf("unexpected log message %#v", sender.msgs[0])
	}
	ev, ok := sender.msgs[1].(EventMsg)
	if !ok {
		t.Fatalf("expected EventMsg, got %T", sender.msgs[1])
	}
	if ev.Event.Fields["run"] != "abc" || ev.Event.Timestamp.IsZero() {
		t.Errorf("expected fields and timestamp, got %+v", ev.Event)
	}
	if msg, ok := sender.msgs[2].(ProgressMsg); !ok || msg.Total != 3 {
		t.Errorf("unexpected progress message %#v", sender.msgs[2])
	}
}

func TestRenderReport(t *testing.T) {
	report := provisioning.NewReport("0a1b2c3d-run")
	report.Record(provisioning.Step{Phase: "create", Name: "create instance", Status: provisioning.StatusOK, Duration: 120 * time.Millisecond})
	report.Record(provisioning.Step{Phase: "create", Name: "create bucket", Status: provisioning.StatusFailed, Err: errors.New("access denied")})
	report.Record(provisioning.Step{Phase: "confirm", Name: "confirm queue deletion", Status: provisioning.StatusWarning, Err: errors.New("still listed")})
	report.Finish()

	out := RenderReport(report)
	for _, want := range []string{"PHASE", "create instance", "access denied", "still listed", "0a1b2c3d-run", "1 ok, 1 warning, 1 failed, 0 skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate("a\nb", 10); got != "a; b" {
		t.Errorf("unexpected %q", got)
	}
	if got := truncate(strings.Repeat("x", 20), 10); got != "xxxxxxx..." {
		t.Errorf("unexpected %q", got)
	}
}

func TestRenderDoctor(t *testing.T) {
	out := RenderDoctor("cloudprobe doctor", []Check{
		{Name: "config", Status: CheckPassed, Detail: "cloudprobe.yaml"},
		{Name: "identity", Status: CheckFailed, Detail: "no credentials"},
		{Name: "endpoint", Status: CheckWarning, Detail: "custom endpoint"},
	})
	for _, want := range []string{"config", "no credentials", "1 check(s) failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected doctor output to contain %q:\n%s", want, out)
		}
	}
}

func TestRenderListing(t *testing.T) {
	out := RenderListing("us-east-2", &inventory.Listing{
		Instances: []awscloud.Instance{{ID: "i-0abc", State: "running", Type: "t2.micro"}},
		Buckets:   []string{"cloudprobe-1234"},
		Queues:    []string{"https://sqs.us-east-2.amazonaws.com/123456789012/cloudprobe-queue.fifo"},
	})
	for _, want := range []string{"us-east-2", "Instances (1)", "i-0abc", "running", "Buckets (1)", "cloudprobe-1234", "Queues (1)", "cloudprobe-queue.fifo"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected listing to contain %q:\n%s", want, out)
		}
	}
}

func TestRenderListing_Empty(t *testing.T) {
	out := RenderListing("eu-west-1", &inventory.Listing{})
	for _, want := range []string{"Instances (0)", "Buckets (0)", "Queues (0)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected listing to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "NAME") {
		t.Errorf("expected no tables for an empty listing:\n%s", out)
	}
}
