package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudprobe/cloudprobe/internal/provisioning"
	"github.com/cloudprobe/cloudprobe/internal/ui/benchmarks"
)

// PhaseStatus is the display state of a phase.
type PhaseStatus int

// Phase display states.
const (
	PhasePending PhaseStatus = iota
	PhaseActive
	PhaseDone
	PhaseFailed
	PhaseSkipped
)

// PhaseView is a lifecycle phase as displayed.
type PhaseView struct {
	Name      string
	Status    PhaseStatus
	Detail    string
	Current   int
	Total     int
	StartedAt time.Time
	EndedAt   time.Time
}

const maxLogLines = 6

// Model is the Bubble Tea model for the run dashboard.
type Model struct {
	RunID  string
	Region string

	Phases   []PhaseView
	Warnings []string
	Failures []string
	Log      []string

	// ETA
	Timings            map[string]int
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width  int
	Height int
	Err    error
	Done   bool
	Report *provisioning.Report

	// Interrupted is set when the user quit before the run finished.
	Interrupted bool
}

// NewRunModel creates a model for the given phases.
func NewRunModel(region string, phases []string, timings map[string]int) Model {
	views := make([]PhaseView, len(phases))
	for i, name := range phases {
		views[i] = PhaseView{Name: name}
	}
	if timings == nil {
		timings = benchmarks.DefaultTimings
	}
	return Model{
		Region:           region,
		Phases:           views,
		Timings:          timings,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.Done {
				m.Interrupted = true
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case EventMsg:
		m.applyEvent(msg.Event)

	case ProgressMsg:
		if p := m.phase(msg.Phase); p != nil {
			p.Current = msg.Current
			p.Total = msg.Total
		}

	case LogMsg:
		m.Log = append(m.Log, msg.Line)
		if len(m.Log) > maxLogLines {
			m.Log = m.Log[len(m.Log)-maxLogLines:]
		}

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.Report = msg.Report
		m.Err = msg.Err
		m.EstimatedRemaining = 0
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) phase(name string) *PhaseView {
	key := phaseKey(name)
	for i := range m.Phases {
		if m.Phases[i].Name == key {
			return &m.Phases[i]
		}
	}
	return nil
}

func (m *Model) applyEvent(e provisioning.Event) {
	if m.RunID == "" {
		m.RunID = e.Fields["run"]
	}
	p := m.phase(e.Phase)

	switch e.Type {
	case provisioning.EventPhaseStarted:
		if p != nil {
			p.Status = PhaseActive
			p.StartedAt = e.Timestamp
		}
	case provisioning.EventPhaseCompleted:
		if p != nil {
			p.Status = PhaseDone
			p.EndedAt = e.Timestamp
			p.Detail = ""
		}
	case provisioning.EventPhaseFailed:
		if p != nil {
			p.Status = PhaseFailed
			p.EndedAt = e.Timestamp
		}
	case provisioning.EventPhaseSkipped:
		if p != nil {
			p.Status = PhaseSkipped
			p.Detail = e.Message
		}
	case provisioning.EventStepFailed:
		m.Failures = append(m.Failures, e.Message)
	case provisioning.EventStepWarning:
		m.Warnings = append(m.Warnings, e.Message)
	case provisioning.EventWaiting:
		if p != nil {
			p.Detail = e.Message
			p.Current, p.Total = 0, 0
		}
	}
}

func (m *Model) updateETA() {
	var (
		current string
		elapsed time.Duration
		history []benchmarks.PhaseRecord
	)
	for _, p := range m.Phases {
		switch p.Status {
		case PhaseActive:
			current = p.Name
			elapsed = time.Since(p.StartedAt)
			history = append(history, benchmarks.PhaseRecord{Phase: p.Name, StartedAt: p.StartedAt})
		case PhaseDone, PhaseFailed:
			history = append(history, benchmarks.PhaseRecord{Phase: p.Name, StartedAt: p.StartedAt, EndedAt: p.EndedAt})
		}
	}
	if current == "" {
		m.EstimatedRemaining = 0
		return
	}

	m.PerformanceScale = benchmarks.PerformanceScale(m.Timings, current, elapsed, history)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(m.Timings, current, elapsed, history, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
