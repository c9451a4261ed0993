package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/leptosim/internal/dynamo"
)

const historyCapacity = 120

type tickMsg time.Time

// PhaseMsg announces a new stage of the run, e.g. the distribution solve.
type PhaseMsg string

// StepMsg is one accepted step of the asymmetry solve.
type StepMsg struct {
	Z  float64
	NL float64
}

// DoneMsg ends the view. Err is nil on success.
type DoneMsg struct {
	Report Report
	Err    error
}

// Progress is the Bubble Tea model for a run in flight. The z axis is
// logarithmic, so progress is measured in log z.
type Progress struct {
	z0, z1  float64
	z, nl   float64
	steps   int
	phase   string
	history []float64
	started time.Time
	frame   int
	done    bool
	aborted bool
	report  Report
	err     error
}

func NewProgress(z0, z1 float64) Progress {
	return Progress{
		z0:      z0,
		z1:      z1,
		z:       z0,
		phase:   "starting",
		history: make([]float64, 0, historyCapacity),
		started: time.Now(),
	}
}

func (m Progress) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case PhaseMsg:
		m.phase = string(msg)
	case StepMsg:
		m.z, m.nl = msg.Z, msg.NL
		m.steps++
		if len(m.history) == historyCapacity {
			m.history = m.history[1:]
		}
		m.history = append(m.history, msg.NL)
	case DoneMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// Fraction is the completed share of the z span in log z.
func (m Progress) Fraction() float64 {
	if m.z <= m.z0 || m.z1 <= m.z0 {
		return 0
	}
	f := math.Log(m.z/m.z0) / math.Log(m.z1/m.z0)
	return math.Min(f, 1)
}

func (m Progress) Aborted() bool { return m.aborted }

func (m Progress) Err() error { return m.err }

func (m Progress) Report() Report { return m.report }

func (m Progress) View() string {
	if m.done {
		if m.err != nil {
			return StatusFailed.Render("failed: "+m.err.Error()) + "\n"
		}
		return RenderReport(m.report) + "\n"
	}

	var b strings.Builder
	b.WriteString(StatusRunning.Render(Spinner(m.frame)+" "+m.phase) + "\n\n")
	b.WriteString(ProgressBar(m.Fraction(), 40))
	fmt.Fprintf(&b, " %5.1f%%\n\n", 100*m.Fraction())
	b.WriteString(MetricLabel.Render("z") + MetricValue.Render(fmt.Sprintf("%.4f", m.z)) + "\n")
	b.WriteString(MetricLabel.Render("N_l") + MetricValue.Render(fmt.Sprintf("%.6e", m.nl)) + "\n")
	b.WriteString(MetricLabel.Render("steps") + MetricValue.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	b.WriteString(MetricLabel.Render("elapsed") + MetricValue.Render(time.Since(m.started).Round(time.Second).String()) + "\n\n")
	b.WriteString(Sparkline(m.history, 60) + "\n\n")
	b.WriteString(KeyHint.Render("q: abort"))
	return Panel.Render(b.String())
}

// StepObserver forwards accepted asymmetry steps to send, typically
// (*tea.Program).Send.
func StepObserver(send func(tea.Msg)) dynamo.Observer {
	return dynamo.ObserverFunc(func(x dynamo.State, z float64) {
		send(StepMsg{Z: z, NL: x[0]})
	})
}
