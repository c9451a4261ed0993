package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/leptosim/internal/dynamo"
)

func TestRenderReport(t *testing.T) {
	out := RenderReport(Report{
		RunID:   "1BE1FCase2_1",
		Model:   "1BE1FCase2",
		Case:    "D2",
		K:       2.5,
		EtaB:    -1.234567e-9,
		Method:  "RK45",
		Steps:   42,
		Elapsed: 1500 * time.Millisecond,
		Metrics: map[string]float64{"sign_changes": 1},
	})

	for _, want := range []string{"1BE1FCase2", "-1.234567e-09", "42 accepted", "sign_changes", "saved as 1BE1FCase2_1"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestChart(t *testing.T) {
	zs := []float64{0.1, 1, 10}
	out := Chart("N_l", zs, []float64{0, -1e-8, 2e-8}, 30, 5)
	if !strings.Contains(out, "log z from 0.1 to 10") {
		t.Errorf("chart caption missing:\n%s", out)
	}
	if Chart("empty", nil, nil, 30, 5) == "" {
		t.Error("empty chart should render a placeholder")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 10); got != "▁█" {
		t.Errorf("Sparkline = %q", got)
	}
	if got := []rune(Sparkline(make([]float64, 50), 10)); len(got) != 10 {
		t.Errorf("Sparkline width = %d, want 10", len(got))
	}
}

func TestProgressUpdate(t *testing.T) {
	m := NewProgress(0.1, 10)
	if m.Fraction() != 0 {
		t.Fatalf("initial fraction = %v", m.Fraction())
	}

	var tm tea.Model = m
	obs := StepObserver(func(msg tea.Msg) { tm, _ = tm.Update(msg) })
	obs.OnStep(dynamo.State{-2e-8}, 1)

	p := tm.(Progress)
	if f := p.Fraction(); f < 0.499 || f > 0.501 {
		t.Errorf("fraction at z=1 = %v, want 0.5", f)
	}
	if !strings.Contains(p.View(), "-2.000000e-08") {
		t.Errorf("view missing N_l:\n%s", p.View())
	}

	tm, _ = tm.Update(PhaseMsg("solving asymmetry"))
	if !strings.Contains(tm.View(), "solving asymmetry") {
		t.Error("phase not shown")
	}

	tm, cmd := tm.Update(DoneMsg{Err: errors.New("boom")})
	if cmd == nil {
		t.Error("DoneMsg should quit")
	}
	p = tm.(Progress)
	if p.Err() == nil || !strings.Contains(p.View(), "boom") {
		t.Error("failure not reported")
	}
}

func TestProgressAbort(t *testing.T) {
	tm, cmd := NewProgress(0.1, 10).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || !tm.(Progress).Aborted() {
		t.Error("q should abort")
	}
}
