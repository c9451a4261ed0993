package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Report is the summary of one solve.
type Report struct {
	RunID          string
	Model          string
	Case           string
	K              float64
	Epsilon        float64
	EtaB           float64
	Terminal       float64
	Method         string
	Steps          int
	Rejected       int
	RHSEvaluations int
	Elapsed        time.Duration
	Metrics        map[string]float64
}

func RenderReport(r Report) string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, MetricLabel.Render(label), MetricValue.Render(value))
	}

	lines := []string{
		HeaderStyle.Render(fmt.Sprintf("%s (case %s)", r.Model, r.Case)),
		row("eta_B", fmt.Sprintf("%.6e", r.EtaB)),
		row("N_l(z_max)", fmt.Sprintf("%.6e", r.Terminal)),
		row("K", fmt.Sprintf("%g", r.K)),
		row("epsilon", fmt.Sprintf("%g", r.Epsilon)),
		row("method", r.Method),
		row("steps", fmt.Sprintf("%d accepted, %d rejected", r.Steps, r.Rejected)),
		row("rhs evaluations", fmt.Sprintf("%d", r.RHSEvaluations)),
		row("elapsed", r.Elapsed.Round(time.Millisecond).String()),
	}

	if len(r.Metrics) > 0 {
		names := make([]string, 0, len(r.Metrics))
		for name := range r.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		lines = append(lines, "")
		for _, name := range names {
			lines = append(lines, row(name, fmt.Sprintf("%g", r.Metrics[name])))
		}
	}
	if r.RunID != "" {
		lines = append(lines, "", Subtle.Render("saved as "+r.RunID))
	}

	return Panel.Render(strings.Join(lines, "\n"))
}

// Chart plots ys against the sample index of a log-spaced z axis.
func Chart(caption string, zs, ys []float64, width, height int) string {
	if len(ys) == 0 {
		return Subtle.Render("(no data)")
	}
	data := make([]float64, len(ys))
	for i, v := range ys {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		data[i] = v
	}
	if len(zs) > 0 {
		caption = fmt.Sprintf("%s  (log z from %g to %g)", caption, zs[0], zs[len(zs)-1])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.Precision(3),
	)
}

// SweepRow is one line of a parameter scan table.
type SweepRow struct {
	K       float64
	Epsilon float64
	EtaB    float64
	Steps   int
	Elapsed time.Duration
}

func RenderSweep(rows []SweepRow) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-12s %-12s %-14s %-8s %s", "K", "epsilon", "eta_B", "steps", "elapsed")))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-12g %-12g %-14.6e %-8d %s\n", r.K, r.Epsilon, r.EtaB, r.Steps, r.Elapsed.Round(time.Millisecond))
	}
	return b.String()
}
