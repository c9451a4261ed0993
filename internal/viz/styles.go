package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorFrame  = lipgloss.Color("#3a4a5c")
	colorAccent = lipgloss.Color("#7fd1ff")
	colorMuted  = lipgloss.Color("#6b7a8a")
	colorOK     = lipgloss.Color("#8be28b")
	colorWarn   = lipgloss.Color("#f2c45a")
	colorBad    = lipgloss.Color("#ff6b6b")
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorFrame).
		Padding(0, 2)

	Subtle = lipgloss.NewStyle().Foreground(colorMuted)

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	StatusFailed  = lipgloss.NewStyle().Bold(true).Foreground(colorBad)

	// MetricLabel is fixed width so report rows line up.
	MetricLabel = lipgloss.NewStyle().Foreground(colorMuted).Width(20)
	MetricValue = lipgloss.NewStyle().Foreground(colorAccent)

	KeyHint = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorFrame)

	barDone    = lipgloss.NewStyle().Foreground(colorOK)
	barHalfway = lipgloss.NewStyle().Foreground(colorWarn)
	barStart   = lipgloss.NewStyle().Foreground(colorAccent)
)

func Spinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return frames[frame%len(frames)]
}

// ProgressBar renders a fraction in [0, 1] as a bar of the given width.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("━", filled) + Subtle.Render(strings.Repeat("─", width-filled))
	switch {
	case fraction >= 1:
		return barDone.Render(bar)
	case fraction > 0.5:
		return barHalfway.Render(bar)
	}
	return barStart.Render(bar)
}

// Sparkline draws the most recent width values.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}
