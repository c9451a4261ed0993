package metrics

import (
	"math"

	"github.com/san-kum/leptosim/internal/dynamo"
)

// StepCount counts accepted steps, excluding the initial point.
type StepCount struct {
	name    string
	samples int
}

func NewStepCount() *StepCount {
	return &StepCount{name: "accepted_steps"}
}

func (s *StepCount) Name() string { return s.name }

func (s *StepCount) Observe(x dynamo.State, t float64) { s.samples++ }

func (s *StepCount) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.samples - 1)
}

func (s *StepCount) Reset() { s.samples = 0 }

// MinStep is the smallest accepted step size.
type MinStep struct {
	name    string
	lastT   float64
	min     float64
	samples int
}

func NewMinStep() *MinStep {
	return &MinStep{name: "min_step", min: math.Inf(1)}
}

func (m *MinStep) Name() string { return m.name }

func (m *MinStep) Observe(x dynamo.State, t float64) {
	if m.samples > 0 {
		m.min = math.Min(m.min, t-m.lastT)
	}
	m.lastT = t
	m.samples++
}

func (m *MinStep) Value() float64 {
	if m.samples < 2 {
		return 0
	}
	return m.min
}

func (m *MinStep) Reset() {
	m.lastT = 0
	m.min = math.Inf(1)
	m.samples = 0
}
