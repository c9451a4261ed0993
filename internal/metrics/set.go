// Package metrics summarises a solve from the accepted steps it observes.
package metrics

import "github.com/san-kum/leptosim/internal/dynamo"

// Set feeds every accepted step to a group of metrics. It implements
// dynamo.Observer.
type Set struct {
	metrics []dynamo.Metric
}

func NewSet(ms ...dynamo.Metric) *Set {
	return &Set{metrics: ms}
}

// Standard is the set recorded for every asymmetry solve.
func Standard() *Set {
	return NewSet(NewStepCount(), NewMinStep(), NewPeakAbs(), NewSignChanges())
}

func (s *Set) OnStep(x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}
