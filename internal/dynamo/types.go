package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is the right-hand side of dX/dt = f(X, t). Derive may fail when the
// derivative itself is the result of a numerical procedure.
type System interface {
	Derive(x State, t float64) (State, error)
	StateDim() int
}

// SystemFunc adapts a plain function to [System].
type SystemFunc struct {
	Dim int
	Fn  func(x State, t float64) (State, error)
}

func (f SystemFunc) Derive(x State, t float64) (State, error) { return f.Fn(x, t) }
func (f SystemFunc) StateDim() int                            { return f.Dim }

type Observer interface {
	OnStep(x State, t float64)
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(x State, t float64)

func (f ObserverFunc) OnStep(x State, t float64) { f(x, t) }

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Config controls an adaptive solve. Zero MaxStep means unbounded and zero
// FirstStep selects the initial step automatically.
type Config struct {
	RTol          float64
	ATol          float64
	MaxStep       float64
	FirstStep     float64
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		RTol:          1e-3,
		ATol:          1e-6,
		MaxSteps:      1_000_000,
		ValidateState: true,
	}
}

func (c Config) MaxStepOrInf() float64 {
	if c.MaxStep <= 0 {
		return math.Inf(1)
	}
	return c.MaxStep
}

// Stats counts the work done by a solve.
type Stats struct {
	Accepted    int
	Rejected    int
	Evaluations int
}
