// Package grid provides the logarithmically spaced momentum grid and O(1)
// lookup of the grid interval that brackets a momentum value.
package grid

import (
	"fmt"
	"math"

	"github.com/san-kum/leptosim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Momentum is an immutable log-spaced grid of positive momenta.
type Momentum struct {
	values []float64
	dlogy  float64
	dlogy0 float64
}

// NewLog returns n points spaced evenly in log10 between min and max
// inclusive.
func NewLog(n int, min, max float64) (*Momentum, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: grid needs at least 2 points, got %d", dynamo.ErrParameterBounds, n)
	}
	if !(min > 0) || !(max > min) || math.IsInf(max, 0) {
		return nil, fmt.Errorf("%w: grid bounds [%g, %g] must satisfy 0 < min < max", dynamo.ErrParameterBounds, min, max)
	}

	values := floats.LogSpan(make([]float64, n), min, max)
	values[0], values[n-1] = min, max
	return FromValues(values)
}

// FromValues wraps an existing log-spaced grid. The slice is copied.
func FromValues(values []float64) (*Momentum, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("%w: grid needs at least 2 points, got %d", dynamo.ErrParameterBounds, len(values))
	}
	for i, v := range values {
		if !(v > 0) {
			return nil, fmt.Errorf("%w: grid value %d is %g", dynamo.ErrParameterBounds, i, v)
		}
		if i > 0 && v <= values[i-1] {
			return nil, fmt.Errorf("%w: grid not strictly increasing at %d", dynamo.ErrParameterBounds, i)
		}
	}

	m := &Momentum{values: append([]float64(nil), values...)}
	m.dlogy = math.Log10(m.values[1]) - math.Log10(m.values[0])
	m.dlogy0 = math.Log10(m.values[0])
	return m, nil
}

func (m *Momentum) Len() int { return len(m.values) }

// Values returns the grid points. The slice must not be modified.
func (m *Momentum) Values() []float64 { return m.values }

func (m *Momentum) At(i int) float64 { return m.values[i] }

func (m *Momentum) Min() float64 { return m.values[0] }

func (m *Momentum) Max() float64 { return m.values[len(m.values)-1] }

// DLogY is the constant log10 spacing of the grid.
func (m *Momentum) DLogY() float64 { return m.dlogy }

// DLogY0 is log10 of the first grid point.
func (m *Momentum) DLogY0() float64 { return m.dlogy0 }

// IndexBelow returns i with values[i] <= y < values[i+1]. It requires y > 0
// and does not clamp: callers handle indices outside [0, Len()-2].
func (m *Momentum) IndexBelow(y float64) int {
	return int(math.Floor((math.Log10(y) - m.dlogy0) / m.dlogy))
}

// Interpolate evaluates the line through (y1, f1) and (y2, f2) at y.
// y1 and y2 must differ.
func Interpolate(y, y1, y2, f1, f2 float64) float64 {
	return f1 + (y-y1)*(f2-f1)/(y2-y1)
}
