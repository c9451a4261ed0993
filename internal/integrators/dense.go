package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/leptosim/internal/dynamo"
)

// DenseSolution is the continuous output of a solve. Each accepted step keeps
// the polynomial coefficients Q = K^T P so any t inside the span can be
// evaluated without re-integrating. It is immutable once returned.
type DenseSolution struct {
	tab   *Tableau
	terms int
	ts    []float64
	hs    []float64
	ys    []dynamo.State
	qs    [][]float64

	Stats dynamo.Stats
}

func newDenseSolution(tab *Tableau, t0 float64, y0 dynamo.State) *DenseSolution {
	return &DenseSolution{
		tab:   tab,
		terms: tab.InterpolantOrder(),
		ts:    []float64{t0},
		ys:    []dynamo.State{y0.Clone()},
	}
}

// append records the step that ended at t with size h. k holds the stage
// derivatives of that step.
func (d *DenseSolution) append(t, h float64, y dynamo.State, k [][]float64) {
	n := len(y)
	m := d.terms
	q := make([]float64, n*m)
	for s, row := range d.tab.P {
		ks := k[s]
		for c, p := range row {
			if p == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				q[i*m+c] += ks[i] * p
			}
		}
	}
	d.ts = append(d.ts, t)
	d.hs = append(d.hs, h)
	d.ys = append(d.ys, y)
	d.qs = append(d.qs, q)
}

func (d *DenseSolution) Method() string { return d.tab.Name }

func (d *DenseSolution) Bounds() (float64, float64) {
	return d.ts[0], d.ts[len(d.ts)-1]
}

// Times returns the accepted step points. The slice must not be modified.
func (d *DenseSolution) Times() []float64 { return d.ts }

// States returns the solution at every accepted step point. The states must
// not be modified.
func (d *DenseSolution) States() []dynamo.State { return d.ys }

func (d *DenseSolution) Final() dynamo.State { return d.ys[len(d.ys)-1] }

func (d *DenseSolution) Dim() int { return len(d.ys[0]) }

// At evaluates the interpolant at t.
func (d *DenseSolution) At(t float64) (dynamo.State, error) {
	dst := make(dynamo.State, d.Dim())
	if err := d.AtInto(dst, t); err != nil {
		return nil, err
	}
	return dst, nil
}

// AtInto evaluates the interpolant at t into dst, which must have Dim()
// elements. Step points return the stored state exactly.
func (d *DenseSolution) AtInto(dst dynamo.State, t float64) error {
	t0, t1 := d.Bounds()
	if t < t0 || t > t1 {
		return fmt.Errorf("%w: t=%g outside solution span [%g, %g]", dynamo.ErrParameterBounds, t, t0, t1)
	}
	if len(dst) != d.Dim() {
		return dynamo.ErrDimensionMismatch
	}

	idx := sort.SearchFloat64s(d.ts, t)
	if idx < len(d.ts) && d.ts[idx] == t {
		copy(dst, d.ys[idx])
		return nil
	}

	seg := idx - 1
	if seg < 0 {
		seg = 0
	}
	if seg > len(d.hs)-1 {
		seg = len(d.hs) - 1
	}

	h := d.hs[seg]
	x := (t - d.ts[seg]) / h
	y0 := d.ys[seg]
	q := d.qs[seg]
	m := d.terms
	for i := range dst {
		row := q[i*m : (i+1)*m]
		acc := 0.0
		for c := m - 1; c >= 0; c-- {
			acc = (acc + row[c]) * x
		}
		dst[i] = y0[i] + h*acc
	}
	return nil
}
