package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/leptosim/internal/dynamo"
)

// RK integrates with an embedded explicit Runge-Kutta pair. Step control
// follows Hairer, Norsett & Wanner (II.4): the error is measured in a weighted
// RMS norm against atol + rtol*max(|y|, |y_new|). An RK holds scratch buffers
// and must not be shared between goroutines.
type RK struct {
	tab      *Tableau
	safety   float64
	minScale float64
	maxScale float64

	k       [][]float64
	scratch dynamo.State
}

func newRK(tab *Tableau) *RK {
	return &RK{
		tab:      tab,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK) Name() string { return r.tab.Name }

func (r *RK) ensureScratch(n int) {
	stages := r.tab.Stages() + 1
	if len(r.scratch) != n || len(r.k) != stages {
		r.k = make([][]float64, stages)
		for i := range r.k {
			r.k[i] = make([]float64, n)
		}
		r.scratch = make(dynamo.State, n)
	}
}

// Solve integrates sys from t0 to t1 (t1 > t0) starting at y0 and returns the
// dense solution over the whole span. Observers see the initial point and
// every accepted step. The context is checked once per step.
func (r *RK) Solve(ctx context.Context, sys dynamo.System, t0, t1 float64, y0 dynamo.State, cfg dynamo.Config, observers ...dynamo.Observer) (*DenseSolution, error) {
	if err := r.validate(sys, t0, t1, y0, cfg); err != nil {
		return nil, err
	}

	n := len(y0)
	r.ensureScratch(n)

	var stats dynamo.Stats
	y := y0.Clone()
	f0, err := sys.Derive(y, t0)
	stats.Evaluations++
	if err != nil {
		return nil, err
	}
	f := make(dynamo.State, n)
	copy(f, f0)

	sol := newDenseSolution(r.tab, t0, y)
	for _, obs := range observers {
		obs.OnStep(y, t0)
	}

	hAbs := cfg.FirstStep
	if hAbs <= 0 {
		hAbs, err = r.initialStep(sys, t0, t1, y, f, cfg, &stats)
		if err != nil {
			return nil, err
		}
	}

	maxStep := cfg.MaxStepOrInf()
	t := t0

	for t < t1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		minStep := 10 * math.Abs(math.Nextafter(t, math.Inf(1))-t)
		if hAbs > maxStep {
			hAbs = maxStep
		} else if hAbs < minStep {
			hAbs = minStep
		}

		rejected := false
		for {
			if cfg.MaxSteps > 0 && stats.Accepted+stats.Rejected >= cfg.MaxSteps {
				return nil, &dynamo.SolveError{Op: r.tab.Name, Time: t, Wrapped: dynamo.ErrMaxSteps}
			}
			if hAbs < minStep {
				return nil, &dynamo.SolveError{Op: r.tab.Name, Time: t, Wrapped: dynamo.ErrStepTooSmall}
			}

			tNew := t + hAbs
			if tNew > t1 {
				tNew = t1
			}
			h := tNew - t
			hAbs = h

			yNew, err := r.trial(sys, t, y, f, h, &stats)
			if err != nil {
				return nil, err
			}

			errNorm := r.errorNorm(h, y, yNew, cfg.RTol, cfg.ATol)
			if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
				return nil, &dynamo.SolveError{Op: r.tab.Name, Time: t, Wrapped: dynamo.ErrInvalidState}
			}

			if errNorm < 1 {
				hAbs *= r.scaleFactor(errNorm, rejected)
				sol.append(tNew, h, yNew, r.k)
				t, y = tNew, yNew
				copy(f, r.k[r.tab.Stages()])
				stats.Accepted++
				break
			}

			hAbs *= r.scaleFactor(errNorm, true)
			rejected = true
			stats.Rejected++
		}

		if cfg.ValidateState && !y.IsValid() {
			return nil, &dynamo.SolveError{Op: r.tab.Name, Time: t, Wrapped: dynamo.ErrInvalidState}
		}

		for _, obs := range observers {
			obs.OnStep(y, t)
		}
	}

	sol.Stats = stats
	return sol, nil
}

func (r *RK) validate(sys dynamo.System, t0, t1 float64, y0 dynamo.State, cfg dynamo.Config) error {
	if !(t1 > t0) {
		return fmt.Errorf("%w: integration span [%g, %g] must be increasing", dynamo.ErrParameterBounds, t0, t1)
	}
	if sys.StateDim() != len(y0) {
		return fmt.Errorf("%w: system has %d components, initial state %d", dynamo.ErrDimensionMismatch, sys.StateDim(), len(y0))
	}
	if len(y0) == 0 {
		return fmt.Errorf("%w: empty initial state", dynamo.ErrDimensionMismatch)
	}
	if cfg.RTol <= 0 || cfg.ATol < 0 {
		return fmt.Errorf("%w: rtol=%g atol=%g", dynamo.ErrParameterBounds, cfg.RTol, cfg.ATol)
	}
	if !y0.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}

// trial computes one step of size h from (t, y) with f = f(t, y). All stage
// derivatives, including the one at the new point, are left in r.k.
func (r *RK) trial(sys dynamo.System, t float64, y, f dynamo.State, h float64, stats *dynamo.Stats) (dynamo.State, error) {
	tab := r.tab
	n := len(y)
	s := tab.Stages()

	copy(r.k[0], f)
	for i := 1; i < s; i++ {
		a := tab.A[i]
		for k := 0; k < n; k++ {
			dy := 0.0
			for j, aij := range a {
				dy += aij * r.k[j][k]
			}
			r.scratch[k] = y[k] + h*dy
		}
		d, err := sys.Derive(r.scratch, t+tab.C[i]*h)
		stats.Evaluations++
		if err != nil {
			return nil, err
		}
		copy(r.k[i], d)
	}

	yNew := make(dynamo.State, n)
	for k := 0; k < n; k++ {
		acc := 0.0
		for j, bj := range tab.B {
			acc += bj * r.k[j][k]
		}
		yNew[k] = y[k] + h*acc
	}

	fNew, err := sys.Derive(yNew, t+h)
	stats.Evaluations++
	if err != nil {
		return nil, err
	}
	copy(r.k[s], fNew)

	return yNew, nil
}

func (r *RK) errorNorm(h float64, y, yNew dynamo.State, rtol, atol float64) float64 {
	sum := 0.0
	for k := range y {
		e := 0.0
		for j, ej := range r.tab.E {
			e += ej * r.k[j][k]
		}
		e *= h
		scale := atol + math.Max(math.Abs(y[k]), math.Abs(yNew[k]))*rtol
		q := e / scale
		sum += q * q
	}
	return math.Sqrt(sum / float64(len(y)))
}

func (r *RK) scaleFactor(errNorm float64, rejected bool) float64 {
	exponent := -1.0 / float64(r.tab.ErrorOrder+1)
	if errNorm >= 1 {
		return math.Max(r.minScale, r.safety*math.Pow(errNorm, exponent))
	}
	factor := r.maxScale
	if errNorm > 0 {
		factor = math.Min(r.maxScale, r.safety*math.Pow(errNorm, exponent))
	}
	if rejected {
		factor = math.Min(1, factor)
	}
	return factor
}

// initialStep estimates a first step from the size of y0 and f0 and one
// extra derivative evaluation (Hairer, Norsett & Wanner, II.4).
func (r *RK) initialStep(sys dynamo.System, t0, t1 float64, y0, f0 dynamo.State, cfg dynamo.Config, stats *dynamo.Stats) (float64, error) {
	n := len(y0)
	rms := func(v func(i int) float64) float64 {
		sum := 0.0
		for i := 0; i < n; i++ {
			x := v(i)
			sum += x * x
		}
		return math.Sqrt(sum / float64(n))
	}
	scale := make([]float64, n)
	for i := range scale {
		scale[i] = cfg.ATol + math.Abs(y0[i])*cfg.RTol
	}

	d0 := rms(func(i int) float64 { return y0[i] / scale[i] })
	d1 := rms(func(i int) float64 { return f0[i] / scale[i] })

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, t1-t0)

	y1 := make(dynamo.State, n)
	for i := range y1 {
		y1[i] = y0[i] + h0*f0[i]
	}
	f1, err := sys.Derive(y1, t0+h0)
	stats.Evaluations++
	if err != nil {
		return 0, err
	}
	d2 := rms(func(i int) float64 { return (f1[i] - f0[i]) / scale[i] }) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/float64(r.tab.ErrorOrder+1))
	}

	return math.Min(math.Min(100*h0, h1), math.Min(t1-t0, cfg.MaxStepOrInf())), nil
}
