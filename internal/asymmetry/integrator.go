package asymmetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/integrators"
	"gonum.org/v1/gonum/floats"
)

// Options configures the N_l solve.
type Options struct {
	Method  string
	Solver  dynamo.Config
	Samples int
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	cfg := dynamo.DefaultConfig()
	cfg.RTol = 1e-10
	cfg.ATol = 1e-10
	return Options{
		Method:  "RK45",
		Solver:  cfg,
		Samples: 500,
	}
}

// Trajectory is N_l sampled on log-spaced z points.
type Trajectory struct {
	Z      []float64
	NL     []float64
	Method string
	Stats  dynamo.Stats
	// RHSEvaluations counts collision-term evaluations, each a full double
	// integral.
	RHSEvaluations int
	Elapsed        time.Duration
}

// Terminal is N_l at the end of the span.
func (t *Trajectory) Terminal() float64 {
	if len(t.NL) == 0 {
		return 0
	}
	return t.NL[len(t.NL)-1]
}

// Len returns the number of samples.
func (t *Trajectory) Len() int { return len(t.Z) }

type Integrator struct {
	src  *Source
	opts Options
	log  *slog.Logger
}

func NewIntegrator(src *Source, opts Options) *Integrator {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Integrator{src: src, opts: opts, log: log}
}

func (in *Integrator) Source() *Source { return in.src }

// SamplePoints returns n log-spaced points on [z0, z1] with both end points
// exact.
func SamplePoints(z0, z1 float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", dynamo.ErrParameterBounds, n)
	}
	if !(z0 > 0) || !(z1 > z0) {
		return nil, fmt.Errorf("%w: z span [%g, %g]", dynamo.ErrParameterBounds, z0, z1)
	}
	zs := floats.LogSpan(make([]float64, n), z0, z1)
	zs[0], zs[n-1] = z0, z1
	return zs, nil
}

// Integrate solves dN_l/dz from N_l(z0) = 0 to z1. Observers see every
// accepted step.
func (in *Integrator) Integrate(ctx context.Context, z0, z1 float64, observers ...dynamo.Observer) (*Trajectory, error) {
	zs, err := SamplePoints(z0, z1, in.opts.Samples)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.Lookup(in.opts.Method)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	evals0 := in.src.Evaluations()

	sys := dynamo.SystemFunc{Dim: 1, Fn: func(x dynamo.State, z float64) (dynamo.State, error) {
		dn, err := in.src.RHS(z, x[0])
		if err != nil {
			return nil, err
		}
		return dynamo.State{dn}, nil
	}}

	in.log.Info("asymmetry.start",
		"K", in.src.K(),
		"eps", in.src.Epsilon(),
		"z0", z0,
		"z1", z1,
		"method", integ.Name(),
	)

	sol, err := integ.Solve(ctx, sys, z0, z1, dynamo.State{0}, in.opts.Solver, observers...)
	if err != nil {
		in.log.Error("asymmetry.failed", "err", err)
		return nil, dynamo.WithParams(err, in.src.params())
	}

	traj := &Trajectory{
		Z:              zs,
		NL:             make([]float64, len(zs)),
		Method:         sol.Method(),
		Stats:          sol.Stats,
		RHSEvaluations: in.src.Evaluations() - evals0,
	}
	x := make(dynamo.State, 1)
	for i, z := range zs {
		if err := sol.AtInto(x, z); err != nil {
			return nil, err
		}
		traj.NL[i] = x[0]
	}
	traj.Elapsed = time.Since(start)

	in.log.Info("asymmetry.solved",
		"terminal", traj.Terminal(),
		"steps", traj.Stats.Accepted,
		"rejected", traj.Stats.Rejected,
		"rhs_evals", traj.RHSEvaluations,
		"elapsed", traj.Elapsed,
	)
	return traj, nil
}
