package kinetic

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/grid"
	"github.com/san-kum/leptosim/internal/integrators"
)

// Phase is the lifecycle stage of a Calculator.
type Phase int

const (
	Uninitialized Phase = iota
	Solving
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Solving:
		return "solving"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Options configures the distribution solve.
type Options struct {
	TMin   float64
	TMax   float64
	Method string
	Solver dynamo.Config
	Logger *slog.Logger
}

func DefaultOptions() Options {
	cfg := dynamo.DefaultConfig()
	cfg.MaxStep = 1.0 / 300.0
	return Options{
		TMin:   0.1,
		TMax:   10,
		Method: "RK45",
		Solver: cfg,
	}
}

// Calculator owns the momentum grid and the solved distribution f_N(z, y_i).
type Calculator struct {
	grid  *grid.Momentum
	k     float64
	opts  Options
	phase Phase
	sol   *integrators.DenseSolution
	log   *slog.Logger

	// single-slot cache of the dense output at currZ
	currZ      float64
	cached     bool
	fN         dynamo.State
	recomputes int
}

// NewCalculator integrates the distribution for washout parameter k over
// [opts.TMin, opts.TMax] starting from f_N = 0 and returns a ready
// Calculator.
func NewCalculator(ctx context.Context, g *grid.Momentum, k float64, opts Options) (*Calculator, error) {
	if !(k > 0) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("%w: washout parameter K=%g must be positive", dynamo.ErrParameterBounds, k)
	}
	if !(opts.TMax > opts.TMin) || !(opts.TMin > 0) {
		return nil, fmt.Errorf("%w: z range [%g, %g]", dynamo.ErrParameterBounds, opts.TMin, opts.TMax)
	}

	c := &Calculator{
		grid: g,
		k:    k,
		opts: opts,
		log:  opts.Logger,
		fN:   make(dynamo.State, g.Len()),
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := c.solve(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Calculator) solve(ctx context.Context) error {
	c.phase = Solving
	start := time.Now()

	integ, err := integrators.Lookup(c.opts.Method)
	if err != nil {
		c.phase = Failed
		return err
	}

	sys := &relaxation{y: c.grid.Values(), k: c.k}
	y0 := make(dynamo.State, c.grid.Len())

	sol, err := integ.Solve(ctx, sys, c.opts.TMin, c.opts.TMax, y0, c.opts.Solver)
	if err != nil {
		c.phase = Failed
		c.log.Error("distribution.failed", "K", c.k, "err", err)
		return dynamo.WithParams(err, map[string]float64{"K": c.k})
	}

	c.sol = sol
	c.phase = Ready
	c.log.Info("distribution.solved",
		"K", c.k,
		"method", sol.Method(),
		"grid", c.grid.Len(),
		"steps", sol.Stats.Accepted,
		"rejected", sol.Stats.Rejected,
		"elapsed", time.Since(start),
	)
	return nil
}

// Evaluate returns f_N(z, y). The dense output is recomputed only when z
// differs from the previous call. Momenta at or above the top of the grid
// return 0; momenta below the first grid point take the first grid value.
func (c *Calculator) Evaluate(z, y float64) (float64, error) {
	if c.phase != Ready {
		return 0, dynamo.ErrNotReady
	}
	if !c.cached || z != c.currZ {
		if err := c.sol.AtInto(c.fN, z); err != nil {
			c.cached = false
			return 0, err
		}
		c.currZ = z
		c.cached = true
		c.recomputes++
	}

	ys := c.grid.Values()
	last := len(ys) - 1
	if y >= ys[last] {
		return 0, nil
	}
	if y <= ys[0] {
		return c.fN[0], nil
	}

	i := c.grid.IndexBelow(y)
	if i < 0 {
		i = 0
	} else if i > last-1 {
		i = last - 1
	}
	return grid.Interpolate(y, ys[i], ys[i+1], c.fN[i], c.fN[i+1]), nil
}

// Snapshot returns a copy of the distribution over the grid at z. It does not
// touch the evaluation cache.
func (c *Calculator) Snapshot(z float64) (dynamo.State, error) {
	if c.phase != Ready {
		return nil, dynamo.ErrNotReady
	}
	return c.sol.At(z)
}

// NumberDensity returns the momentum-integrated, normalised RHN abundance at
// each z.
func (c *Calculator) NumberDensity(zs []float64) ([]float64, error) {
	if c.phase != Ready {
		return nil, dynamo.ErrNotReady
	}
	values := make([][]float64, c.grid.Len())
	for i := range values {
		values[i] = make([]float64, len(zs))
	}
	f := make(dynamo.State, c.grid.Len())
	for j, z := range zs {
		if err := c.sol.AtInto(f, z); err != nil {
			return nil, err
		}
		for i, v := range f {
			values[i][j] = v
		}
	}
	return Normalize(values, c.grid.Values())
}

func (c *Calculator) Phase() Phase { return c.phase }

func (c *Calculator) K() float64 { return c.k }

func (c *Calculator) Grid() *grid.Momentum { return c.grid }

// Bounds is the z range of the solved distribution.
func (c *Calculator) Bounds() (float64, float64) { return c.opts.TMin, c.opts.TMax }

// Solution exposes the dense solution, nil until the solve completes.
func (c *Calculator) Solution() *integrators.DenseSolution { return c.sol }

// Recomputes counts how often Evaluate had to evaluate the dense output.
func (c *Calculator) Recomputes() int { return c.recomputes }

// relaxation is the right-hand side of the coupled distribution system.
type relaxation struct {
	y []float64
	k float64
}

func (r *relaxation) StateDim() int { return len(r.y) }

func (r *relaxation) Derive(f dynamo.State, z float64) (dynamo.State, error) {
	df := make(dynamo.State, len(f))
	z2k := z * z * r.k
	for i, y := range r.y {
		e := math.Sqrt(z*z + y*y)
		df[i] = (z2k / e) * (math.Exp(-e) - f[i])
	}
	return df, nil
}
