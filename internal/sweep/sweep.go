// Package sweep solves many independent parameter points concurrently. Every
// point builds its own model, so no evaluation cache is shared between
// goroutines.
package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/san-kum/leptosim/internal/asymmetry"
	"github.com/san-kum/leptosim/internal/leptogenesis"
	"golang.org/x/sync/errgroup"
)

// Point is one (K, eps) parameter set. Eps holds the diagonal flavour
// asymmetries ee, mm, tt.
type Point struct {
	K   float64
	Eps [3]float64
}

func (p Point) Source() *leptogenesis.FixedSource {
	return leptogenesis.Diagonal(p.K, p.Eps[0], p.Eps[1], p.Eps[2])
}

func (p Point) String() string {
	return fmt.Sprintf("K=%g eps=%g", p.K, p.Eps[0]+p.Eps[1]+p.Eps[2])
}

// Grid builds one point per K value with the same asymmetries.
func Grid(ks []float64, eps [3]float64) []Point {
	points := make([]Point, len(ks))
	for i, k := range ks {
		points[i] = Point{K: k, Eps: eps}
	}
	return points
}

type Result struct {
	Point      Point
	EtaB       float64
	Trajectory *asymmetry.Trajectory
}

type solveFunc func(ctx context.Context, p Point, cfg leptogenesis.Config) (Result, error)

type Runner struct {
	cfg      leptogenesis.Config
	workers  int
	log      *slog.Logger
	solve    solveFunc
	progress func(done, total int)
}

// NewRunner runs at most workers points at once; workers < 1 means
// GOMAXPROCS.
func NewRunner(cfg leptogenesis.Config, workers int) *Runner {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{cfg: cfg, workers: workers, log: log, solve: solveModel}
}

// OnProgress registers a callback invoked after each finished point. It may be
// called from several goroutines.
func (r *Runner) OnProgress(fn func(done, total int)) {
	r.progress = fn
}

func (r *Runner) Workers() int { return r.workers }

// Run solves every point and returns results in input order. The first
// failure cancels the remaining points.
func (r *Runner) Run(ctx context.Context, points []Point) ([]Result, error) {
	results := make([]Result, len(points))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, p := range points {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.solve(gctx, p, r.cfg)
			if err != nil {
				r.log.Error("sweep.point.failed", "point", p.String(), "err", err)
				return fmt.Errorf("%s: %w", p, err)
			}
			results[i] = res
			n := done.Add(1)
			r.log.Info("sweep.point.done", "point", p.String(), "eta_b", res.EtaB, "done", n, "total", len(points))
			if r.progress != nil {
				r.progress(int(n), len(points))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func solveModel(ctx context.Context, p Point, cfg leptogenesis.Config) (Result, error) {
	m, err := leptogenesis.New(ctx, p.Source(), cfg)
	if err != nil {
		return Result{}, err
	}
	traj, err := m.Asymmetry(ctx)
	if err != nil {
		return Result{}, err
	}
	eta, err := m.EtaB(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Point: p, EtaB: eta, Trajectory: traj}, nil
}
