package sweep

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/leptosim/internal/leptogenesis"
)

func coarseConfig() leptogenesis.Config {
	cfg := leptogenesis.DefaultConfig()
	cfg.Grid = leptogenesis.GridConfig{Points: 60, Min: 1e-3, Max: 50}
	cfg.ZMax = 1.5
	cfg.Distribution.Solver.MaxStep = 1.0 / 50
	cfg.Asymmetry.Solver.RTol = 1e-5
	cfg.Asymmetry.Solver.ATol = 1e-13
	cfg.Asymmetry.Samples = 10
	return cfg
}

var _ = Describe("Runner", func() {
	var (
		ctx    context.Context
		points []Point
	)

	BeforeEach(func() {
		ctx = context.Background()
		points = Grid([]float64{0.5, 1, 2, 4, 8, 16}, [3]float64{1e-6, 0, 0})
	})

	Context("with a stub solver", func() {
		It("returns results in input order", func() {
			r := NewRunner(coarseConfig(), 3)
			r.solve = func(_ context.Context, p Point, _ leptogenesis.Config) (Result, error) {
				time.Sleep(time.Duration(20-int(p.K)) * time.Millisecond)
				return Result{Point: p, EtaB: p.K * 10}, nil
			}

			results, err := r.Run(ctx, points)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(len(points)))
			for i, res := range results {
				Expect(res.Point).To(Equal(points[i]))
				Expect(res.EtaB).To(Equal(points[i].K * 10))
			}
		})

		It("never exceeds the worker limit", func() {
			var inFlight, peak atomic.Int64
			r := NewRunner(coarseConfig(), 2)
			r.solve = func(_ context.Context, p Point, _ leptogenesis.Config) (Result, error) {
				n := inFlight.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return Result{Point: p}, nil
			}

			_, err := r.Run(ctx, points)
			Expect(err).NotTo(HaveOccurred())
			Expect(peak.Load()).To(BeNumerically("<=", 2))
		})

		It("reports progress for every point", func() {
			var mu sync.Mutex
			var seen []int
			r := NewRunner(coarseConfig(), 4)
			r.solve = func(_ context.Context, p Point, _ leptogenesis.Config) (Result, error) {
				return Result{Point: p}, nil
			}
			r.OnProgress(func(done, total int) {
				mu.Lock()
				defer mu.Unlock()
				Expect(total).To(Equal(len(points)))
				seen = append(seen, done)
			})

			_, err := r.Run(ctx, points)
			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(ConsistOf(1, 2, 3, 4, 5, 6))
		})

		It("stops on the first failure and names the point", func() {
			boom := errors.New("boom")
			var started atomic.Int64
			r := NewRunner(coarseConfig(), 1)
			r.solve = func(ctx context.Context, p Point, _ leptogenesis.Config) (Result, error) {
				started.Add(1)
				if p.K == 1 {
					return Result{}, boom
				}
				return Result{Point: p}, nil
			}

			_, err := r.Run(ctx, points)
			Expect(err).To(MatchError(boom))
			Expect(err.Error()).To(ContainSubstring("K=1"))
			Expect(started.Load()).To(BeNumerically("<", int64(len(points))))
		})

		It("honours cancellation", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			r := NewRunner(coarseConfig(), 2)
			r.solve = func(ctx context.Context, p Point, _ leptogenesis.Config) (Result, error) {
				return Result{Point: p}, nil
			}

			_, err := r.Run(cctx, points)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("with real models", func() {
		It("matches independent sequential solves", func() {
			cfg := coarseConfig()
			pts := Grid([]float64{1, 3}, [3]float64{1e-6, 0, 0})

			results, err := NewRunner(cfg, 2).Run(ctx, pts)
			Expect(err).NotTo(HaveOccurred())

			for i, p := range pts {
				m, err := leptogenesis.New(ctx, p.Source(), cfg)
				Expect(err).NotTo(HaveOccurred())
				eta, err := m.EtaB(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(results[i].EtaB).To(Equal(eta))
				Expect(results[i].Trajectory.Len()).To(Equal(10))
			}
			Expect(results[0].EtaB).NotTo(Equal(results[1].EtaB))
		})
	})
})
