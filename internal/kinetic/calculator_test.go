package kinetic

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/grid"
)

const testK = 2.2778530535805257

func testOptions() Options {
	opts := DefaultOptions()
	opts.TMax = 5
	opts.Solver.MaxStep = 1.0 / 50
	return opts
}

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	g, err := grid.NewLog(60, 1e-3, 50)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCalculator(context.Background(), g, testK, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCalculatorInitialCondition(t *testing.T) {
	g := NewWithT(t)
	c := newTestCalculator(t)

	g.Expect(c.Phase()).To(Equal(Ready))
	for _, y := range []float64{1e-3, 0.1, 1, 10, 40} {
		v, err := c.Evaluate(0.1, y)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(v).To(Equal(0.0), "f_N at z_min, y=%g", y)
	}
}

func TestCalculatorBounded(t *testing.T) {
	g := NewWithT(t)
	c := newTestCalculator(t)
	tMin, _ := c.Bounds()

	for _, z := range []float64{0.5, 1, 2, 3.5, 5} {
		for _, y := range []float64{1e-3, 0.05, 0.3, 1, 3, 10, 30} {
			v, err := c.Evaluate(z, y)
			g.Expect(err).NotTo(HaveOccurred())
			// f_N relaxes from zero toward a decreasing target, so it never
			// exceeds the largest equilibrium value it has seen.
			upper := BoltzmannDensity(math.Sqrt(tMin*tMin+y*y))
			g.Expect(v).To(BeNumerically(">=", -1e-9), "z=%g y=%g", z, y)
			g.Expect(v).To(BeNumerically("<=", upper*(1+1e-3)+1e-9), "z=%g y=%g", z, y)
		}
	}
}

func TestCalculatorApproachesEquilibrium(t *testing.T) {
	g := NewWithT(t)
	c := newTestCalculator(t)

	for _, y := range []float64{0.1, 0.5, 1} {
		v, err := c.Evaluate(5, y)
		g.Expect(err).NotTo(HaveOccurred())
		ratio := v / BoltzmannDensity(math.Sqrt(25+y*y))
		g.Expect(ratio).To(BeNumerically(">", 0.5), "y=%g", y)
		g.Expect(ratio).To(BeNumerically("<", 3), "y=%g", y)
	}
}

func TestCalculatorCache(t *testing.T) {
	g := NewWithT(t)
	c := newTestCalculator(t)

	a, err := c.Evaluate(1.7, 0.4)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.Recomputes()).To(Equal(1))

	b, err := c.Evaluate(1.7, 0.4)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(b).To(Equal(a))
	g.Expect(c.Recomputes()).To(Equal(1))

	_, err = c.Evaluate(1.7, 2.0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.Recomputes()).To(Equal(1))

	_, err = c.Evaluate(1.8, 0.4)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(c.Recomputes()).To(Equal(2))
}

func TestCalculatorGridEdges(t *testing.T) {
	g := NewWithT(t)
	c := newTestCalculator(t)

	snap, err := c.Snapshot(2)
	g.Expect(err).NotTo(HaveOccurred())

	top, err := c.Evaluate(2, c.Grid().Max())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(top).To(Equal(0.0))

	beyond, err := c.Evaluate(2, 1e3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(beyond).To(Equal(0.0))

	for _, y := range []float64{0, 1e-10, 5e-4} {
		v, err := c.Evaluate(2, y)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(v).To(Equal(snap[0]), "y=%g", y)
	}

	v, err := c.Evaluate(2, c.Grid().At(10))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(BeNumerically("~", snap[10], 1e-12))
}

func TestCalculatorOutsideSpan(t *testing.T) {
	c := newTestCalculator(t)
	if _, err := c.Evaluate(50, 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds outside the solved span, got %v", err)
	}
}

func TestCalculatorDeterministic(t *testing.T) {
	g := NewWithT(t)
	a := newTestCalculator(t)
	b := newTestCalculator(t)

	g.Expect(a.Solution().Times()).To(Equal(b.Solution().Times()))
	for _, z := range []float64{0.3, 1, 4.2} {
		sa, err := a.Snapshot(z)
		g.Expect(err).NotTo(HaveOccurred())
		sb, err := b.Snapshot(z)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(sa).To(Equal(sb))
	}
}

func TestCalculatorNotReady(t *testing.T) {
	var c Calculator
	if c.Phase() != Uninitialized {
		t.Errorf("zero Calculator phase = %v", c.Phase())
	}
	if _, err := c.Evaluate(1, 1); !errors.Is(err, dynamo.ErrNotReady) {
		t.Errorf("Evaluate: expected ErrNotReady, got %v", err)
	}
	if _, err := c.Snapshot(1); !errors.Is(err, dynamo.ErrNotReady) {
		t.Errorf("Snapshot: expected ErrNotReady, got %v", err)
	}
	if _, err := c.NumberDensity([]float64{1}); !errors.Is(err, dynamo.ErrNotReady) {
		t.Errorf("NumberDensity: expected ErrNotReady, got %v", err)
	}
}

func TestCalculatorSolveFailure(t *testing.T) {
	g, err := grid.NewLog(20, 1e-3, 50)
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions()
	opts.Solver.MaxSteps = 3

	_, err = NewCalculator(context.Background(), g, testK, opts)
	if !errors.Is(err, dynamo.ErrSolveFailure) {
		t.Fatalf("expected ErrSolveFailure, got %v", err)
	}
	var se *dynamo.SolveError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SolveError, got %T", err)
	}
	if se.Params["K"] != testK {
		t.Errorf("SolveError params = %v", se.Params)
	}
}

func TestCalculatorInvalidParameters(t *testing.T) {
	g, err := grid.NewLog(20, 1e-3, 50)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		k    float64
		opts func(*Options)
	}{
		{"zero K", 0, func(*Options) {}},
		{"negative K", -1, func(*Options) {}},
		{"NaN K", math.NaN(), func(*Options) {}},
		{"empty range", testK, func(o *Options) { o.TMax = o.TMin }},
		{"zero start", testK, func(o *Options) { o.TMin = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.opts(&opts)
			if _, err := NewCalculator(context.Background(), g, tt.k, opts); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestCalculatorCancelled(t *testing.T) {
	g, err := grid.NewLog(20, 1e-3, 50)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCalculator(ctx, g, testK, testOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCalculatorNumberDensity(t *testing.T) {
	g := NewWithT(t)
	c := newTestCalculator(t)

	zs := []float64{0.1, 0.5, 1, 2, 5}
	n, err := c.NumberDensity(zs)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(n).To(HaveLen(len(zs)))
	g.Expect(n[0]).To(Equal(0.0))
	for _, v := range n[1:] {
		g.Expect(v).To(BeNumerically(">", 0))
	}
	g.Expect(n[1]).To(BeNumerically(">", n[0]))
}
