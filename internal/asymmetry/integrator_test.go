package asymmetry

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/leptosim/internal/dynamo"
)

func fastOptions(samples int) Options {
	opts := DefaultOptions()
	opts.Solver.RTol = 1e-6
	opts.Solver.ATol = 1e-14
	opts.Samples = samples
	return opts
}

func TestSamplePoints(t *testing.T) {
	g := NewWithT(t)

	zs, err := SamplePoints(0.1, 10, 500)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(zs).To(HaveLen(500))
	g.Expect(zs[0]).To(Equal(0.1))
	g.Expect(zs[499]).To(Equal(10.0))
	for i := 1; i < len(zs); i++ {
		g.Expect(math.Log10(zs[i]) - math.Log10(zs[i-1])).To(BeNumerically("~", 2.0/499, 1e-12))
	}

	_, err = SamplePoints(0.1, 10, 1)
	g.Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	_, err = SamplePoints(0, 10, 10)
	g.Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
}

func TestIntegrateZeroEpsilon(t *testing.T) {
	g := NewWithT(t)
	src := NewSource(&scaledEquilibrium{scale: 0.5}, testK, 0, DefaultSourceOptions())

	traj, err := NewIntegrator(src, fastOptions(25)).Integrate(context.Background(), 0.1, 3)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(traj.Len()).To(Equal(25))
	for _, v := range traj.NL {
		g.Expect(v).To(BeZero())
	}
	g.Expect(traj.Terminal()).To(BeZero())
}

func TestIntegrateProducesAsymmetry(t *testing.T) {
	g := NewWithT(t)
	src := NewSource(&scaledEquilibrium{scale: 0.5}, testK, 1e-6, DefaultSourceOptions())

	steps := 0
	counter := dynamo.ObserverFunc(func(x dynamo.State, z float64) { steps++ })

	traj, err := NewIntegrator(src, fastOptions(20)).Integrate(context.Background(), 0.1, 2, counter)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(traj.Z[0]).To(Equal(0.1))
	g.Expect(traj.Z[19]).To(Equal(2.0))
	g.Expect(traj.NL[0]).To(BeZero())
	g.Expect(math.IsNaN(traj.Terminal())).To(BeFalse())
	g.Expect(traj.Terminal()).To(BeNumerically("<", 0))
	g.Expect(traj.Method).To(Equal("RK45"))
	g.Expect(steps).To(Equal(traj.Stats.Accepted + 1))
	g.Expect(traj.RHSEvaluations).To(Equal(traj.Stats.Evaluations))
}

func TestIntegrateCancelled(t *testing.T) {
	src := NewSource(&scaledEquilibrium{scale: 0.5}, testK, 1e-6, DefaultSourceOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewIntegrator(src, fastOptions(10)).Integrate(ctx, 0.1, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIntegratePropagatesQuadratureFailure(t *testing.T) {
	opts := DefaultSourceOptions()
	opts.Quad.Limit = 1
	opts.Quad.AbsTol = 1e-15
	opts.Quad.RelTol = 1e-15
	src := NewSource(&scaledEquilibrium{scale: 0.5}, testK, 1e-6, opts)

	_, err := NewIntegrator(src, fastOptions(10)).Integrate(context.Background(), 0.1, 2)
	if !errors.Is(err, dynamo.ErrQuadratureFailure) {
		t.Errorf("expected ErrQuadratureFailure, got %v", err)
	}
}

func TestIntegrateUnknownMethod(t *testing.T) {
	src := NewSource(&scaledEquilibrium{scale: 0.5}, testK, 1e-6, DefaultSourceOptions())
	opts := fastOptions(10)
	opts.Method = "LSODA"
	if _, err := NewIntegrator(src, opts).Integrate(context.Background(), 0.1, 2); err == nil {
		t.Error("expected error for unknown method")
	}
}
