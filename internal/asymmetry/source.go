// Package asymmetry evolves the net lepton number N_l sourced by the decays
// and inverse decays of a right-handed neutrino whose momentum distribution
// is known only numerically.
package asymmetry

import (
	"math"

	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/quad"
)

// Distribution answers f_N(z, y) queries.
type Distribution interface {
	Evaluate(z, y float64) (float64, error)
}

// SourceOptions holds the integration cutoffs and quadrature settings of the
// collision term.
type SourceOptions struct {
	LowerY float64
	UpperY float64
	Quad   quad.Settings
}

func DefaultSourceOptions() SourceOptions {
	return SourceOptions{
		LowerY: 1e-10,
		UpperY: 300,
		Quad: quad.Settings{
			AbsTol: 1e-10,
			RelTol: 1e-10,
			Limit:  1000,
			Rule:   quad.GK21,
		},
	}
}

// Source is the right-hand side of the N_l equation. It is not safe for
// concurrent use because the distribution it samples caches by z.
type Source struct {
	dist Distribution
	k    float64
	eps  float64
	opts SourceOptions

	evaluations int
}

func NewSource(dist Distribution, k, eps float64, opts SourceOptions) *Source {
	return &Source{dist: dist, k: k, eps: eps, opts: opts}
}

func (s *Source) K() float64 { return s.k }

func (s *Source) Epsilon() float64 { return s.eps }

// Evaluations counts calls to RHS.
func (s *Source) Evaluations() int { return s.evaluations }

func (s *Source) params() map[string]float64 {
	return map[string]float64{"K": s.k, "eps": s.eps}
}

// InnerLowerLimit is the kinematic threshold on the RHN momentum for a lepton
// of momentum yl. yl must be positive.
func InnerLowerLimit(z, yl float64) float64 {
	return math.Abs((-z*z + 4*yl*yl) / (4 * yl))
}

// Inner integrates the collision kernel over the RHN momentum for lepton
// momentum yl. A threshold above the upper cutoff yields the negated integral
// over the reversed interval.
func (s *Source) Inner(z, yl, nl float64) (float64, error) {
	var evalErr error
	integrand := func(yn float64) float64 {
		if evalErr != nil {
			return 0
		}
		en := math.Sqrt(z*z + yn*yn)
		fN, err := s.dist.Evaluate(z, math.Abs(yn))
		if err != nil {
			evalErr = err
			return 0
		}
		fEq := math.Exp(-en)
		p1 := (yn / en) * (4.0 / 3.0) * nl * fEq
		p2 := (yn / en) * (-2 * s.eps * (fN - fEq))
		return p1 + p2
	}

	res, err := quad.Integrate(integrand, InnerLowerLimit(z, yl), s.opts.UpperY, s.opts.Quad)
	if evalErr != nil {
		return 0, evalErr
	}
	if err != nil {
		return 0, &dynamo.QuadratureError{
			Op:       "inner",
			Z:        z,
			Y:        yl,
			Params:   s.params(),
			Estimate: res.Value,
			AbsErr:   res.AbsErr,
			Wrapped:  err,
		}
	}
	return res.Value, nil
}

// Outer integrates Inner over the lepton momentum.
func (s *Source) Outer(z, nl float64) (float64, error) {
	var innerErr error
	integrand := func(yl float64) float64 {
		if innerErr != nil {
			return 0
		}
		v, err := s.Inner(z, yl, nl)
		if err != nil {
			innerErr = err
			return 0
		}
		return v
	}

	res, err := quad.Integrate(integrand, s.opts.LowerY, s.opts.UpperY, s.opts.Quad)
	if innerErr != nil {
		return 0, innerErr
	}
	if err != nil {
		return 0, &dynamo.QuadratureError{
			Op:       "outer",
			Z:        z,
			Params:   s.params(),
			Estimate: res.Value,
			AbsErr:   res.AbsErr,
			Wrapped:  err,
		}
	}
	return res.Value, nil
}

// RHS returns dN_l/dz = -z^2 K (3/16) Outer(z, N_l).
func (s *Source) RHS(z, nl float64) (float64, error) {
	s.evaluations++
	outer, err := s.Outer(z, nl)
	if err != nil {
		return 0, err
	}
	return -z * z * s.k * outer * (3.0 / 16.0), nil
}
