package leptogenesis

import (
	"math"

	"github.com/san-kum/leptosim/internal/quad"
)

var besselSettings = quad.Settings{
	AbsTol: 0,
	RelTol: 1e-12,
	Limit:  100,
	Rule:   quad.GK21,
}

// BesselK evaluates the modified Bessel function of the second kind K_n(z)
// for z > 0 from its integral representation
//
//	K_n(z) = ∫_0^∞ exp(-z cosh t) cosh(n t) dt.
//
// The integral is cut where z cosh t exceeds z + 60.
func BesselK(n int, z float64) (float64, error) {
	if !(z > 0) {
		return math.NaN(), errBesselDomain(z)
	}
	nf := float64(n)
	upper := math.Acosh(1+60/z) + 1
	res, err := quad.Integrate(func(t float64) float64 {
		return math.Exp(-z*math.Cosh(t)) * math.Cosh(nf*t)
	}, 0, upper, besselSettings)
	return res.Value, err
}
