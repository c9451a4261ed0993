package leptogenesis

import (
	"fmt"
	"math"

	"github.com/san-kum/leptosim/internal/dynamo"
)

// ParameterSource supplies the physical inputs of a model.
type ParameterSource interface {
	// EpsilonFlavour is the CP asymmetry matrix element eps_ij, flavours
	// indexed e=0, mu=1, tau=2.
	EpsilonFlavour(i, j int) complex128
	// WashoutParameter is the decay parameter K.
	WashoutParameter() float64
	DecayD(k, z float64) complex128
	WashoutW(k, z float64) complex128
	EquilibriumAbundance(z float64) float64
}

// FixedSource is a ParameterSource backed by fixed values. D, W and N_eq use
// the standard one-flavour expressions in terms of K_1 and K_2.
type FixedSource struct {
	K   float64
	Eps [3][3]complex128
}

// Diagonal returns a FixedSource with a diagonal CP asymmetry matrix.
func Diagonal(k, epsEE, epsMM, epsTT float64) *FixedSource {
	s := &FixedSource{K: k}
	s.Eps[0][0] = complex(epsEE, 0)
	s.Eps[1][1] = complex(epsMM, 0)
	s.Eps[2][2] = complex(epsTT, 0)
	return s
}

func (s *FixedSource) EpsilonFlavour(i, j int) complex128 {
	if i < 0 || i > 2 || j < 0 || j > 2 {
		return 0
	}
	return s.Eps[i][j]
}

func (s *FixedSource) WashoutParameter() float64 { return s.K }

// DecayD is K z K_1(z)/K_2(z).
func (s *FixedSource) DecayD(k, z float64) complex128 {
	k1, err1 := BesselK(1, z)
	k2, err2 := BesselK(2, z)
	if err1 != nil || err2 != nil {
		return complex(math.NaN(), 0)
	}
	return complex(k*z*k1/k2, 0)
}

// WashoutW is the inverse-decay washout K z^3 K_1(z) / 4.
func (s *FixedSource) WashoutW(k, z float64) complex128 {
	k1, err := BesselK(1, z)
	if err != nil {
		return complex(math.NaN(), 0)
	}
	return complex(0.25*k*z*z*z*k1, 0)
}

// EquilibriumAbundance is 3/8 z^2 K_2(z).
func (s *FixedSource) EquilibriumAbundance(z float64) float64 {
	k2, err := BesselK(2, z)
	if err != nil {
		return math.NaN()
	}
	return 0.375 * z * z * k2
}

// TotalEpsilon is the flavour-summed CP asymmetry Re(eps_ee + eps_mm + eps_tt).
func TotalEpsilon(src ParameterSource) float64 {
	return real(src.EpsilonFlavour(0, 0)) + real(src.EpsilonFlavour(1, 1)) + real(src.EpsilonFlavour(2, 2))
}

func errBesselDomain(z float64) error {
	return fmt.Errorf("%w: Bessel K needs z > 0, got %g", dynamo.ErrParameterBounds, z)
}
