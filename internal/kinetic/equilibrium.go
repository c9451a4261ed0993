package kinetic

import (
	"fmt"
	"math"

	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/grid"
	"gonum.org/v1/gonum/integrate"
)

// PhaseSpaceNorm converts a momentum integral of y^2 f into a number density
// normalised to one in equilibrium.
const PhaseSpaceNorm = 3.0 / 8.0

// EquilibriumDensity is the Fermi-Dirac occupation 1/(exp(e)+1) at energy
// e = sqrt(z^2 + y^2).
func EquilibriumDensity(z, y float64) float64 {
	e := math.Sqrt(z*z + y*y)
	return 1 / (math.Exp(e) + 1)
}

// BoltzmannDensity is the Maxwell-Boltzmann occupation exp(-e).
func BoltzmannDensity(e float64) float64 {
	return math.Exp(-e)
}

// Normalize integrates values[i][j] * y_i^2 * 3/8 over the momentum axis with
// Simpson's rule, returning one number density per column j.
func Normalize(values [][]float64, y []float64) ([]float64, error) {
	if len(values) != len(y) {
		return nil, fmt.Errorf("%w: %d momentum rows for %d grid points", dynamo.ErrDimensionMismatch, len(values), len(y))
	}
	if len(y) < 3 {
		return nil, fmt.Errorf("%w: Simpson's rule needs 3 points, got %d", dynamo.ErrParameterBounds, len(y))
	}

	cols := len(values[0])
	for i, row := range values {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", dynamo.ErrDimensionMismatch, i, len(row), cols)
		}
	}

	out := make([]float64, cols)
	integrand := make([]float64, len(y))
	for j := 0; j < cols; j++ {
		for i, yi := range y {
			integrand[i] = values[i][j] * yi * yi * PhaseSpaceNorm
		}
		out[j] = integrate.Simpsons(y, integrand)
	}
	return out, nil
}

// EquilibriumNumberDensity returns the normalised equilibrium RHN number
// density at each z, integrated over the momentum grid.
func EquilibriumNumberDensity(zs []float64, g *grid.Momentum) ([]float64, error) {
	ys := g.Values()
	values := make([][]float64, len(ys))
	for i, y := range ys {
		values[i] = make([]float64, len(zs))
		for j, z := range zs {
			values[i][j] = EquilibriumDensity(z, y)
		}
	}
	return Normalize(values, ys)
}
