package integrators

// Tableau is an explicit embedded Runge-Kutta method with the first-same-as-last
// property. E and P carry one extra row for the stage evaluated at the new point.
type Tableau struct {
	Name       string
	Order      int
	ErrorOrder int
	C          []float64
	A          [][]float64
	B          []float64
	E          []float64
	P          [][]float64
}

func (t *Tableau) Stages() int { return len(t.B) }

// InterpolantOrder is the number of polynomial terms of the dense output.
func (t *Tableau) InterpolantOrder() int { return len(t.P[0]) }
