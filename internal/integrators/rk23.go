package integrators

// Bogacki-Shampine coefficients (RK23)
var rk23Tableau = &Tableau{
	Name:       "RK23",
	Order:      3,
	ErrorOrder: 2,
	C:          []float64{0, 1.0 / 2.0, 3.0 / 4.0},
	A: [][]float64{
		{},
		{1.0 / 2.0},
		{0, 3.0 / 4.0},
	},
	B: []float64{2.0 / 9.0, 1.0 / 3.0, 4.0 / 9.0},
	E: []float64{5.0 / 72.0, -1.0 / 12.0, -1.0 / 9.0, 1.0 / 8.0},
	P: [][]float64{
		{1, -4.0 / 3.0, 5.0 / 9.0},
		{0, 1, -2.0 / 3.0},
		{0, 4.0 / 3.0, -8.0 / 9.0},
		{0, -1, 1},
	},
}

// NewRK23 returns the Bogacki-Shampine 3(2) solver with cubic dense output.
func NewRK23() *RK {
	return newRK(rk23Tableau)
}
