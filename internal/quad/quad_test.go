package quad

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func tight() Settings {
	s := DefaultSettings()
	s.AbsTol = 1e-12
	s.RelTol = 1e-12
	s.Limit = 200
	return s
}

func TestIntegrateKnownIntegrals(t *testing.T) {
	tests := []struct {
		name string
		f    func(float64) float64
		a, b float64
		want float64
	}{
		{"sin", math.Sin, 0, math.Pi, 2},
		{"cubic", func(x float64) float64 { return x * x * x }, 0, 2, 4},
		{"exp decay", func(x float64) float64 { return math.Exp(-x) }, 0, 300, 1},
		{"kink", func(x float64) float64 { return math.Abs(x - 0.3) }, 0, 1, 0.29},
		{"sqrt", math.Sqrt, 0, 1, 2.0 / 3.0},
		{"gaussian", func(x float64) float64 { return math.Exp(-x * x) }, -10, 10, math.Sqrt(math.Pi)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			res, err := Integrate(tt.f, tt.a, tt.b, tight())
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(res.Value).To(BeNumerically("~", tt.want, 1e-10))
			g.Expect(res.AbsErr).To(BeNumerically("<=", 1e-10))
			g.Expect(res.Evaluations).To(BeNumerically(">=", GK21.Points()))
		})
	}
}

func TestIntegrateReversedLimits(t *testing.T) {
	g := NewWithT(t)

	fwd, err := Integrate(math.Exp, 0, 1, tight())
	g.Expect(err).NotTo(HaveOccurred())
	rev, err := Integrate(math.Exp, 1, 0, tight())
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(rev.Value).To(Equal(-fwd.Value))
	g.Expect(fwd.Value).To(BeNumerically("~", math.E-1, 1e-12))
}

func TestIntegrateEmptyInterval(t *testing.T) {
	g := NewWithT(t)
	calls := 0
	res, err := Integrate(func(x float64) float64 { calls++; return x }, 2, 2, tight())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Value).To(BeZero())
	g.Expect(calls).To(BeZero())
}

func TestIntegrateLimit(t *testing.T) {
	g := NewWithT(t)
	s := tight()
	s.Limit = 2

	res, err := Integrate(func(x float64) float64 { return math.Sin(1000 * x) }, 0, 3, s)
	g.Expect(errors.Is(err, ErrLimit)).To(BeTrue())
	g.Expect(res.Intervals).To(Equal(2))
	g.Expect(res.AbsErr).To(BeNumerically(">", s.AbsTol))
}

func TestIntegrateNaN(t *testing.T) {
	g := NewWithT(t)
	_, err := Integrate(func(x float64) float64 { return math.NaN() }, 0, 1, tight())
	g.Expect(errors.Is(err, ErrNaN)).To(BeTrue())
}

func TestRulesAgree(t *testing.T) {
	g := NewWithT(t)
	f := func(x float64) float64 { return x * math.Exp(-x) / math.Sqrt(1+x*x) }

	s15 := tight()
	s15.Rule = GK15
	r15, err := Integrate(f, 0, 50, s15)
	g.Expect(err).NotTo(HaveOccurred())

	r21, err := Integrate(f, 0, 50, tight())
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(r15.Value).To(BeNumerically("~", r21.Value, 1e-11))
	g.Expect(GK15.Points()).To(Equal(15))
	g.Expect(GK21.Points()).To(Equal(21))
}

func TestRuleWeightsSumToTwo(t *testing.T) {
	for _, r := range []Rule{GK15, GK21} {
		n := len(r.Xgk) - 1
		kronrod := r.Wgk[n]
		gauss := r.GaussCentre
		for j := 0; j < n; j++ {
			kronrod += 2 * r.Wgk[j]
			if j%2 == 1 {
				gauss += 2 * r.Wg[j/2]
			}
		}
		if math.Abs(kronrod-2) > 1e-14 || math.Abs(gauss-2) > 1e-14 {
			t.Errorf("%s weights sum to %v (kronrod) and %v (gauss)", r.Name, kronrod, gauss)
		}
	}
}
