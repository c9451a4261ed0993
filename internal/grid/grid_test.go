package grid

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/san-kum/leptosim/internal/dynamo"
)

func TestNewLog(t *testing.T) {
	g := NewWithT(t)

	m, err := NewLog(500, 1e-3, 350)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(m.Len()).To(Equal(500))
	g.Expect(m.Min()).To(Equal(1e-3))
	g.Expect(m.Max()).To(Equal(350.0))
	g.Expect(m.DLogY0()).To(BeNumerically("~", -3, 1e-12))
	g.Expect(m.DLogY()).To(BeNumerically("~", (math.Log10(350)+3)/499, 1e-12))

	vals := m.Values()
	for i := 1; i < len(vals); i++ {
		g.Expect(vals[i]).To(BeNumerically(">", vals[i-1]))
		g.Expect(math.Log10(vals[i]) - math.Log10(vals[i-1])).To(BeNumerically("~", m.DLogY(), 1e-9))
	}
}

func TestNewLogInvalid(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		min, max float64
	}{
		{"too few points", 1, 1e-3, 350},
		{"zero min", 10, 0, 350},
		{"negative min", 10, -1, 350},
		{"reversed", 10, 350, 1e-3},
		{"infinite", 10, 1e-3, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLog(tt.n, tt.min, tt.max)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestFromValuesRejectsUnsorted(t *testing.T) {
	if _, err := FromValues([]float64{1, 3, 2}); err == nil {
		t.Error("expected error for unsorted grid")
	}
}

func TestIndexBelow(t *testing.T) {
	g := NewWithT(t)
	m, err := NewLog(500, 1e-3, 350)
	g.Expect(err).NotTo(HaveOccurred())

	for i := 0; i < m.Len()-1; i++ {
		mid := math.Sqrt(m.At(i) * m.At(i+1))
		idx := m.IndexBelow(mid)
		g.Expect(idx).To(Equal(i), "geometric midpoint of interval %d", i)
		g.Expect(m.At(idx)).To(BeNumerically("<=", mid))
		g.Expect(mid).To(BeNumerically("<", m.At(idx+1)))
	}

	g.Expect(m.IndexBelow(1e-4)).To(BeNumerically("<", 0))
	g.Expect(m.IndexBelow(1000)).To(BeNumerically(">=", m.Len()-1))
}

func TestInterpolateExactAtNodes(t *testing.T) {
	g := NewWithT(t)
	m, err := NewLog(50, 1e-3, 350)
	g.Expect(err).NotTo(HaveOccurred())

	f := func(y float64) float64 { return math.Exp(-y) }
	for i := 0; i < m.Len()-1; i++ {
		y1, y2 := m.At(i), m.At(i+1)
		g.Expect(Interpolate(y1, y1, y2, f(y1), f(y2))).To(Equal(f(y1)))
		g.Expect(Interpolate(y2, y1, y2, f(y1), f(y2))).To(BeNumerically("~", f(y2), 1e-15))
	}
	g.Expect(Interpolate(1.5, 1, 2, 10, 20)).To(Equal(15.0))
}
