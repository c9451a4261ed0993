package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/leptosim/internal/dynamo"
)

func feed(obs dynamo.Observer, zs, xs []float64) {
	for i := range zs {
		obs.OnStep(dynamo.State{xs[i]}, zs[i])
	}
}

func TestPeakAbs(t *testing.T) {
	p := NewPeakAbs()
	set := NewSet(p)
	feed(set, []float64{0.1, 0.5, 1, 2}, []float64{0, -3e-8, 1e-8, 2e-8})

	if p.Value() != 3e-8 {
		t.Errorf("peak = %v, want 3e-8", p.Value())
	}
	if p.At() != 0.5 {
		t.Errorf("peak at %v, want 0.5", p.At())
	}

	p.Reset()
	if p.Value() != 0 || p.At() != 0 {
		t.Error("Reset did not clear peak")
	}
}

func TestSignChanges(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"constant sign", []float64{0, 1, 2, 3}, 0},
		{"one crossing", []float64{0, -1, -2, 1}, 1},
		{"zeros skipped", []float64{-1, 0, 0, 1, 0, -1}, 2},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSignChanges()
			for i, x := range tt.xs {
				s.Observe(dynamo.State{x}, float64(i))
			}
			if s.Value() != tt.want {
				t.Errorf("Value() = %v, want %v", s.Value(), tt.want)
			}
		})
	}
}

func TestStepMetrics(t *testing.T) {
	set := Standard()
	feed(set, []float64{0.1, 0.2, 0.25, 0.5}, []float64{0, 1, 2, 3})

	v := set.Values()
	if v["accepted_steps"] != 3 {
		t.Errorf("accepted_steps = %v, want 3", v["accepted_steps"])
	}
	if math.Abs(v["min_step"]-0.05) > 1e-15 {
		t.Errorf("min_step = %v, want 0.05", v["min_step"])
	}
	if v["peak_abs_nl"] != 3 {
		t.Errorf("peak_abs_nl = %v, want 3", v["peak_abs_nl"])
	}

	set.Reset()
	v = set.Values()
	for name, val := range v {
		if val != 0 {
			t.Errorf("%s = %v after Reset", name, val)
		}
	}
}
