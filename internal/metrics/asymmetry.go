package metrics

import (
	"math"

	"github.com/san-kum/leptosim/internal/dynamo"
)

// PeakAbs tracks the largest |x[0]| seen and where it occurred.
type PeakAbs struct {
	name  string
	peak  float64
	at    float64
	valid bool
}

func NewPeakAbs() *PeakAbs {
	return &PeakAbs{name: "peak_abs_nl"}
}

func (p *PeakAbs) Name() string { return p.name }

func (p *PeakAbs) Observe(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	if v := math.Abs(x[0]); !p.valid || v > p.peak {
		p.peak, p.at, p.valid = v, t, true
	}
}

func (p *PeakAbs) Value() float64 { return p.peak }

// At is the z of the peak.
func (p *PeakAbs) At() float64 { return p.at }

func (p *PeakAbs) Reset() {
	p.peak, p.at, p.valid = 0, 0, false
}

// SignChanges counts how often x[0] crosses zero.
type SignChanges struct {
	name    string
	last    float64
	changes int
}

func NewSignChanges() *SignChanges {
	return &SignChanges{name: "sign_changes"}
}

func (s *SignChanges) Name() string { return s.name }

func (s *SignChanges) Observe(x dynamo.State, t float64) {
	if len(x) == 0 || x[0] == 0 {
		return
	}
	if s.last != 0 && math.Signbit(s.last) != math.Signbit(x[0]) {
		s.changes++
	}
	s.last = x[0]
}

func (s *SignChanges) Value() float64 { return float64(s.changes) }

func (s *SignChanges) Reset() {
	s.last = 0
	s.changes = 0
}
