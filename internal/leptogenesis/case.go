package leptogenesis

import (
	"fmt"
	"strings"

	"github.com/san-kum/leptosim/internal/dynamo"
)

// Case selects the kinetic treatment of the decaying neutrino.
type Case int

const (
	// CaseKineticEquilibrium assumes the neutrino follows its equilibrium
	// momentum shape (D1). Not implemented here.
	CaseKineticEquilibrium Case = iota + 1
	// CaseKineticNonEquilibrium tracks the full momentum distribution (D2).
	CaseKineticNonEquilibrium
)

func (c Case) String() string {
	switch c {
	case CaseKineticEquilibrium:
		return "D1"
	case CaseKineticNonEquilibrium:
		return "D2"
	default:
		return fmt.Sprintf("Case(%d)", int(c))
	}
}

// ParseCase accepts "D2", "d2", "case2" or "2".
func ParseCase(s string) (Case, error) {
	switch strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "case"), "d") {
	case "1":
		return CaseKineticEquilibrium, nil
	case "2":
		return CaseKineticNonEquilibrium, nil
	}
	return 0, fmt.Errorf("%w: unknown case %q", dynamo.ErrParameterBounds, s)
}

func (c Case) supported() bool { return c == CaseKineticNonEquilibrium }
