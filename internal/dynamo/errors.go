package dynamo

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors for numerical operations.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrSolveFailure classifies every ODE solve that did not reach the end of its span.
	ErrSolveFailure = errors.New("dynamo: ODE solve failed")

	// ErrQuadratureFailure indicates an integral missed its requested tolerance.
	ErrQuadratureFailure = errors.New("dynamo: quadrature did not converge")

	// ErrNotReady indicates a query against a solver whose solve has not completed.
	ErrNotReady = errors.New("dynamo: solution not ready")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrMaxSteps indicates the step budget was exhausted before the end of the span.
	ErrMaxSteps = errors.New("dynamo: maximum number of steps exceeded")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates mismatched state dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SolveError wraps an ODE failure with the independent variable at which it
// happened and the parameters of the failing solve.
type SolveError struct {
	Op      string
	Time    float64
	Params  map[string]float64
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s: z=%.6g%s: %v", e.Op, e.Time, formatParams(e.Params), e.Wrapped)
}

func (e *SolveError) Unwrap() error { return e.Wrapped }

func (e *SolveError) Is(target error) bool { return target == ErrSolveFailure }

// QuadratureError reports an integral that failed to converge. Y is the outer
// integration variable for nested integrals and zero otherwise.
type QuadratureError struct {
	Op       string
	Z        float64
	Y        float64
	Params   map[string]float64
	Estimate float64
	AbsErr   float64
	Wrapped  error
}

func (e *QuadratureError) Error() string {
	return fmt.Sprintf("%s: z=%.6g y=%.6g%s: estimate %.6g +/- %.3g: %v",
		e.Op, e.Z, e.Y, formatParams(e.Params), e.Estimate, e.AbsErr, e.Wrapped)
}

func (e *QuadratureError) Unwrap() error { return e.Wrapped }

func (e *QuadratureError) Is(target error) bool { return target == ErrQuadratureFailure }

// WithParams attaches solve parameters to the first SolveError or
// QuadratureError in err's chain that has none. When that error is err
// itself its message picks the parameters up directly. A wrapped one is
// updated for errors.As callers and the result is re-wrapped, because the
// outer messages were fixed when they were built. Other errors are returned
// unchanged.
func WithParams(err error, params map[string]float64) error {
	if len(params) == 0 {
		return err
	}
	switch e := err.(type) {
	case *SolveError:
		if e.Params == nil {
			e.Params = params
		}
		return err
	case *QuadratureError:
		if e.Params == nil {
			e.Params = params
		}
		return err
	}

	var se *SolveError
	if errors.As(err, &se) && se.Params == nil {
		se.Params = params
		return &paramsError{err: err, params: params}
	}
	var qe *QuadratureError
	if errors.As(err, &qe) && qe.Params == nil {
		qe.Params = params
		return &paramsError{err: err, params: params}
	}
	return err
}

type paramsError struct {
	err    error
	params map[string]float64
}

func (e *paramsError) Error() string { return e.err.Error() + formatParams(e.params) }

func (e *paramsError) Unwrap() error { return e.err }

func formatParams(p map[string]float64) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(" (")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%.6g", k, p[k])
	}
	b.WriteString(")")
	return b.String()
}
