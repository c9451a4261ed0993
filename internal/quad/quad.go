package quad

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrLimit indicates the subdivision limit was reached before the tolerance.
	ErrLimit = errors.New("quad: maximum number of subdivisions reached")

	// ErrRoundoff indicates an interval became too small to bisect further.
	ErrRoundoff = errors.New("quad: roundoff prevents reaching tolerance")

	// ErrNaN indicates the integrand returned NaN or Inf.
	ErrNaN = errors.New("quad: integrand is not finite")
)

const (
	maxNodes = 16

	epmach = 2.220446049250313e-16
	uflow  = 2.2250738585072014e-308
)

// Settings controls an adaptive integration.
type Settings struct {
	AbsTol float64
	RelTol float64
	Limit  int
	Rule   Rule
}

// DefaultSettings mirrors QUADPACK's customary defaults.
func DefaultSettings() Settings {
	return Settings{
		AbsTol: 1.49e-8,
		RelTol: 1.49e-8,
		Limit:  50,
		Rule:   GK21,
	}
}

// Result is the outcome of an integration. It is populated even when an
// error is returned.
type Result struct {
	Value       float64
	AbsErr      float64
	Evaluations int
	Intervals   int
}

type panel struct {
	a, b   float64
	value  float64
	abserr float64
}

type panelHeap []panel

func (h panelHeap) Len() int            { return len(h) }
func (h panelHeap) Less(i, j int) bool  { return h[i].abserr > h[j].abserr }
func (h panelHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *panelHeap) Push(x interface{}) { *h = append(*h, x.(panel)) }
func (h *panelHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// Integrate computes the integral of f from a to b.
func Integrate(f func(float64) float64, a, b float64, s Settings) (Result, error) {
	if s.Limit < 1 {
		s.Limit = 1
	}
	if len(s.Rule.Xgk) == 0 {
		s.Rule = GK21
	}
	if a == b {
		return Result{}, nil
	}
	if a > b {
		res, err := Integrate(f, b, a, s)
		res.Value = -res.Value
		return res, err
	}

	var res Result
	first := evaluate(f, a, b, s.Rule, &res)
	res.Intervals = 1
	if !finite(first.value) || !finite(first.abserr) {
		res.Value, res.AbsErr = first.value, first.abserr
		return res, fmt.Errorf("%w on [%g, %g]", ErrNaN, a, b)
	}

	panels := &panelHeap{first}
	total, totalErr := first.value, first.abserr

	for {
		if totalErr <= tolerance(s, total) {
			break
		}
		if res.Intervals >= s.Limit {
			res.Value, res.AbsErr = total, totalErr
			return res, fmt.Errorf("%w (limit %d, error %.3g)", ErrLimit, s.Limit, totalErr)
		}

		worst := heap.Pop(panels).(panel)
		mid := 0.5 * (worst.a + worst.b)
		if mid <= worst.a || mid >= worst.b {
			res.Value, res.AbsErr = total, totalErr
			return res, fmt.Errorf("%w near %g", ErrRoundoff, worst.a)
		}

		left := evaluate(f, worst.a, mid, s.Rule, &res)
		right := evaluate(f, mid, worst.b, s.Rule, &res)
		res.Intervals++

		total += left.value + right.value - worst.value
		totalErr += left.abserr + right.abserr - worst.abserr
		if !finite(total) || !finite(totalErr) {
			res.Value, res.AbsErr = total, totalErr
			return res, fmt.Errorf("%w on [%g, %g]", ErrNaN, worst.a, worst.b)
		}

		heap.Push(panels, left)
		heap.Push(panels, right)
	}

	// Re-sum to shed the drift of the incremental updates.
	total, totalErr = 0, 0
	for _, p := range *panels {
		total += p.value
		totalErr += p.abserr
	}
	res.Value, res.AbsErr = total, totalErr
	return res, nil
}

func tolerance(s Settings, value float64) float64 {
	return math.Max(s.AbsTol, s.RelTol*math.Abs(value))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// evaluate applies the rule on [a, b] and estimates the error as in QUADPACK's
// qk15/qk21.
func evaluate(f func(float64) float64, a, b float64, r Rule, res *Result) panel {
	n := len(r.Xgk) - 1
	centre := 0.5 * (a + b)
	half := 0.5 * (b - a)
	absHalf := math.Abs(half)

	fc := f(centre)
	resG := r.GaussCentre * fc
	resK := r.Wgk[n] * fc
	resAbs := math.Abs(resK)

	var fv1, fv2 [maxNodes]float64
	for j := 0; j < n; j++ {
		absc := half * r.Xgk[j]
		f1 := f(centre - absc)
		f2 := f(centre + absc)
		fv1[j], fv2[j] = f1, f2
		sum := f1 + f2
		resK += r.Wgk[j] * sum
		resAbs += r.Wgk[j] * (math.Abs(f1) + math.Abs(f2))
		if j%2 == 1 {
			resG += r.Wg[j/2] * sum
		}
	}
	res.Evaluations += 2*n + 1

	mean := 0.5 * resK
	resAsc := r.Wgk[n] * math.Abs(fc-mean)
	for j := 0; j < n; j++ {
		resAsc += r.Wgk[j] * (math.Abs(fv1[j]-mean) + math.Abs(fv2[j]-mean))
	}

	value := resK * half
	resAbs *= absHalf
	resAsc *= absHalf
	abserr := math.Abs((resK - resG) * half)
	if resAsc != 0 && abserr != 0 {
		abserr = resAsc * math.Min(1, math.Pow(200*abserr/resAsc, 1.5))
	}
	if resAbs > uflow/(50*epmach) {
		abserr = math.Max(epmach*50*resAbs, abserr)
	}

	return panel{a: a, b: b, value: value, abserr: abserr}
}
