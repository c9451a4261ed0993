// Package quad integrates one-dimensional functions with globally adaptive
// Gauss-Kronrod quadrature in the style of QUADPACK's QAG routine.
//
// The interval with the largest error estimate is bisected until the total
// error satisfies
//
//	abserr <= max(AbsTol, RelTol*|result|)
//
// or the subdivision limit is reached, in which case the best estimate is
// returned together with [ErrLimit]. Reversed limits (a > b) integrate over
// [b, a] and negate the result.
package quad
