// Package dynamo provides the numeric primitives shared by the solvers.
//
// The package defines the fundamental interfaces and types for integrating
// ordinary differential equations (ODEs) of the form dX/dt = f(X, t):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE right-hand sides that may fail
//   - [Observer]: receives every accepted step of a solve
//   - [Metric]: an observer that reduces a trajectory to a scalar
//   - [Config]: tolerances and step limits for adaptive solves
//
// # Errors
//
// Numerical failures are reported as [*SolveError] and [*QuadratureError].
// Both match their sentinel with [errors.Is]:
//
//	if errors.Is(err, dynamo.ErrSolveFailure) {
//	    var se *dynamo.SolveError
//	    errors.As(err, &se)
//	    log.Printf("failed at z=%g", se.Time)
//	}
//
// # Thread Safety
//
// Systems that cache intermediate values (such as the RHN distribution
// calculator) are NOT thread-safe. Parallel parameter scans must give every
// task its own instance.
package dynamo
