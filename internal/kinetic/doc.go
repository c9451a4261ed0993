// Package kinetic solves the momentum-resolved phase-space distribution of a
// decaying right-handed neutrino without assuming kinetic equilibrium.
//
// For every point y_i of a logarithmic momentum grid the occupation number
// obeys
//
//	df_i/dz = (z^2 K / e_i) (exp(-e_i) - f_i),    e_i = sqrt(z^2 + y_i^2),
//
// which [NewCalculator] integrates once, as a single coupled system, over the
// whole z range. [Calculator.Evaluate] then answers f_N(z, y) queries from the
// dense solution through a single-slot cache keyed on z and linear
// interpolation between grid points.
//
// # Thread Safety
//
// A Calculator mutates its cache on every Evaluate call. Give every goroutine
// its own instance.
package kinetic
