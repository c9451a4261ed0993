// Package leptogenesis computes the baryon asymmetry produced by one decaying
// right-handed neutrino when the neutrino is not assumed to be in kinetic
// equilibrium.
//
// A [Model] owns the momentum grid, the washout parameter K, the CP asymmetry
// eps and the solved neutrino distribution. Parameters come from a
// [ParameterSource]; [FixedSource] supplies them from fixed values.
//
//	src := leptogenesis.Diagonal(2.28, 1e-7, 2e-7, 3e-7)
//	m, err := leptogenesis.New(ctx, src, leptogenesis.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	etaB, err := m.EtaB(ctx)
package leptogenesis
