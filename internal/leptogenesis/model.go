package leptogenesis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/leptosim/internal/asymmetry"
	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/grid"
	"github.com/san-kum/leptosim/internal/kinetic"
)

// DefaultNormalization converts the terminal N_l into eta_B.
const DefaultNormalization = 0.013

// GridConfig describes the logarithmic momentum grid.
type GridConfig struct {
	Points int
	Min    float64
	Max    float64
}

// Config holds the numerical policy of a model. ZMin and ZMax bound both the
// distribution solve and the asymmetry solve.
type Config struct {
	Case          Case
	Grid          GridConfig
	ZMin          float64
	ZMax          float64
	Normalization float64
	Distribution  kinetic.Options
	Source        asymmetry.SourceOptions
	Asymmetry     asymmetry.Options
	Logger        *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Case:          CaseKineticNonEquilibrium,
		Grid:          GridConfig{Points: 500, Min: 1e-3, Max: 350},
		ZMin:          0.1,
		ZMax:          10,
		Normalization: DefaultNormalization,
		Distribution:  kinetic.DefaultOptions(),
		Source:        asymmetry.DefaultSourceOptions(),
		Asymmetry:     asymmetry.DefaultOptions(),
	}
}

// Model is one leptogenesis computation. It is not safe for concurrent use.
type Model struct {
	cfg  Config
	src  ParameterSource
	k    float64
	eps  float64
	grid *grid.Momentum
	calc *kinetic.Calculator
	log  *slog.Logger

	traj *asymmetry.Trajectory
}

// New reads K and eps from src and solves the neutrino distribution.
func New(ctx context.Context, src ParameterSource, cfg Config) (*Model, error) {
	if !cfg.Case.supported() {
		return nil, fmt.Errorf("%w: case %s is not implemented", dynamo.ErrParameterBounds, cfg.Case)
	}
	if !(cfg.ZMin > 0) || !(cfg.ZMax > cfg.ZMin) {
		return nil, fmt.Errorf("%w: z span [%g, %g]", dynamo.ErrParameterBounds, cfg.ZMin, cfg.ZMax)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	k := src.WashoutParameter()
	eps := TotalEpsilon(src)
	if math.IsNaN(eps) || math.IsInf(eps, 0) {
		return nil, fmt.Errorf("%w: eps=%g", dynamo.ErrParameterBounds, eps)
	}

	g, err := grid.NewLog(cfg.Grid.Points, cfg.Grid.Min, cfg.Grid.Max)
	if err != nil {
		return nil, fmt.Errorf("momentum grid: %w", err)
	}

	dopts := cfg.Distribution
	dopts.TMin, dopts.TMax = cfg.ZMin, cfg.ZMax
	dopts.Logger = log.With("component", "distribution")

	calc, err := kinetic.NewCalculator(ctx, g, k, dopts)
	if err != nil {
		return nil, fmt.Errorf("solve distribution: %w", err)
	}

	log.Info("model.ready", "case", cfg.Case.String(), "K", k, "eps", eps)
	return &Model{
		cfg:  cfg,
		src:  src,
		k:    k,
		eps:  eps,
		grid: g,
		calc: calc,
		log:  log,
	}, nil
}

func (m *Model) ShortName() string { return "1BE1FCase2" }

func (m *Model) FlavourIndices() []int { return []int{1} }

// FlavourLabels names the evolved quantities; NBL is the net lepton number.
func (m *Model) FlavourLabels() []string { return []string{"NBL"} }

func (m *Model) Case() Case { return m.cfg.Case }

func (m *Model) K() float64 { return m.k }

func (m *Model) Epsilon() float64 { return m.eps }

func (m *Model) Config() Config { return m.cfg }

func (m *Model) Source() ParameterSource { return m.src }

func (m *Model) Distribution() *kinetic.Calculator { return m.calc }

// Asymmetry integrates N_l over the configured z span. The trajectory is kept
// for later EtaB calls.
func (m *Model) Asymmetry(ctx context.Context, observers ...dynamo.Observer) (*asymmetry.Trajectory, error) {
	src := asymmetry.NewSource(m.calc, m.k, m.eps, m.cfg.Source)
	aopts := m.cfg.Asymmetry
	aopts.Logger = m.log.With("component", "asymmetry")

	traj, err := asymmetry.NewIntegrator(src, aopts).Integrate(ctx, m.cfg.ZMin, m.cfg.ZMax, observers...)
	if err != nil {
		return nil, fmt.Errorf("solve asymmetry: %w", err)
	}
	m.traj = traj
	return traj, nil
}

// EtaB is the terminal N_l times the normalization factor.
func (m *Model) EtaB(ctx context.Context) (float64, error) {
	traj := m.traj
	if traj == nil {
		var err error
		if traj, err = m.Asymmetry(ctx); err != nil {
			return 0, err
		}
	}
	return traj.Terminal() * m.cfg.Normalization, nil
}

// RHNDensity returns the normalised neutrino number density at each z.
func (m *Model) RHNDensity(zs []float64) ([]float64, error) {
	return m.calc.NumberDensity(zs)
}

// EquilibriumDensity returns the normalised Fermi-Dirac number density at
// each z on the model's momentum grid.
func (m *Model) EquilibriumDensity(zs []float64) ([]float64, error) {
	return kinetic.EquilibriumNumberDensity(zs, m.grid)
}
