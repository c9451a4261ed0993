package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/integrators"
	"github.com/san-kum/leptosim/internal/leptogenesis"
	"github.com/san-kum/leptosim/internal/quad"
	"gopkg.in/yaml.v3"
)

const (
	DefaultK             = 2.2778530535805257
	DefaultGridPoints    = 500
	DefaultGridMin       = 1e-3
	DefaultGridMax       = 350.0
	DefaultZMin          = 0.1
	DefaultZMax          = 10.0
	DefaultSamples       = 500
	DefaultDistMaxStep   = 1.0 / 300.0
	DefaultQuadTol       = 1e-10
	DefaultQuadLimit     = 1000
	DefaultLowerCutoff   = 1e-10
	DefaultUpperCutoff   = 300.0
	DefaultAsymmetryTol  = 1e-10
	DefaultDistRTol      = 1e-3
	DefaultDistATol      = 1e-6
	DefaultMaxSolveSteps = 1_000_000
)

type Config struct {
	Case          string           `yaml:"case"`
	K             float64          `yaml:"k"`
	Epsilon       EpsilonConfig    `yaml:"epsilon"`
	Grid          GridConfig       `yaml:"grid"`
	Z             SpanConfig       `yaml:"z"`
	Normalization float64          `yaml:"normalization"`
	Distribution  SolverConfig     `yaml:"distribution"`
	Asymmetry     SolverConfig     `yaml:"asymmetry"`
	Quadrature    QuadratureConfig `yaml:"quadrature"`
}

// EpsilonConfig holds the diagonal CP asymmetries per lepton flavour.
type EpsilonConfig struct {
	EE float64 `yaml:"ee"`
	MM float64 `yaml:"mm"`
	TT float64 `yaml:"tt"`
}

func (e EpsilonConfig) Total() float64 { return e.EE + e.MM + e.TT }

type GridConfig struct {
	Points int     `yaml:"points"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

type SpanConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type SolverConfig struct {
	Method   string  `yaml:"method"`
	RTol     float64 `yaml:"rtol"`
	ATol     float64 `yaml:"atol"`
	MaxStep  float64 `yaml:"max_step,omitempty"`
	MaxSteps int     `yaml:"max_steps"`
	Samples  int     `yaml:"samples,omitempty"`
}

type QuadratureConfig struct {
	Rule   string  `yaml:"rule"`
	RTol   float64 `yaml:"rtol"`
	ATol   float64 `yaml:"atol"`
	Limit  int     `yaml:"limit"`
	LowerY float64 `yaml:"lower_y"`
	UpperY float64 `yaml:"upper_y"`
}

func DefaultConfig() *Config {
	return &Config{
		Case:    "D2",
		K:       DefaultK,
		Epsilon: EpsilonConfig{EE: 2e-7, MM: 3e-7, TT: 5e-7},
		Grid: GridConfig{
			Points: DefaultGridPoints,
			Min:    DefaultGridMin,
			Max:    DefaultGridMax,
		},
		Z:             SpanConfig{Min: DefaultZMin, Max: DefaultZMax},
		Normalization: leptogenesis.DefaultNormalization,
		Distribution: SolverConfig{
			Method:   "RK45",
			RTol:     DefaultDistRTol,
			ATol:     DefaultDistATol,
			MaxStep:  DefaultDistMaxStep,
			MaxSteps: DefaultMaxSolveSteps,
		},
		Asymmetry: SolverConfig{
			Method:   "RK45",
			RTol:     DefaultAsymmetryTol,
			ATol:     DefaultAsymmetryTol,
			MaxSteps: DefaultMaxSolveSteps,
			Samples:  DefaultSamples,
		},
		Quadrature: QuadratureConfig{
			Rule:   "GK21",
			RTol:   DefaultQuadTol,
			ATol:   DefaultQuadTol,
			Limit:  DefaultQuadLimit,
			LowerY: DefaultLowerCutoff,
			UpperY: DefaultUpperCutoff,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports every out-of-range field, each wrapping
// dynamo.ErrParameterBounds.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...))
	}

	if _, err := leptogenesis.ParseCase(c.Case); err != nil {
		errs = append(errs, err)
	}
	if !(c.K > 0) {
		bad("k must be positive, got %g", c.K)
	}
	if c.Grid.Points < 3 {
		bad("grid.points must be at least 3, got %d", c.Grid.Points)
	}
	if !(c.Grid.Min > 0) || !(c.Grid.Max > c.Grid.Min) {
		bad("grid bounds [%g, %g]", c.Grid.Min, c.Grid.Max)
	}
	if !(c.Z.Min > 0) || !(c.Z.Max > c.Z.Min) {
		bad("z span [%g, %g]", c.Z.Min, c.Z.Max)
	}
	if !(c.Normalization > 0) {
		bad("normalization must be positive, got %g", c.Normalization)
	}
	for name, s := range map[string]SolverConfig{"distribution": c.Distribution, "asymmetry": c.Asymmetry} {
		if _, err := integrators.Lookup(s.Method); err != nil {
			bad("%s.method: %v", name, err)
		}
		if !(s.RTol > 0) || !(s.ATol > 0) {
			bad("%s tolerances rtol=%g atol=%g", name, s.RTol, s.ATol)
		}
		if s.MaxStep < 0 {
			bad("%s.max_step must not be negative", name)
		}
	}
	if c.Asymmetry.Samples < 2 {
		bad("asymmetry.samples must be at least 2, got %d", c.Asymmetry.Samples)
	}
	if _, err := c.quadRule(); err != nil {
		errs = append(errs, err)
	}
	if !(c.Quadrature.RTol > 0) && !(c.Quadrature.ATol > 0) {
		bad("quadrature needs a positive rtol or atol")
	}
	if c.Quadrature.Limit < 1 {
		bad("quadrature.limit must be positive, got %d", c.Quadrature.Limit)
	}
	if !(c.Quadrature.LowerY > 0) || !(c.Quadrature.UpperY > c.Quadrature.LowerY) {
		bad("quadrature cutoffs [%g, %g]", c.Quadrature.LowerY, c.Quadrature.UpperY)
	}

	return errors.Join(errs...)
}

func (c *Config) quadRule() (quad.Rule, error) {
	switch strings.ToUpper(c.Quadrature.Rule) {
	case "", "GK21":
		return quad.GK21, nil
	case "GK15":
		return quad.GK15, nil
	}
	return quad.Rule{}, fmt.Errorf("%w: unknown quadrature rule %q", dynamo.ErrParameterBounds, c.Quadrature.Rule)
}

// Source builds the fixed parameter source described by the config.
func (c *Config) Source() *leptogenesis.FixedSource {
	return leptogenesis.Diagonal(c.K, c.Epsilon.EE, c.Epsilon.MM, c.Epsilon.TT)
}

// Model converts the file representation into the numerical policy of a
// leptogenesis model.
func (c *Config) Model() (leptogenesis.Config, error) {
	if err := c.Validate(); err != nil {
		return leptogenesis.Config{}, err
	}
	kase, _ := leptogenesis.ParseCase(c.Case)
	rule, _ := c.quadRule()

	mc := leptogenesis.DefaultConfig()
	mc.Case = kase
	mc.Grid = leptogenesis.GridConfig{Points: c.Grid.Points, Min: c.Grid.Min, Max: c.Grid.Max}
	mc.ZMin, mc.ZMax = c.Z.Min, c.Z.Max
	mc.Normalization = c.Normalization

	mc.Distribution.Method = c.Distribution.Method
	mc.Distribution.Solver = c.Distribution.solver()

	mc.Asymmetry.Method = c.Asymmetry.Method
	mc.Asymmetry.Solver = c.Asymmetry.solver()
	mc.Asymmetry.Samples = c.Asymmetry.Samples

	mc.Source.LowerY = c.Quadrature.LowerY
	mc.Source.UpperY = c.Quadrature.UpperY
	mc.Source.Quad = quad.Settings{
		AbsTol: c.Quadrature.ATol,
		RelTol: c.Quadrature.RTol,
		Limit:  c.Quadrature.Limit,
		Rule:   rule,
	}
	return mc, nil
}

func (s SolverConfig) solver() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.RTol = s.RTol
	cfg.ATol = s.ATol
	cfg.MaxStep = s.MaxStep
	if s.MaxSteps > 0 {
		cfg.MaxSteps = s.MaxSteps
	}
	return cfg
}
