package config

import "sort"

// Presets are named starting points for `leptosim run --preset`.
var Presets = map[string]*Config{
	"benchmark": DefaultConfig(),
	"quick":     quickPreset(),
	"strong":    strongPreset(),
	"weak":      weakPreset(),
}

// quickPreset trades accuracy for a run that finishes in seconds.
func quickPreset() *Config {
	cfg := DefaultConfig()
	cfg.Grid = GridConfig{Points: 100, Min: 1e-3, Max: 50}
	cfg.Z.Max = 5
	cfg.Distribution.MaxStep = 1.0 / 100
	cfg.Asymmetry.RTol = 1e-6
	cfg.Asymmetry.ATol = 1e-13
	cfg.Asymmetry.Samples = 100
	return cfg
}

func strongPreset() *Config {
	cfg := DefaultConfig()
	cfg.K = 50
	cfg.Z.Max = 20
	return cfg
}

func weakPreset() *Config {
	cfg := DefaultConfig()
	cfg.K = 0.1
	cfg.Z.Max = 20
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
