package config

import (
	"fmt"
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"lab": {
		Left: 1, Right: math.E, AutoExact: true, Start: 1, Limit: 64,
		Rules: []string{"simpson", "gauss3"},
	},
	"orders": {
		Left: 1, Right: math.E, AutoExact: true, Start: 1, Limit: 64,
		Rules: []string{"midpoint", "trapezoid", "simpson", "gauss3"},
	},
	"gauss": {
		Left: 1, Right: math.E, AutoExact: true, Start: 1, Limit: 32, Parallel: true,
		Rules: []string{"gauss2", "gauss3", "gauss4", "gauss5"},
	},
	"wide": {
		Left: 0.5, Right: 20, AutoExact: true, Start: 2, Limit: 256,
		Rules: []string{"trapezoid", "simpson", "gauss3"},
	},
	"boole": {
		Left: 1, Right: math.E, AutoExact: true, Start: 1, Limit: 64,
		Rules: []string{"simpson"},
		CustomRules: []RuleConfig{{
			Name:    "boole",
			Nodes:   []float64{-1, -0.5, 0, 0.5, 1},
			Weights: []float64{7.0 / 45.0, 32.0 / 45.0, 12.0 / 45.0, 32.0 / 45.0, 7.0 / 45.0},
		}},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Rules = append([]string(nil), p.Rules...)
	cfg.CustomRules = append([]RuleConfig(nil), p.CustomRules...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

// Resolve picks the base configuration of a run and the name it is stored
// under: the named preset, the file at path ("custom"), or the defaults
// ("custom"). A preset and a file cannot be combined.
func Resolve(preset, path string) (*Config, string, error) {
	switch {
	case preset != "" && path != "":
		return nil, "", fmt.Errorf("config: preset %q and config file %s are mutually exclusive", preset, path)
	case preset != "":
		cfg := GetPreset(preset)
		if cfg == nil {
			names := ListPresets()
			sort.Strings(names)
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		return cfg, preset, nil
	case path != "":
		cfg, err := Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, "custom", nil
	}
	return DefaultConfig(), "custom", nil
}
