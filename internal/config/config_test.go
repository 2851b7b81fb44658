package config

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Left != 1 || cfg.Right != math.E {
		t.Errorf("expected interval [1, e], got [%v, %v]", cfg.Left, cfg.Right)
	}
	if cfg.Start != 1 || cfg.Limit != 64 {
		t.Errorf("expected progression 1..64, got %d..%d", cfg.Start, cfg.Limit)
	}
	if len(cfg.Rules) != 2 || cfg.Rules[0] != "simpson" || cfg.Rules[1] != "gauss3" {
		t.Errorf("unexpected default rules %v", cfg.Rules)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero start", func(c *Config) { c.Start = 0 }},
		{"limit too small", func(c *Config) { c.Limit = 1 }},
		{"start past half of MaxInt", func(c *Config) {
			c.Limit = math.MaxInt
			c.Start = c.Limit/2 + 1
		}},
		{"no rules", func(c *Config) { c.Rules = nil }},
		{"unnamed custom", func(c *Config) { c.CustomRules = []RuleConfig{{Nodes: []float64{0}, Weights: []float64{2}}} }},
		{"duplicate custom", func(c *Config) {
			c.CustomRules = []RuleConfig{{Name: "a"}, {Name: "a"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`
left: 2
right: 5
limit: 128
rules: [trapezoid]
custom_rules:
  - name: mid
    nodes: [0]
    weights: [2]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Left != 2 || cfg.Right != 5 || cfg.Limit != 128 {
		t.Errorf("unexpected values %+v", cfg)
	}
	if cfg.Start != DefaultStart || !cfg.AutoExact {
		t.Errorf("defaults lost: start=%d auto_exact=%v", cfg.Start, cfg.AutoExact)
	}
	names := cfg.RuleNames()
	if len(names) != 2 || names[0] != "trapezoid" || names[1] != "mid" {
		t.Errorf("unexpected rule names %v", names)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("boole")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.CustomRules) != 1 || len(loaded.CustomRules[0].Weights) != 5 {
		t.Errorf("custom rule lost: %+v", loaded.CustomRules)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("orders")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Rules) != 4 {
		t.Errorf("expected 4 rules, got %v", cfg.Rules)
	}

	cfg.Rules[0] = "changed"
	if Presets["orders"].Rules[0] == "changed" {
		t.Error("GetPreset returned shared slice")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	sort.Strings(presets)
	if len(presets) != len(Presets) || presets[0] != "boole" {
		t.Errorf("unexpected presets %v", presets)
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("left: 2\nright: 5\nrules: [trapezoid]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		preset   string
		path     string
		wantName string
		wantRule string
	}{
		{"defaults", "", "", "custom", "simpson"},
		{"preset", "orders", "", "orders", "midpoint"},
		{"file", "", path, "custom", "trapezoid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, name, err := Resolve(tt.preset, tt.path)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if name != tt.wantName || cfg.Rules[0] != tt.wantRule {
				t.Errorf("got name %q rules %v, want %q with %s first", name, cfg.Rules, tt.wantName, tt.wantRule)
			}
		})
	}
}

func TestResolveRejectsPresetWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("rules: [trapezoid]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Resolve("orders", path); err == nil {
		t.Error("expected error when combining a preset with a config file")
	}
	if _, _, err := Resolve("nonexistent", ""); err == nil {
		t.Error("expected error for unknown preset")
	}
}
