package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLeft  = 1.0
	DefaultRight = math.E
	DefaultStart = 1
	DefaultLimit = 64
)

type Config struct {
	Left        float64      `yaml:"left"`
	Right       float64      `yaml:"right"`
	Exact       float64      `yaml:"exact,omitempty"`
	AutoExact   bool         `yaml:"auto_exact"`
	Start       int          `yaml:"start"`
	Limit       int          `yaml:"limit"`
	Parallel    bool         `yaml:"parallel"`
	Rules       []string     `yaml:"rules"`
	CustomRules []RuleConfig `yaml:"custom_rules,omitempty"`
}

// RuleConfig is a user-supplied reference rule on [-1, 1].
type RuleConfig struct {
	Name    string    `yaml:"name"`
	Nodes   []float64 `yaml:"nodes"`
	Weights []float64 `yaml:"weights"`
}

func DefaultConfig() *Config {
	return &Config{
		Left:      DefaultLeft,
		Right:     DefaultRight,
		AutoExact: true,
		Start:     DefaultStart,
		Limit:     DefaultLimit,
		Rules:     []string{"simpson", "gauss3"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Validate checks the fields that the quadrature core does not check
// itself. Interval and rule tables are validated when they are built.
func (c *Config) Validate() error {
	if c.Start <= 0 {
		return fmt.Errorf("config: start must be positive, got %d", c.Start)
	}
	if c.Limit/2 < c.Start {
		return fmt.Errorf("config: limit %d must be at least twice start %d", c.Limit, c.Start)
	}
	if len(c.Rules) == 0 && len(c.CustomRules) == 0 {
		return fmt.Errorf("config: no rules selected")
	}
	seen := make(map[string]bool)
	for _, r := range c.CustomRules {
		if r.Name == "" {
			return fmt.Errorf("config: custom rule without a name")
		}
		if seen[r.Name] {
			return fmt.Errorf("config: duplicate custom rule %q", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// RuleNames lists the selected rules in run order: named rules first,
// then custom rules.
func (c *Config) RuleNames() []string {
	names := make([]string, 0, len(c.Rules)+len(c.CustomRules))
	names = append(names, c.Rules...)
	for _, r := range c.CustomRules {
		names = append(names, r.Name)
	}
	return names
}
