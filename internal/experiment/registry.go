package experiment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/quadlab/internal/config"
	"github.com/san-kum/quadlab/internal/quad"
)

// maxGaussPoints bounds gaussN names; gonum's Legendre roots lose
// accuracy well before this.
const maxGaussPoints = 64

type Registry struct {
	rules map[string]func() *quad.Rule
}

func NewRegistry() *Registry {
	r := &Registry{
		rules: make(map[string]func() *quad.Rule),
	}

	r.rules["simpson"] = quad.Simpson
	r.rules["trapezoid"] = quad.Trapezoid
	r.rules["midpoint"] = quad.Midpoint
	r.rules["gauss3"] = quad.GaussLegendre3

	return r
}

// Register adds or replaces a named rule constructor.
func (r *Registry) Register(name string, fn func() *quad.Rule) {
	r.rules[name] = fn
}

// GetRule resolves a rule by name. Names of the form gaussN build an
// N-point Gauss-Legendre rule.
func (r *Registry) GetRule(name string) (*quad.Rule, error) {
	if fn, ok := r.rules[name]; ok {
		return fn(), nil
	}
	if rest, ok := strings.CutPrefix(name, "gauss"); ok {
		n, err := strconv.Atoi(rest)
		if err == nil && n > 0 && n <= maxGaussPoints {
			return quad.GaussLegendre(n)
		}
	}
	return nil, fmt.Errorf("unknown rule: %s", name)
}

func (r *Registry) ListRules() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules resolves every rule selected by cfg in run order: named rules
// first, then custom tables.
func (r *Registry) Rules(cfg *config.Config) ([]*quad.Rule, error) {
	out := make([]*quad.Rule, 0, len(cfg.Rules)+len(cfg.CustomRules))
	for _, name := range cfg.Rules {
		rule, err := r.GetRule(name)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	for _, c := range cfg.CustomRules {
		rule, err := quad.NewRule(c.Name, c.Nodes, c.Weights)
		if err != nil {
			return nil, fmt.Errorf("custom rule %s: %w", c.Name, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

// Exact returns the reference integral for cfg: the configured value, or
// the analytic integral of ln(0.5*x) when AutoExact is set.
func Exact(cfg *config.Config) (float64, error) {
	if !cfg.AutoExact {
		return cfg.Exact, nil
	}
	return quad.LogHalfExact(cfg.Left, cfg.Right)
}
