package experiment

import (
	"context"

	"github.com/san-kum/quadlab/internal/config"
	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/storage"
)

// Experiment is one configured convergence study: an interval, an exact
// value and the rules to compare.
type Experiment struct {
	name  string
	cfg   *config.Config
	q     *quad.Composite
	rules []*quad.Rule
	exact float64
}

// New resolves cfg against reg and builds the Composite over the fixed
// ln(0.5*x) integrand.
func New(name string, cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := reg.Rules(cfg)
	if err != nil {
		return nil, err
	}
	exact, err := Exact(cfg)
	if err != nil {
		return nil, err
	}
	q, err := quad.New(cfg.Left, cfg.Right, nil, quad.LogHalf)
	if err != nil {
		return nil, err
	}
	return &Experiment{name: name, cfg: cfg, q: q, rules: rules, exact: exact}, nil
}

func (e *Experiment) Exact() float64 { return e.exact }

func (e *Experiment) Rules() []*quad.Rule { return e.rules }

func (e *Experiment) DriverConfig() convergence.Config {
	return convergence.Config{Start: e.cfg.Start, Limit: e.cfg.Limit}
}

// Run executes one pass per rule, concurrently when the config asks for
// it, and returns the passes in rule order.
func (e *Experiment) Run(ctx context.Context, observers ...convergence.Observer) ([]*convergence.Pass, error) {
	if e.cfg.Parallel {
		return convergence.RunParallel(ctx, e.q, e.exact, e.DriverConfig(), e.rules, observers...)
	}

	d := convergence.NewDriver(e.q, e.exact, e.DriverConfig())
	for _, o := range observers {
		d.AddObserver(o)
	}
	return d.RunRules(ctx, e.rules...)
}

// Metadata describes the experiment for storage.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.NewMetadata(e.name, e.q.Interval(), e.exact, e.DriverConfig(), e.rules)
}
