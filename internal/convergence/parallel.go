package convergence

import (
	"context"

	"github.com/san-kum/quadlab/internal/quad"
	"golang.org/x/sync/errgroup"
)

// RunParallel runs one pass per rule concurrently. Each goroutine owns a
// clone of q, so q itself is never touched. Passes are returned in rule
// order; the first error cancels the remaining passes.
func RunParallel(ctx context.Context, q *quad.Composite, exact float64, cfg Config, rules []*quad.Rule, observers ...Observer) ([]*Pass, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	passes := make([]*Pass, len(rules))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range rules {
		i, r := i, r
		g.Go(func() error {
			local := q.Clone()
			if err := local.SetRule(r); err != nil {
				return err
			}
			d := NewDriver(local, exact, cfg)
			for _, o := range observers {
				d.AddObserver(o)
			}
			p, err := d.Run(gctx)
			if err != nil {
				return err
			}
			passes[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return passes, nil
}
