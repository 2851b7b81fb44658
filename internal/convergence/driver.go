package convergence

import (
	"context"
	"math"

	"github.com/san-kum/quadlab/internal/quad"
)

// Driver estimates the empirical convergence order of a Composite against
// a known exact integral and produces Richardson-extrapolated values.
type Driver struct {
	q         *quad.Composite
	exact     float64
	cfg       Config
	observers []Observer
}

func NewDriver(q *quad.Composite, exact float64, cfg Config) *Driver {
	return &Driver{q: q, exact: exact, cfg: cfg}
}

func (d *Driver) AddObserver(o Observer) {
	d.observers = append(d.observers, o)
}

func (d *Driver) Composite() *quad.Composite { return d.q }

// Run performs one pass with the Composite's current rule. Every row is
// emitted even when some of its fields are not finite; any error from
// Calculate aborts the pass and is returned unchanged.
func (d *Driver) Run(ctx context.Context) (*Pass, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}

	pass := &Pass{Rule: d.q.Rule().Name()}
	for _, n := range d.cfg.Counts() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := d.row(n)
		if err != nil {
			return nil, err
		}
		pass.Rows = append(pass.Rows, row)
		for _, o := range d.observers {
			o.OnRow(pass.Rule, row)
		}
	}
	return pass, nil
}

func (d *Driver) row(n int) (Row, error) {
	h1, err := d.q.Calculate(n)
	if err != nil {
		return Row{}, err
	}
	step := d.q.StepSize()

	h2, err := d.q.Calculate(2 * n)
	if err != nil {
		return Row{}, err
	}

	diff1 := d.exact - h1
	diff2 := d.exact - h2
	k := math.Abs(1 + (h2-h1)/diff2)
	temp := (h2 - h1) / (k - 1)

	return Row{
		N:            n,
		H:            1 / float64(n),
		Step:         step,
		H1:           h1,
		H2:           h2,
		Diff1:        diff1,
		Diff2:        diff2,
		Ratio:        diff1 / diff2,
		K:            k,
		Order:        math.Log2(k),
		Correction:   temp,
		Extrapolated: h2 + temp,
		Residual:     diff2 - temp,
	}, nil
}

// RunRules runs one pass per rule on the same Composite, installing each
// rule with SetRule. The Composite keeps the last rule afterwards.
func (d *Driver) RunRules(ctx context.Context, rules ...*quad.Rule) ([]*Pass, error) {
	passes := make([]*Pass, 0, len(rules))
	for _, r := range rules {
		if err := d.q.SetRule(r); err != nil {
			return nil, err
		}
		p, err := d.Run(ctx)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return passes, nil
}
