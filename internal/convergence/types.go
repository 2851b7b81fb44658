package convergence

import (
	"fmt"
	"math"

	"github.com/san-kum/quadlab/internal/quad"
)

// Row is one step-halving comparison between Calculate(n) and
// Calculate(2n). Fields may be Inf or NaN when the error of the finer
// approximation is numerically zero.
type Row struct {
	N            int     `json:"n"`
	H            float64 `json:"h"`
	Step         float64 `json:"step"`
	H1           float64 `json:"h1"`
	H2           float64 `json:"h2"`
	Diff1        float64 `json:"diff1"`
	Diff2        float64 `json:"diff2"`
	Ratio        float64 `json:"ratio"`
	K            float64 `json:"k"`
	Order        float64 `json:"order"`
	Correction   float64 `json:"correction"`
	Extrapolated float64 `json:"extrapolated"`
	Residual     float64 `json:"residual"`
}

// Finite reports whether every derived field of the row is finite.
func (r Row) Finite() bool {
	for _, v := range []float64{r.Ratio, r.K, r.Order, r.Correction, r.Extrapolated, r.Residual} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Pass is the output of one driver run for a single rule.
type Pass struct {
	Rule string `json:"rule"`
	Rows []Row  `json:"rows"`
}

// Last returns the final row of the pass.
func (p *Pass) Last() (Row, bool) {
	if len(p.Rows) == 0 {
		return Row{}, false
	}
	return p.Rows[len(p.Rows)-1], true
}

// Observer is notified after each row is computed. Observers passed to
// RunParallel are called from several goroutines.
type Observer interface {
	OnRow(rule string, row Row)
}

type ObserverFunc func(rule string, row Row)

func (f ObserverFunc) OnRow(rule string, row Row) { f(rule, row) }

// Config controls the partition-count progression: n runs over
// Start, 2*Start, 4*Start, ... while 2n <= Limit.
type Config struct {
	Start int
	Limit int
}

func DefaultConfig() Config {
	return Config{Start: 1, Limit: 64}
}

func (c Config) Validate() error {
	if c.Start <= 0 {
		return &quad.ValidationError{Field: "start", Reason: fmt.Sprintf("start partition count must be positive, got %d", c.Start)}
	}
	if c.Limit/2 < c.Start {
		return &quad.ValidationError{Field: "limit", Reason: fmt.Sprintf("limit %d must be at least twice start %d", c.Limit, c.Start)}
	}
	return nil
}

// Counts lists the coarse partition counts of each row.
func (c Config) Counts() []int {
	var out []int
	for n := c.Start; n > 0 && n <= c.Limit/2; n *= 2 {
		out = append(out, n)
	}
	return out
}
