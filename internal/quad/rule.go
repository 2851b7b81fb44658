package quad

import (
	"fmt"
	"math"
	"sort"

	gonumquad "gonum.org/v1/gonum/integrate/quad"
)

// Rule is a quadrature rule on the reference interval [-1, 1]. Weights
// are reference-interval weights: they sum to 2 for a rule that is exact
// on constants, and Composite scales them onto each subinterval.
type Rule struct {
	name    string
	nodes   []float64
	weights []float64
}

// NewRule copies the node and weight tables into a new Rule. Node values
// are not range-checked; only the table lengths must agree.
func NewRule(name string, nodes, weights []float64) (*Rule, error) {
	if len(nodes) != len(weights) {
		return nil, invalid("rule", fmt.Sprintf("node/weight count mismatch (%d nodes, %d weights)", len(nodes), len(weights)))
	}
	r := &Rule{
		name:    name,
		nodes:   make([]float64, len(nodes)),
		weights: make([]float64, len(weights)),
	}
	copy(r.nodes, nodes)
	copy(r.weights, weights)
	return r, nil
}

func mustRule(name string, nodes, weights []float64) *Rule {
	r, err := NewRule(name, nodes, weights)
	if err != nil {
		panic(err)
	}
	return r
}

// Simpson is the default 3-point rule.
func Simpson() *Rule {
	return mustRule("simpson", []float64{-1, 0, 1}, []float64{1.0 / 3.0, 4.0 / 3.0, 1.0 / 3.0})
}

func Trapezoid() *Rule {
	return mustRule("trapezoid", []float64{-1, 1}, []float64{1, 1})
}

func Midpoint() *Rule {
	return mustRule("midpoint", []float64{0}, []float64{2})
}

// GaussLegendre3 is the closed-form 3-point Gauss-Legendre rule.
func GaussLegendre3() *Rule {
	s := math.Sqrt(3.0 / 5.0)
	return mustRule("gauss3", []float64{-s, 0, s}, []float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0})
}

// GaussLegendre builds the n-point Gauss-Legendre rule on [-1, 1] with
// nodes in ascending order.
func GaussLegendre(n int) (*Rule, error) {
	if n <= 0 {
		return nil, invalid("rule", fmt.Sprintf("gauss-legendre point count must be positive, got %d", n))
	}
	x := make([]float64, n)
	w := make([]float64, n)
	gonumquad.Legendre{}.FixedLocations(x, w, -1, 1)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	nodes := make([]float64, n)
	weights := make([]float64, n)
	for i, j := range idx {
		nodes[i] = x[j]
		weights[i] = w[j]
	}
	return NewRule(fmt.Sprintf("gauss%d", n), nodes, weights)
}

func (r *Rule) Name() string { return r.name }

func (r *Rule) Len() int { return len(r.nodes) }

func (r *Rule) Node(i int) float64 { return r.nodes[i] }

func (r *Rule) Weight(i int) float64 { return r.weights[i] }

// Nodes returns a copy of the node table.
func (r *Rule) Nodes() []float64 {
	c := make([]float64, len(r.nodes))
	copy(c, r.nodes)
	return c
}

// Weights returns a copy of the weight table.
func (r *Rule) Weights() []float64 {
	c := make([]float64, len(r.weights))
	copy(c, r.weights)
	return c
}

// Clone returns a deep copy of the rule.
func (r *Rule) Clone() *Rule {
	return mustRule(r.name, r.nodes, r.weights)
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s(%d points)", r.name, len(r.nodes))
}
