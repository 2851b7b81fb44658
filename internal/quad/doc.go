// Package quad implements composite quadrature on a uniform partition.
//
// A [Rule] holds nodes and weights on the reference interval [-1, 1]. A
// [Composite] maps those nodes onto each of n equal subintervals of its
// [Interval] and sums the weighted integrand values:
//
//	x(i,k) = left + h*k + h*(node[i]+1)/2,   h = (right-left)/n
//	I_n    = sum_k sum_i (h/2) * weight[i] * f(x(i,k))
//
// # Example
//
//	q, _ := quad.New(1, math.E, quad.Simpson(), quad.LogHalf)
//	v, err := q.Calculate(16)
//
// # Errors
//
// Malformed input yields a [*ValidationError] and an integrand evaluated
// outside its domain yields a [*DomainError]. Both unwrap to
// [ErrValidation] and [ErrDomain] respectively.
package quad
