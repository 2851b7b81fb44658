package quad

import "math"

// Integrand is a scalar function evaluated by Composite. It returns a
// *DomainError when x lies outside its domain.
type Integrand func(x float64) (float64, error)

// LogHalf evaluates ln(0.5*x), defined for x > 0.
func LogHalf(x float64) (float64, error) {
	if x <= 0 {
		return 0, &DomainError{X: x}
	}
	return math.Log(0.5 * x), nil
}

// LogHalfAntiderivative is x*ln(0.5*x) - x.
func LogHalfAntiderivative(x float64) float64 {
	return x*math.Log(0.5*x) - x
}

// LogHalfExactE is the integral of ln(0.5*x) over [1, e]: 1 - (e-1)*ln 2.
const LogHalfExactE = 1 - (math.E-1)*math.Ln2

// LogHalfExact integrates ln(0.5*x) over [left, right] analytically.
func LogHalfExact(left, right float64) (float64, error) {
	if left <= 0 {
		return 0, &DomainError{X: left}
	}
	if right-left < Epsilon {
		return 0, invalid("interval", "right must exceed left by more than machine epsilon")
	}
	return LogHalfAntiderivative(right) - LogHalfAntiderivative(left), nil
}

// Polynomial returns an integrand evaluating c[0] + c[1]*x + c[2]*x^2 + ...
func Polynomial(c ...float64) Integrand {
	coef := make([]float64, len(c))
	copy(coef, c)
	return func(x float64) (float64, error) {
		v := 0.0
		for i := len(coef) - 1; i >= 0; i-- {
			v = v*x + coef[i]
		}
		return v, nil
	}
}
