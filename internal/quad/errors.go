package quad

import (
	"errors"
	"fmt"
)

// Error kinds for quadrature operations.
var (
	// ErrValidation indicates malformed construction or mutation input:
	// a degenerate interval, mismatched node/weight tables or a
	// non-positive partition count.
	ErrValidation = errors.New("quad: validation failed")

	// ErrDomain indicates the integrand was evaluated outside its domain.
	ErrDomain = errors.New("quad: argument out of domain")
)

// ValidationError describes which input was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("quad: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DomainError records the evaluation point that fell outside the
// integrand's domain.
type DomainError struct {
	X float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("quad: argument out of domain (x=%g)", e.X)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
