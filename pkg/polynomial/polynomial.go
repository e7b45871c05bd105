// Package polynomial implements dense polynomials over field.Element, used
// by pkg/share to build and evaluate Shamir sharing polynomials.
package polynomial

import (
	"io"

	"github.com/shamirmpc/mpcnode/pkg/field"
)

// Polynomial is an ordered sequence of coefficients c0, c1, ..., cd, where
// d is the polynomial's nominal degree. It is mutable only during
// construction: Random fills every coefficient, and the sharing protocol
// in pkg/share then overwrites c0 with the secret.
type Polynomial struct {
	coeffs []field.Element
}

// Random samples a degree-d polynomial with d+1 uniformly random
// coefficients drawn from r.
func Random(degree int, r io.Reader) (*Polynomial, error) {
	coeffs := make([]field.Element, degree+1)
	for i := range coeffs {
		e, err := field.Sample(r)
		if err != nil {
			return nil, err
		}
		coeffs[i] = e
	}
	return &Polynomial{coeffs: coeffs}, nil
}

// New wraps an explicit coefficient list as a Polynomial.
func New(coeffs []field.Element) *Polynomial {
	return &Polynomial{coeffs: append([]field.Element(nil), coeffs...)}
}

// Degree returns the polynomial's nominal degree (len(coeffs) - 1).
func (p *Polynomial) Degree() int { return len(p.coeffs) - 1 }

// SetConstant overwrites c0, the step the sharing protocol uses to embed
// the secret into an otherwise-random polynomial.
func (p *Polynomial) SetConstant(c field.Element) { p.coeffs[0] = c }

// Evaluate computes f(x) via Horner's method.
func (p *Polynomial) Evaluate(x field.Element) field.Element {
	result := field.Zero()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coeffs[i])
	}
	return result
}
