// Package lagrange computes Lagrange interpolation bases and evaluations
// over field.Element, the shared primitive underlying Shamir reconstruction
// (pkg/share) and the multiplication subprotocol's recombination vector
// (pkg/mpc).
package lagrange

import "github.com/shamirmpc/mpcnode/pkg/field"

// Basis computes the Lagrange basis L_0(x), ..., L_{k-1}(x) for the given
// nodes, evaluated at x:
//
//	L_j(x) = Π_{m≠j} (x - x_m) * (x_j - x_m)^-1
//
// It panics if any two nodes coincide, since the denominator would be a
// zero-inverse — a degenerate node set the caller must never construct.
func Basis(nodes []field.Element, x field.Element) []field.Element {
	basis := make([]field.Element, len(nodes))
	for j, xj := range nodes {
		term := field.One()
		for m, xm := range nodes {
			if m == j {
				continue
			}
			numerator := x.Sub(xm)
			denominator := xj.Sub(xm)
			inv, err := denominator.Inverse()
			if err != nil {
				panic("lagrange: duplicate interpolation node, denominator is zero")
			}
			term = term.Mul(numerator.Mul(inv))
		}
		basis[j] = term
	}
	return basis
}

// Interpolate evaluates, at x, the unique degree-(k-1) polynomial passing
// through (nodes[i], evaluations[i]) for i in [0, k). It panics if the two
// slices differ in length.
func Interpolate(evaluations, nodes []field.Element, x field.Element) field.Element {
	if len(evaluations) != len(nodes) {
		panic("lagrange: evaluations and nodes must have the same length")
	}
	basis := Basis(nodes, x)
	result := field.Zero()
	for i, y := range evaluations {
		result = result.Add(y.Mul(basis[i]))
	}
	return result
}
