// Package share implements Shamir secret sharing over field.Element: share
// creation, reconstruction, and the local (communication-free) share
// algebra spec.md §4.3 defines. The degree-reduction multiplication
// subprotocol built on top of this algebra lives in pkg/mpc.
package share

import (
	"fmt"
	"io"

	"github.com/shamirmpc/mpcnode/pkg/field"
	"github.com/shamirmpc/mpcnode/pkg/lagrange"
	"github.com/shamirmpc/mpcnode/pkg/polynomial"
)

// Share is a Shamir share: a polynomial evaluation together with the
// degree of the (implicit) sharing polynomial it belongs to. Degree is not
// merely metadata — it tracks how many multiplications a share can still
// absorb before it must be re-shared, per spec.md §4.3/§4.4.
type Share struct {
	Value  field.Element
	Degree int
}

// New constructs a Share directly, for callers (tests, the wire decoder)
// that already have a value and a degree in hand.
func New(value field.Element, degree int) Share {
	return Share{Value: value, Degree: degree}
}

// Node returns the evaluation point assigned to party index i (0-based):
// party 0 evaluates at 1, party k at k+1. Shared by ShareSecret, Reconstruct, and
// the recombination-vector computation in pkg/mpc so every caller agrees on
// the same node sequence.
func Node(i int) field.Element {
	return field.New(uint64(i) + 1)
}

// Nodes returns the first n evaluation points, Node(0)..Node(n-1).
func Nodes(n int) []field.Element {
	nodes := make([]field.Element, n)
	for i := range nodes {
		nodes[i] = Node(i)
	}
	return nodes
}

// ShareSecret splits secret into n shares of a fresh degree-threshold random
// polynomial, with the polynomial's constant term set to secret. Shares[i]
// is party i's evaluation, f(i+1).
func ShareSecret(secret field.Element, n, threshold int, r io.Reader) ([]Share, error) {
	poly, err := polynomial.Random(threshold, r)
	if err != nil {
		return nil, fmt.Errorf("share: generating random polynomial: %w", err)
	}
	poly.SetConstant(secret)

	shares := make([]Share, n)
	for i := 0; i < n; i++ {
		shares[i] = Share{
			Value:  poly.Evaluate(Node(i)),
			Degree: threshold,
		}
	}
	return shares, nil
}

// Reconstruct recovers the secret from len(shares) shares, Lagrange
// interpolating at x=0 over the node sequence Node(0)..Node(len(shares)-1).
// It returns the original secret when there are at least degree+1 shares
// and every one of them is a genuine evaluation of the same sharing
// polynomial. There is no attempt to detect a malformed share (no malicious
// adversary per the Non-goals): a single bad share among the inputs makes
// it reconstruct to the wrong value rather than erroring.
func Reconstruct(shares []Share) field.Element {
	values := make([]field.Element, len(shares))
	for i, s := range shares {
		values[i] = s.Value
	}
	return lagrange.Interpolate(values, Nodes(len(shares)), field.Zero())
}

// Add returns the component-wise sum of two shares; the result's degree is
// the max of the two inputs'.
func (s Share) Add(other Share) Share {
	degree := s.Degree
	if other.Degree > degree {
		degree = other.Degree
	}
	return Share{Value: s.Value.Add(other.Value), Degree: degree}
}

// Multiply returns the component-wise product of two shares. The result's
// degree is the sum of the two inputs' degrees: multiplying two degree-t
// shares yields a degree-2t share, unusable for further multiplication
// without the degree-reduction subprotocol in pkg/mpc.
func (s Share) Multiply(other Share) Share {
	return Share{Value: s.Value.Mul(other.Value), Degree: s.Degree + other.Degree}
}

// MultiplyConst returns s scaled by the public constant c; degree is
// unchanged.
func (s Share) MultiplyConst(c field.Element) Share {
	return Share{Value: s.Value.Mul(c), Degree: s.Degree}
}

// AddConst returns s shifted by the public constant c; degree is unchanged.
func (s Share) AddConst(c field.Element) Share {
	return Share{Value: s.Value.Add(c), Degree: s.Degree}
}

// SubtractConst returns s shifted by -c; degree is unchanged.
func (s Share) SubtractConst(c field.Element) Share {
	return Share{Value: s.Value.Sub(c), Degree: s.Degree}
}

// Negate returns -s; degree is unchanged.
func (s Share) Negate() Share {
	return Share{Value: s.Value.Negate(), Degree: s.Degree}
}

// Subtract returns s - other; degree is max(s.Degree, other.Degree), same
// as Add, since Subtract is Add composed with Negate.
func (s Share) Subtract(other Share) Share {
	return s.Add(other.Negate())
}
