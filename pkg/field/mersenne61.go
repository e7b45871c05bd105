// Package field implements arithmetic over the Mersenne-prime field F_p,
// p = 2^61 - 1. The modulus is chosen because reduction needs only a
// shift, a mask, and an add: 2^61 ≡ 1 (mod p), so any 122-bit product can be
// folded into a sub-2p value with a single split.
package field

import (
	"errors"
	"math/bits"
)

// Modulus is p = 2^61 - 1.
const Modulus uint64 = (1 << 61) - 1

const bitSize = 61

// ErrZeroInverse is returned when Inverse is called on the zero element.
var ErrZeroInverse = errors.New("field: inverse of zero is undefined")

// Element is a value in [0, Modulus). Every exported constructor and
// operation returns an already-reduced Element; there is no way to
// construct one out of range from this package's API.
type Element struct {
	v uint64
}

// Zero is the additive identity.
func Zero() Element { return Element{0} }

// One is the multiplicative identity.
func One() Element { return Element{1} }

// New reduces v modulo p. Inputs are < 2^64 < 9p, so repeated
// subtraction terminates in at most eight iterations.
func New(v uint64) Element {
	for v >= Modulus {
		v -= Modulus
	}
	return Element{v}
}

// Uint64 returns the element's canonical representative in [0, Modulus).
func (a Element) Uint64() uint64 { return a.v }

// Equal reports whether a and b hold the same field value.
func (a Element) Equal(b Element) bool { return a.v == b.v }

// IsZero reports whether a is the additive identity.
func (a Element) IsZero() bool { return a.v == 0 }

// Add returns a + b mod p.
func (a Element) Add(b Element) Element {
	return New(a.v + b.v)
}

// Negate returns -a mod p.
func (a Element) Negate() Element {
	if a.v == 0 {
		return Zero()
	}
	return Element{Modulus - a.v}
}

// Sub returns a - b mod p, avoiding uint64 wraparound by adding the
// modulus back in before subtracting when b > a.
func (a Element) Sub(b Element) Element {
	if b.v > a.v {
		return New(a.v + Modulus - b.v)
	}
	return Element{a.v - b.v}
}

// Mul returns a * b mod p using the Mersenne-prime folding trick: split the
// 128-bit product u into high = u >> 61 and low = u & (2^61 - 1) (the bits
// of low dropped by that mask are exactly the low bits of high, already
// accounted for there), then reduce the sum of the two sub-2p halves, since
// 2^61 ≡ 1 (mod p) lets u be rewritten as high*2^61 + low ≡ high + low.
func (a Element) Mul(b Element) Element {
	hi, lo := bits.Mul64(a.v, b.v)
	high := hi<<3 | lo>>bitSize
	low := lo & Modulus

	return New(high).Add(New(low))
}

// Inverse returns a^-1 mod p via the extended Euclidean algorithm on signed
// 64-bit integers. Returns ErrZeroInverse for a == 0.
func (a Element) Inverse() (Element, error) {
	if a.v == 0 {
		return Element{}, ErrZeroInverse
	}

	var k, newK int64 = 0, 1
	r, newR := int64(Modulus), int64(a.v)

	for newR != 0 {
		q := r / newR
		k, newK = newK, k-q*newK
		r, newR = newR, r-q*newR
	}

	if k < 0 {
		k += int64(Modulus)
	}

	return New(uint64(k)), nil
}
