// Package group implements the prime-order elliptic-curve group and the
// scalar arithmetic the rest of the protocol is built on (spec Sec 3, 4.1).
//
// The group is the G1 subgroup of BLS12-381, reached through
// github.com/consensys/gnark-crypto, the same curve library the teacher
// repository uses for its BBS+ points.
package group

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/anupsv/certified-dp/internal/common"
)

// Order is the order q of the group (an alias of internal/common.Order, so
// callers outside internal/ don't need that import).
var Order = common.Order

// Point is a single element of the group, always kept in the unique affine
// representative so that equality and serialization are canonical.
type Point struct {
	p bls12381.G1Affine
}

// Identity returns the group identity element.
func Identity() Point {
	var p bls12381.G1Affine
	p.X.SetZero()
	p.Y.SetZero()
	return Point{p: p}
}

// IsIdentity reports whether g is the group identity.
func (g Point) IsIdentity() bool {
	return g.p.IsInfinity()
}

// jac converts g to Jacobian coordinates for cheap chained group operations.
func (g Point) jac() bls12381.G1Jac {
	var j bls12381.G1Jac
	j.FromAffine(&g.p)
	return j
}

func fromJac(j bls12381.G1Jac) Point {
	var a bls12381.G1Affine
	a.FromJacobian(&j)
	return Point{p: a}
}

// Add returns g + h.
func (g Point) Add(h Point) Point {
	gj := g.jac()
	hj := h.jac()
	gj.AddAssign(&hj)
	return fromJac(gj)
}

// Sub returns g - h.
func (g Point) Sub(h Point) Point {
	gj := g.jac()
	hj := h.jac()
	gj.SubAssign(&hj)
	return fromJac(gj)
}

// Neg returns -g.
func (g Point) Neg() Point {
	neg := g.p
	neg.Y.Neg(&neg.Y)
	return Point{p: neg}
}

// ScalarMul returns a*g for a scalar reduced mod Order.
func (g Point) ScalarMul(a *big.Int) Point {
	gj := g.jac()
	gj.ScalarMultiplication(&gj, reduce(a))
	return fromJac(gj)
}

// Equal reports whether g and h are the same group element.
func (g Point) Equal(h Point) bool {
	return g.p.Equal(&h.p)
}

// PointSize is the canonical compressed encoding width of a group element.
// BLS12-381 G1 compresses to 48 bytes; spec.md's "32-byte" figure assumes a
// curve25519-family group (see SPEC_FULL.md Sec 6, encoding widths note).
const PointSize = bls12381.SizeOfG1AffineCompressed

// Bytes returns the canonical compressed encoding of g.
func (g Point) Bytes() [PointSize]byte {
	return g.p.Bytes()
}

// PointFromBytes decodes a canonical compressed encoding, rejecting
// non-canonical forms. allowIdentity gates whether the identity element is
// an acceptable decode (spec Sec 4.1: message fields that must commit to a
// nonzero-sourced value disallow it).
func PointFromBytes(data []byte, allowIdentity bool) (Point, error) {
	if len(data) != PointSize {
		return Point{}, fmt.Errorf("group: encoded point has wrong length %d", len(data))
	}
	var a bls12381.G1Affine
	var arr [PointSize]byte
	copy(arr[:], data)
	if _, err := a.SetBytes(arr[:]); err != nil {
		return Point{}, fmt.Errorf("group: non-canonical point encoding: %w", err)
	}
	if a.IsInfinity() && !allowIdentity {
		return Point{}, fmt.Errorf("group: identity element not allowed in this field")
	}
	return Point{p: a}, nil
}

// reduce returns a copy of a reduced modulo Order.
func reduce(a *big.Int) *big.Int {
	return new(big.Int).Mod(a, Order)
}

// SampleScalar draws a scalar uniformly from [0, Order) using rng. It
// oversamples by 64 bits beyond Order's bit length and reduces modulo Order
// instead of rejecting, the standard technique for negligible (~2^-64)
// sampling bias without a rejection loop that could otherwise spin forever
// on a mis-sized mask.
func SampleScalar(rng io.Reader) (*big.Int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	byteLen := (Order.BitLen() + 64 + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := rng.Read(buf); err != nil {
		return nil, fmt.Errorf("group: failed to read randomness: %w", err)
	}
	result := new(big.Int).SetBytes(buf)
	result.Mod(result, Order)
	return result, nil
}

// Zeroize overwrites a scalar's backing word array in place, then resets it
// to zero. Used to scrub blinding factors and raw bits on drop (spec Sec 5).
// SetInt64(0) alone is not enough: it only truncates big.Int's internal
// length and leaves the secret's words live in the backing array.
func Zeroize(s *big.Int) {
	if s == nil {
		return
	}
	words := s.Bits()
	for i := range words {
		words[i] = 0
	}
	s.SetInt64(0)
}
