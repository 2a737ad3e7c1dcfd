package protocol

import (
	"encoding/binary"
	"math"

	"github.com/anupsv/certified-dp/pkg/monomial"
	"github.com/anupsv/certified-dp/pkg/noise"
)

// Params is the Setup-phase block both endpoints exchange and must agree on
// before any commitment round begins (spec.md Sec 4.4, Sec 6): database
// size n, per-record dimension d, max monomial degree k, query sparsity s,
// privacy budget (epsilon, delta), derived noise-round count N, and the
// opaque verification threshold eta.
type Params struct {
	N       uint64  // database size
	D       uint32  // per-record bit dimension
	K       uint32  // max monomial degree
	S       uint32  // query sparsity
	Epsilon float64
	Delta   float64
	Rounds  uint64  // calibrated noise round count, called N in spec.md Sec 4.5
	Eta     float64 // opaque threshold, not consumed by any verification step
}

// NewParams builds a Params block, calibrating Rounds from (epsilon, delta,
// sensitivity=S) via pkg/noise.CalibrateN.
func NewParams(n uint64, d, k, s uint32, epsilon, delta, eta float64) Params {
	if delta <= 0 {
		delta = noise.DefaultDelta
	}
	rounds := noise.CalibrateN(epsilon, delta, int(s))
	return Params{
		N: n, D: d, K: k, S: s,
		Epsilon: epsilon, Delta: delta,
		Rounds: uint64(rounds), Eta: eta,
	}
}

// MonomialCount returns |M|, the size of the canonical monomial set this
// Params implies (spec.md Sec 3.1).
func (p Params) MonomialCount() int {
	return monomial.Count(int(p.D), int(p.K))
}

// paramsWireSize is the fixed encoded width of a Params block: two uint64s
// (N, Rounds), three uint32s (D, K, S) and three float64 bit-patterns
// (Epsilon, Delta, Eta).
const paramsWireSize = 8 + 4 + 4 + 4 + 8 + 8 + 8 + 8

// MarshalBinary encodes Params as a fixed-width frame body.
func (p Params) MarshalBinary() ([]byte, error) {
	buf := make([]byte, paramsWireSize)
	off := 0
	binary.BigEndian.PutUint64(buf[off:], p.N)
	off += 8
	binary.BigEndian.PutUint32(buf[off:], p.D)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], p.K)
	off += 4
	binary.BigEndian.PutUint32(buf[off:], p.S)
	off += 4
	binary.BigEndian.PutUint64(buf[off:], math.Float64bits(p.Epsilon))
	off += 8
	binary.BigEndian.PutUint64(buf[off:], math.Float64bits(p.Delta))
	off += 8
	binary.BigEndian.PutUint64(buf[off:], p.Rounds)
	off += 8
	binary.BigEndian.PutUint64(buf[off:], math.Float64bits(p.Eta))
	off += 8
	return buf, nil
}

// UnmarshalParams decodes a Params block from its fixed-width encoding.
func UnmarshalParams(data []byte) (Params, error) {
	if len(data) != paramsWireSize {
		return Params{}, &DecodeError{Offset: 0, Field: "params"}
	}
	off := 0
	p := Params{}
	p.N = binary.BigEndian.Uint64(data[off:])
	off += 8
	p.D = binary.BigEndian.Uint32(data[off:])
	off += 4
	p.K = binary.BigEndian.Uint32(data[off:])
	off += 4
	p.S = binary.BigEndian.Uint32(data[off:])
	off += 4
	p.Epsilon = math.Float64frombits(binary.BigEndian.Uint64(data[off:]))
	off += 8
	p.Delta = math.Float64frombits(binary.BigEndian.Uint64(data[off:]))
	off += 8
	p.Rounds = binary.BigEndian.Uint64(data[off:])
	off += 8
	p.Eta = math.Float64frombits(binary.BigEndian.Uint64(data[off:]))
	off += 8
	return p, nil
}

// Equal reports whether two Params blocks agree on every field the
// ConfigMismatch check covers (spec.md Sec 6: the Verifier rejects a Setup
// block from the Prover that doesn't match its own configuration).
func (p Params) Equal(o Params) bool {
	return p.N == o.N && p.D == o.D && p.K == o.K && p.S == o.S &&
		p.Epsilon == o.Epsilon && p.Delta == o.Delta &&
		p.Rounds == o.Rounds && p.Eta == o.Eta
}
