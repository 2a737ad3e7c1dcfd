package group

import "math/big"

// ScalarSize is the canonical little-endian encoding width of a scalar mod
// Order, matching spec.md's 32-byte scalar fields exactly (Order fits
// comfortably in 32 bytes).
const ScalarSize = 32

// ScalarBytes encodes s as ScalarSize little-endian bytes, reduced mod Order.
func ScalarBytes(s *big.Int) [ScalarSize]byte {
	b := reduce(s).Bytes() // big-endian, no leading zeros
	if len(b) > ScalarSize {
		// can't happen for Order < 2^256, kept as an explicit invariant check
		panic("group: scalar too large for canonical encoding")
	}
	var out [ScalarSize]byte
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// ScalarFromBytes decodes a little-endian scalar, reducing mod Order.
func ScalarFromBytes(data []byte) (*big.Int, error) {
	if len(data) != ScalarSize {
		return nil, errScalarLength(len(data))
	}
	be := make([]byte, ScalarSize)
	for i := 0; i < ScalarSize; i++ {
		be[i] = data[ScalarSize-1-i]
	}
	s := new(big.Int).SetBytes(be)
	return s.Mod(s, Order), nil
}

func errScalarLength(n int) error {
	return &scalarLengthError{n: n}
}

type scalarLengthError struct{ n int }

func (e *scalarLengthError) Error() string {
	return "group: encoded scalar has wrong length"
}

// Bytes returns the canonical compressed encoding of the commitment's point.
func (c Commitment) Bytes() [PointSize]byte {
	return c.Point.Bytes()
}

// CommitmentFromBytes decodes a canonical commitment encoding. The identity
// is a legal commitment value (to m=0, r=0), so it is always accepted here;
// callers needing the stricter nonzero-sourced rule apply it themselves.
func CommitmentFromBytes(data []byte) (Commitment, error) {
	p, err := PointFromBytes(data, true)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{Point: p}, nil
}
