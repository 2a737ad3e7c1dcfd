package sigma

import (
	"fmt"
	"math/big"

	"github.com/anupsv/certified-dp/pkg/group"
)

// BitProofSize is the fixed wire width of a marshaled BitProof: two points
// and four scalars.
const BitProofSize = 2*group.PointSize + 4*group.ScalarSize

// MarshalBinary encodes a BitProof in the fixed-width layout
// [A0][A1][E0][E1][Z0][Z1].
func (p *BitProof) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, BitProofSize)
	a0 := p.A0.Bytes()
	a1 := p.A1.Bytes()
	buf = append(buf, a0[:]...)
	buf = append(buf, a1[:]...)
	for _, s := range []*big.Int{p.E0, p.E1, p.Z0, p.Z1} {
		b := group.ScalarBytes(s)
		buf = append(buf, b[:]...)
	}
	return buf, nil
}

// UnmarshalBitProof decodes a BitProof from its fixed-width wire encoding.
func UnmarshalBitProof(data []byte) (*BitProof, error) {
	if len(data) != BitProofSize {
		return nil, fmt.Errorf("sigma: bit proof has wrong length %d", len(data))
	}
	off := 0
	readPoint := func() (group.Point, error) {
		p, err := group.PointFromBytes(data[off:off+group.PointSize], true)
		off += group.PointSize
		return p, err
	}
	readScalar := func() (*big.Int, error) {
		s, err := group.ScalarFromBytes(data[off : off+group.ScalarSize])
		off += group.ScalarSize
		return s, err
	}

	a0, err := readPoint()
	if err != nil {
		return nil, err
	}
	a1, err := readPoint()
	if err != nil {
		return nil, err
	}
	e0, err := readScalar()
	if err != nil {
		return nil, err
	}
	e1, err := readScalar()
	if err != nil {
		return nil, err
	}
	z0, err := readScalar()
	if err != nil {
		return nil, err
	}
	z1, err := readScalar()
	if err != nil {
		return nil, err
	}
	return &BitProof{A0: a0, A1: a1, E0: e0, E1: e1, Z0: z0, Z1: z1}, nil
}

// ProductProofSize is the fixed wire width of a marshaled ProductProof:
// three points and six scalars (E plus the five response scalars).
const ProductProofSize = 3*group.PointSize + 6*group.ScalarSize

// MarshalBinary encodes a ProductProof in the fixed-width layout
// [A][B][D][E][Za][Zb][Zab][Zr][Zrb].
func (p *ProductProof) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, ProductProofSize)
	for _, pt := range []group.Point{p.A, p.B, p.D} {
		b := pt.Bytes()
		buf = append(buf, b[:]...)
	}
	for _, s := range []*big.Int{p.E, p.Za, p.Zb, p.Zab, p.Zr, p.Zrb} {
		b := group.ScalarBytes(s)
		buf = append(buf, b[:]...)
	}
	return buf, nil
}

// UnmarshalProductProof decodes a ProductProof from its fixed-width wire
// encoding.
func UnmarshalProductProof(data []byte) (*ProductProof, error) {
	if len(data) != ProductProofSize {
		return nil, fmt.Errorf("sigma: product proof has wrong length %d", len(data))
	}
	off := 0
	readPoint := func() (group.Point, error) {
		p, err := group.PointFromBytes(data[off:off+group.PointSize], true)
		off += group.PointSize
		return p, err
	}
	readScalar := func() (*big.Int, error) {
		s, err := group.ScalarFromBytes(data[off : off+group.ScalarSize])
		off += group.ScalarSize
		return s, err
	}

	a, err := readPoint()
	if err != nil {
		return nil, err
	}
	b, err := readPoint()
	if err != nil {
		return nil, err
	}
	d, err := readPoint()
	if err != nil {
		return nil, err
	}
	e, err := readScalar()
	if err != nil {
		return nil, err
	}
	za, err := readScalar()
	if err != nil {
		return nil, err
	}
	zb, err := readScalar()
	if err != nil {
		return nil, err
	}
	zab, err := readScalar()
	if err != nil {
		return nil, err
	}
	zr, err := readScalar()
	if err != nil {
		return nil, err
	}
	zrb, err := readScalar()
	if err != nil {
		return nil, err
	}
	return &ProductProof{A: a, B: b, D: d, E: e, Za: za, Zb: zb, Zab: zab, Zr: zr, Zrb: zrb}, nil
}
