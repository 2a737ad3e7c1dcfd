package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/monomial"
	"github.com/anupsv/certified-dp/pkg/sigma"
)

// BaseCommitment is one freshly-committed base bit inside a HonestCommit
// message: its position in the per-record base index set, the Pedersen
// commitment to it, and the proof that it commits to 0 or 1 (spec.md
// Sec 4.4 step 1).
type BaseCommitment struct {
	Index      uint32
	Commitment group.Commitment
	Proof      *sigma.BitProof
}

const baseCommitmentSize = 4 + group.PointSize + sigma.BitProofSize

func (b BaseCommitment) marshal() ([]byte, error) {
	buf := make([]byte, 0, baseCommitmentSize)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], b.Index)
	buf = append(buf, idx[:]...)
	cb := b.Commitment.Point.Bytes()
	buf = append(buf, cb[:]...)
	pb, err := b.Proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(buf, pb...), nil
}

func unmarshalBaseCommitment(data []byte) (BaseCommitment, error) {
	if len(data) != baseCommitmentSize {
		return BaseCommitment{}, &DecodeError{Field: "base_commitment"}
	}
	idx := binary.BigEndian.Uint32(data[0:4])
	pt, err := group.PointFromBytes(data[4:4+group.PointSize], true)
	if err != nil {
		return BaseCommitment{}, &DecodeError{Field: "base_commitment.point"}
	}
	proof, err := sigma.UnmarshalBitProof(data[4+group.PointSize:])
	if err != nil {
		return BaseCommitment{}, &DecodeError{Field: "base_commitment.proof"}
	}
	return BaseCommitment{Index: idx, Commitment: group.Commitment{Point: pt}, Proof: proof}, nil
}

// IntermediateCommitment is one step in a monomial's product-tree folding:
// the running product commitment, the product-proof binding it to the two
// factors being folded, and the bit-proof that the running product is
// itself still a bit (spec.md Sec 4.4 step 2).
type IntermediateCommitment struct {
	Commitment   group.Commitment
	ProductProof *sigma.ProductProof
	BitProof     *sigma.BitProof
}

const intermediateCommitmentSize = group.PointSize + sigma.ProductProofSize + sigma.BitProofSize

func (i IntermediateCommitment) marshal() ([]byte, error) {
	buf := make([]byte, 0, intermediateCommitmentSize)
	cb := i.Commitment.Point.Bytes()
	buf = append(buf, cb[:]...)
	pb, err := i.ProductProof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, pb...)
	bb, err := i.BitProof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(buf, bb...), nil
}

func unmarshalIntermediateCommitment(data []byte) (IntermediateCommitment, error) {
	if len(data) != intermediateCommitmentSize {
		return IntermediateCommitment{}, &DecodeError{Field: "intermediate_commitment"}
	}
	off := 0
	pt, err := group.PointFromBytes(data[off:off+group.PointSize], true)
	if err != nil {
		return IntermediateCommitment{}, &DecodeError{Field: "intermediate_commitment.point"}
	}
	off += group.PointSize
	pp, err := sigma.UnmarshalProductProof(data[off : off+sigma.ProductProofSize])
	if err != nil {
		return IntermediateCommitment{}, &DecodeError{Field: "intermediate_commitment.product_proof"}
	}
	off += sigma.ProductProofSize
	bp, err := sigma.UnmarshalBitProof(data[off : off+sigma.BitProofSize])
	if err != nil {
		return IntermediateCommitment{}, &DecodeError{Field: "intermediate_commitment.bit_proof"}
	}
	return IntermediateCommitment{Commitment: group.Commitment{Point: pt}, ProductProof: pp, BitProof: bp}, nil
}

// MonomialMessage is the per-monomial HonestCommit frame the Prover sends,
// in the canonical pkg/monomial.Enumerate order: any base bits this
// monomial is the first to reference, the chain of product-fold steps, and
// the final commitment C_m (spec.md Sec 4.4, Sec 6).
type MonomialMessage struct {
	NewBase       []BaseCommitment
	Intermediates []IntermediateCommitment
	Final         group.Commitment
}

// MarshalBinary encodes a MonomialMessage as
// [u16 numNewBase][u16 numIntermediates][newBase...][intermediates...][final].
func (m MonomialMessage) MarshalBinary() ([]byte, error) {
	if len(m.NewBase) > 0xFFFF || len(m.Intermediates) > 0xFFFF {
		return nil, fmt.Errorf("protocol: monomial message too large to encode")
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:2], uint16(len(m.NewBase)))
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(m.Intermediates)))
	for _, b := range m.NewBase {
		eb, err := b.marshal()
		if err != nil {
			return nil, err
		}
		buf = append(buf, eb...)
	}
	for _, ic := range m.Intermediates {
		eb, err := ic.marshal()
		if err != nil {
			return nil, err
		}
		buf = append(buf, eb...)
	}
	fb := m.Final.Point.Bytes()
	return append(buf, fb[:]...), nil
}

// UnmarshalMonomialMessage decodes a MonomialMessage from a frame body.
func UnmarshalMonomialMessage(data []byte) (MonomialMessage, error) {
	if len(data) < 4 {
		return MonomialMessage{}, &DecodeError{Field: "monomial_message.header"}
	}
	numNewBase := int(binary.BigEndian.Uint16(data[0:2]))
	numIntermediates := int(binary.BigEndian.Uint16(data[2:4]))
	off := 4

	newBase := make([]BaseCommitment, numNewBase)
	for i := 0; i < numNewBase; i++ {
		if off+baseCommitmentSize > len(data) {
			return MonomialMessage{}, &DecodeError{Field: "monomial_message.new_base"}
		}
		bc, err := unmarshalBaseCommitment(data[off : off+baseCommitmentSize])
		if err != nil {
			return MonomialMessage{}, err
		}
		newBase[i] = bc
		off += baseCommitmentSize
	}

	intermediates := make([]IntermediateCommitment, numIntermediates)
	for i := 0; i < numIntermediates; i++ {
		if off+intermediateCommitmentSize > len(data) {
			return MonomialMessage{}, &DecodeError{Field: "monomial_message.intermediates"}
		}
		ic, err := unmarshalIntermediateCommitment(data[off : off+intermediateCommitmentSize])
		if err != nil {
			return MonomialMessage{}, err
		}
		intermediates[i] = ic
		off += intermediateCommitmentSize
	}

	if off+group.PointSize != len(data) {
		return MonomialMessage{}, &DecodeError{Field: "monomial_message.final"}
	}
	pt, err := group.PointFromBytes(data[off:], true)
	if err != nil {
		return MonomialMessage{}, &DecodeError{Field: "monomial_message.final.point"}
	}
	return MonomialMessage{NewBase: newBase, Intermediates: intermediates, Final: group.Commitment{Point: pt}}, nil
}

// AckSubproofBit and AckSubproofProduct identify which kind of sub-proof a
// rejecting Ack or a *ProofRejected names.
const (
	AckSubproofBit     = "bit"
	AckSubproofProduct = "product"
)

// Ack is the Verifier's accept/reject reply. The endpoints exchange it only
// at Setup, where a rejection means a ConfigMismatch. HonestCommit monomial
// messages get no reply: the Prover streams them all without reading, and a
// failing sub-proof ends only the Verifier's side, with a *ProofRejected.
type Ack struct {
	Accepted bool
	Subproof string // only meaningful when !Accepted
}

func (a Ack) MarshalBinary() ([]byte, error) {
	if a.Accepted {
		return []byte{0}, nil
	}
	kind := byte(0)
	if a.Subproof == AckSubproofProduct {
		kind = 1
	}
	return []byte{1, kind}, nil
}

func UnmarshalAck(data []byte) (Ack, error) {
	if len(data) == 0 {
		return Ack{}, &DecodeError{Field: "ack"}
	}
	if data[0] == 0 {
		return Ack{Accepted: true}, nil
	}
	if len(data) != 2 {
		return Ack{}, &DecodeError{Field: "ack.subproof"}
	}
	subproof := AckSubproofBit
	if data[1] == 1 {
		subproof = AckSubproofProduct
	}
	return Ack{Accepted: false, Subproof: subproof}, nil
}

// DishonestRoundMessage is one DishonestCommit round's prover->verifier
// message: the commitment to the round's coin flip r_i, with a bit-proof
// (spec.md Sec 4.5 step 1).
type DishonestRoundMessage struct {
	Commitment group.Commitment
	Proof      *sigma.BitProof
}

const dishonestRoundMessageSize = group.PointSize + sigma.BitProofSize

func (d DishonestRoundMessage) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, dishonestRoundMessageSize)
	cb := d.Commitment.Point.Bytes()
	buf = append(buf, cb[:]...)
	pb, err := d.Proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return append(buf, pb...), nil
}

func UnmarshalDishonestRoundMessage(data []byte) (DishonestRoundMessage, error) {
	if len(data) != dishonestRoundMessageSize {
		return DishonestRoundMessage{}, &DecodeError{Field: "dishonest_round"}
	}
	pt, err := group.PointFromBytes(data[:group.PointSize], true)
	if err != nil {
		return DishonestRoundMessage{}, &DecodeError{Field: "dishonest_round.point"}
	}
	proof, err := sigma.UnmarshalBitProof(data[group.PointSize:])
	if err != nil {
		return DishonestRoundMessage{}, &DecodeError{Field: "dishonest_round.proof"}
	}
	return DishonestRoundMessage{Commitment: group.Commitment{Point: pt}, Proof: proof}, nil
}

// QueryMessage is the Verifier's Query-phase request: a sparse set of
// (monomial index, signed coefficient) terms (spec.md Sec 4.7, Sec 6).
type QueryMessage struct {
	Terms monomial.Query
}

func (q QueryMessage) MarshalBinary() ([]byte, error) {
	if len(q.Terms) > 0xFFFF {
		return nil, fmt.Errorf("protocol: query has too many terms to encode")
	}
	buf := make([]byte, 2, 2+5*len(q.Terms))
	binary.BigEndian.PutUint16(buf, uint16(len(q.Terms)))
	for _, t := range q.Terms {
		var idx [4]byte
		binary.BigEndian.PutUint32(idx[:], t.MonomialIndex)
		buf = append(buf, idx[:]...)
		buf = append(buf, byte(t.Coef))
	}
	return buf, nil
}

func UnmarshalQueryMessage(data []byte) (QueryMessage, error) {
	if len(data) < 2 {
		return QueryMessage{}, &DecodeError{Field: "query.header"}
	}
	n := int(binary.BigEndian.Uint16(data[0:2]))
	off := 2
	terms := make(monomial.Query, n)
	for i := 0; i < n; i++ {
		if off+5 > len(data) {
			return QueryMessage{}, &DecodeError{Field: "query.terms"}
		}
		idx := binary.BigEndian.Uint32(data[off : off+4])
		coef := int8(data[off+4])
		terms[i] = monomial.Term{MonomialIndex: idx, Coef: coef}
		off += 5
	}
	if off != len(data) {
		return QueryMessage{}, &DecodeError{Field: "query.trailing"}
	}
	return QueryMessage{Terms: terms}, nil
}

// AnswerMessage is the Prover's Query-phase response: the noised answer Y'
// and the blinding needed to open its commitment (spec.md Sec 4.7 step 3).
type AnswerMessage struct {
	Value    int64
	Blinding [group.ScalarSize]byte
}

const answerMessageSize = 8 + group.ScalarSize

func (a AnswerMessage) MarshalBinary() ([]byte, error) {
	buf := make([]byte, answerMessageSize)
	binary.BigEndian.PutUint64(buf[0:8], uint64(a.Value))
	copy(buf[8:], a.Blinding[:])
	return buf, nil
}

func UnmarshalAnswerMessage(data []byte) (AnswerMessage, error) {
	if len(data) != answerMessageSize {
		return AnswerMessage{}, &DecodeError{Field: "answer"}
	}
	var a AnswerMessage
	a.Value = int64(binary.BigEndian.Uint64(data[0:8]))
	copy(a.Blinding[:], data[8:])
	return a, nil
}
