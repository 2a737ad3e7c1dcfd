package protocol

import (
	"io"
	"math/big"

	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/monomial"
)

// ComputeAnswer folds a query's sparse terms against the prover's monomial
// openings and the accumulated noise opening into the noised answer Y' and
// its blinding (spec.md Sec 4.7 step 2): Y' = sum(coef_i * m_i) + X, opened
// under rho_Y' = sum(coef_i * r_i) + rho_X.
func ComputeAnswer(params group.Params, q monomial.Query, monomialOpenings []MonomialOpening, noiseOpening group.Opening) (AnswerMessage, error) {
	acc := noiseOpening
	for _, t := range q {
		if int(t.MonomialIndex) >= len(monomialOpenings) {
			return AnswerMessage{}, &DecodeError{Field: "query.term.index"}
		}
		term := group.ScalarMulOpening(monomialOpenings[t.MonomialIndex].Opening, big.NewInt(int64(t.Coef)))
		acc = group.AddOpenings(acc, term)
	}
	// acc.M is reduced mod Order; a residue above Order/2 stands for the
	// negative sum a query with negative coefficients can produce.
	value := new(big.Int).Set(acc.M)
	if value.Cmp(new(big.Int).Rsh(group.Order, 1)) > 0 {
		value.Sub(value, group.Order)
	}
	return AnswerMessage{
		Value:    value.Int64(),
		Blinding: group.ScalarBytes(acc.R),
	}, nil
}

// VerifyAnswer recomputes the expected commitment to the noised answer from
// the verifier's own monomial and noise commitments, then checks the
// prover's claimed (Y', rho_Y') opens it (spec.md Sec 4.7 step 3).
func VerifyAnswer(params group.Params, q monomial.Query, monomialCommitments []group.Commitment, noiseCommitment group.Commitment, answer AnswerMessage) (bool, int64) {
	points := make([]group.Point, 0, len(q)+1)
	scalars := make([]*big.Int, 0, len(q)+1)
	points = append(points, noiseCommitment.Point)
	scalars = append(scalars, big.NewInt(1))
	for _, t := range q {
		if int(t.MonomialIndex) >= len(monomialCommitments) {
			return false, 0
		}
		points = append(points, monomialCommitments[t.MonomialIndex].Point)
		scalars = append(scalars, big.NewInt(int64(t.Coef)))
	}
	expectedPoint, err := group.MultiScalarMul(points, scalars)
	if err != nil {
		return false, 0
	}
	expected := group.Commitment{Point: expectedPoint}

	rho, err := group.ScalarFromBytes(answer.Blinding[:])
	if err != nil {
		return false, 0
	}
	ok := params.Open(expected, big.NewInt(answer.Value), rho)
	return ok, answer.Value
}

// RunQueryProver reads a QueryMessage from rw, answers it, and writes the
// AnswerMessage back.
func RunQueryProver(rw io.ReadWriter, params group.Params, monomialOpenings []MonomialOpening, noiseOpening group.Opening) error {
	body, err := ReadFrame(rw)
	if err != nil {
		return err
	}
	q, err := UnmarshalQueryMessage(body)
	if err != nil {
		return err
	}
	if err := q.Terms.Validate(len(q.Terms), len(monomialOpenings)); err != nil {
		return &DecodeError{Field: "query.terms"}
	}
	answer, err := ComputeAnswer(params, q.Terms, monomialOpenings, noiseOpening)
	if err != nil {
		return err
	}
	answerBody, err := answer.MarshalBinary()
	if err != nil {
		return err
	}
	return WriteFrame(rw, answerBody)
}

// RunQueryVerifier sends a query over rw, reads the answer, and checks it,
// returning the verified answer value.
func RunQueryVerifier(rw io.ReadWriter, params group.Params, q monomial.Query, monomialCommitments []group.Commitment, noiseCommitment group.Commitment) (int64, error) {
	msg := QueryMessage{Terms: q}
	body, err := msg.MarshalBinary()
	if err != nil {
		return 0, err
	}
	if err := WriteFrame(rw, body); err != nil {
		return 0, err
	}

	answerBody, err := ReadFrame(rw)
	if err != nil {
		return 0, err
	}
	answer, err := UnmarshalAnswerMessage(answerBody)
	if err != nil {
		return 0, err
	}

	ok, value := VerifyAnswer(params, q, monomialCommitments, noiseCommitment, answer)
	if !ok {
		return 0, &ProofRejected{Phase: PhaseQuery, Index: 0, Subproof: "opening"}
	}
	return value, nil
}
