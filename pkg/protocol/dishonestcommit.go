package protocol

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/noise"
	"github.com/anupsv/certified-dp/pkg/sigma"
)

// RunDishonestCommitProver runs the N-round binomial noise commitment
// (spec.md Sec 4.5): for each round the prover commits a random coin r_i
// with a bit-proof, reads the verifier's challenge bit c_i, and folds the
// round into x_i without ever revealing r_i, returning the accumulated
// noise opening (X, rho_X).
func RunDishonestCommitProver(rw io.ReadWriter, params group.Params, rounds int) (group.Opening, error) {
	roundOpenings := make([]group.Opening, rounds)
	for i := 0; i < rounds; i++ {
		r, err := group.SampleScalar(rand.Reader)
		if err != nil {
			return group.Opening{}, err
		}
		bit := r.Bit(0)
		rOpening := params.CommitWithOpening(big.NewInt(int64(bit)), r)
		proof, err := sigma.ProveBit(params, rOpening.Commitment, rOpening.M, rOpening.R, rand.Reader)
		if err != nil {
			return group.Opening{}, err
		}

		msg := DishonestRoundMessage{Commitment: rOpening.Commitment, Proof: proof}
		body, err := msg.MarshalBinary()
		if err != nil {
			return group.Opening{}, err
		}
		if err := WriteFrame(rw, body); err != nil {
			return group.Opening{}, err
		}

		challengeBody, err := ReadFrame(rw)
		if err != nil {
			return group.Opening{}, err
		}
		if len(challengeBody) != 1 {
			return group.Opening{}, &DecodeError{Field: "dishonest_commit.challenge"}
		}
		c := challengeBody[0] & 1

		roundOpenings[i] = noise.FoldRound(params, rOpening, c)
		rOpening.Zeroize()
	}
	return noise.AccumulateOpenings(roundOpenings), nil
}

// RunDishonestCommitVerifier is the verifier side of the same exchange: for
// each round it reads the prover's committed coin, checks the bit-proof,
// draws and sends a fresh random challenge bit, and folds the round's
// commitment, returning the accumulated noise commitment C_X.
func RunDishonestCommitVerifier(rw io.ReadWriter, params group.Params, rounds int) (group.Commitment, error) {
	roundCommitments := make([]group.Commitment, rounds)
	for i := 0; i < rounds; i++ {
		body, err := ReadFrame(rw)
		if err != nil {
			return group.Commitment{}, err
		}
		msg, err := UnmarshalDishonestRoundMessage(body)
		if err != nil {
			return group.Commitment{}, err
		}
		if !sigma.VerifyBit(params, msg.Commitment, msg.Proof) {
			return group.Commitment{}, &ProofRejected{Phase: PhaseDishonestCommit, Index: i, Subproof: AckSubproofBit}
		}

		cBuf := make([]byte, 1)
		if _, err := rand.Read(cBuf); err != nil {
			return group.Commitment{}, err
		}
		c := cBuf[0] & 1
		if err := WriteFrame(rw, []byte{c}); err != nil {
			return group.Commitment{}, err
		}

		roundCommitments[i] = noise.FoldRoundCommitment(params, msg.Commitment, c)
	}
	return noise.AccumulateCommitments(roundCommitments), nil
}
