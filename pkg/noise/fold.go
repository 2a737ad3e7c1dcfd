package noise

import (
	"math/big"

	"github.com/anupsv/certified-dp/pkg/group"
)

// one returns the public commitment to 1 with blinding 0 (spec.md Sec 4.5's
// "C_one"), used to flip a round's commitment without revealing r_i.
func one(params group.Params) group.Opening {
	return group.Opening{
		Commitment: group.Commitment{Point: params.G},
		M:          big.NewInt(1),
		R:          big.NewInt(0),
	}
}

// FoldRound computes the commitment-with-opening to x_i = r_i XOR c_i from
// the prover's committed coin r (with its opening) and the verifier's
// challenge bit c, without ever opening r itself (spec.md Sec 4.5 step 3).
func FoldRound(params group.Params, r group.Opening, c byte) group.Opening {
	if c == 0 {
		// Copy rather than alias r: the caller zeroizes r's scalars once its
		// round opening is consumed, and the c==1 branch below already
		// returns freshly allocated scalars via SubOpenings.
		return group.Opening{
			Commitment: r.Commitment,
			M:          new(big.Int).Set(r.M),
			R:          new(big.Int).Set(r.R),
		}
	}
	return group.SubOpenings(one(params), r)
}

// FoldRoundCommitment mirrors FoldRound on the verifier's side, which only
// has the commitment C_r (no opening).
func FoldRoundCommitment(params group.Params, cr group.Commitment, c byte) group.Commitment {
	if c == 0 {
		return cr
	}
	cOne := group.Commitment{Point: params.G}
	return group.Sub(cOne, cr)
}
