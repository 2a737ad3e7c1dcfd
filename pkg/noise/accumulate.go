package noise

import (
	"math/big"

	"github.com/anupsv/certified-dp/pkg/group"
)

// AccumulateOpenings folds a sequence of per-round x_i openings into the
// single noise opening (X, rho_X) the prover holds (spec.md Sec 4.5: "X =
// Sum_i x_i ... opening blinding rho_X = Sum_i (+-) rho_i").
func AccumulateOpenings(rounds []group.Opening) group.Opening {
	acc := group.Opening{
		Commitment: group.Commitment{Point: group.Identity()},
		M:          big.NewInt(0),
		R:          big.NewInt(0),
	}
	for _, r := range rounds {
		acc = group.AddOpenings(acc, r)
	}
	return acc
}

// AccumulateCommitments folds the verifier's per-round commitments into the
// single C_X both sides hold (spec.md Sec 4.5: "committed by C_X = Prod_i
// C_{x_i}"), via a multi-scalar multiplication with all-one weights rather
// than N sequential point additions (grounded on pkg/crypto/msm.go's
// batch-folding role, adapted here for round accumulation instead of
// signature verification).
func AccumulateCommitments(commitments []group.Commitment) group.Commitment {
	if len(commitments) == 0 {
		return group.Commitment{Point: group.Identity()}
	}
	points := make([]group.Point, len(commitments))
	ones := make([]*big.Int, len(commitments))
	one := big.NewInt(1)
	for i, c := range commitments {
		points[i] = c.Point
		ones[i] = one
	}
	sum, err := group.MultiScalarMul(points, ones)
	if err != nil {
		// Can't happen: points and ones always have matching lengths.
		panic(err)
	}
	return group.Commitment{Point: sum}
}
