package sigma

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/anupsv/certified-dp/pkg/group"
)

// BitProof is a non-interactive (Fiat-Shamir) OR-composition Sigma protocol
// proving that a Pedersen commitment opens to 0 or 1 (spec.md Sec 4.2). It
// is a Cramer-Damgard-Schoenmakers OR-proof over the two branch statements
// "C = r*H" (m=0) and "C - G = r*H" (m=1): exactly one branch is produced
// honestly, the other simulated, bound together by a single Fiat-Shamir
// challenge split across both branches.
type BitProof struct {
	A0, A1 group.Point
	E0, E1 *big.Int
	Z0, Z1 *big.Int
}

// ProveBit produces a BitProof that c = params.Commit(m, r) opens to a bit.
// m must be 0 or 1; any other value is a programmer error in the caller
// (the honest prover never calls this on a non-bit value).
func ProveBit(params group.Params, c group.Commitment, m, r *big.Int, rng io.Reader) (*BitProof, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if m.Sign() != 0 && m.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("sigma: ProveBit called on non-bit value %s", m.String())
	}
	real := 0
	if m.Cmp(big.NewInt(1)) == 0 {
		real = 1
	}

	branchPoint := func(branch int) group.Point {
		if branch == 0 {
			return c.Point
		}
		return c.Point.Sub(params.G)
	}

	kReal, err := group.SampleScalar(rng)
	if err != nil {
		return nil, err
	}
	aReal := params.H.ScalarMul(kReal)

	zSim, err := group.SampleScalar(rng)
	if err != nil {
		return nil, err
	}
	eSim, err := group.SampleScalar(rng)
	if err != nil {
		return nil, err
	}
	sim := 1 - real
	// A_sim = z_sim*H - e_sim*C_sim
	aSim := params.H.ScalarMul(zSim).Sub(branchPoint(sim).ScalarMul(eSim))

	var a0, a1 group.Point
	if real == 0 {
		a0, a1 = aReal, aSim
	} else {
		a0, a1 = aSim, aReal
	}

	e := challenge("bit", group.Commitment{Point: c.Point}, group.Commitment{Point: a0}, group.Commitment{Point: a1})

	eReal := subMod(e, eSim)
	zReal := addMod(kReal, mulMod(eReal, r))

	proof := &BitProof{A0: a0, A1: a1}
	if real == 0 {
		proof.E0, proof.Z0 = eReal, zReal
		proof.E1, proof.Z1 = eSim, zSim
	} else {
		proof.E0, proof.Z0 = eSim, zSim
		proof.E1, proof.Z1 = eReal, zReal
	}
	return proof, nil
}

// VerifyBit checks a BitProof against commitment c.
func VerifyBit(params group.Params, c group.Commitment, proof *BitProof) bool {
	e := challenge("bit", group.Commitment{Point: c.Point}, group.Commitment{Point: proof.A0}, group.Commitment{Point: proof.A1})
	if addMod(proof.E0, proof.E1).Cmp(e) != 0 {
		return false
	}

	lhs0 := params.H.ScalarMul(proof.Z0)
	rhs0 := proof.A0.Add(c.Point.ScalarMul(proof.E0))
	if !lhs0.Equal(rhs0) {
		return false
	}

	c1 := c.Point.Sub(params.G)
	lhs1 := params.H.ScalarMul(proof.Z1)
	rhs1 := proof.A1.Add(c1.ScalarMul(proof.E1))
	return lhs1.Equal(rhs1)
}
