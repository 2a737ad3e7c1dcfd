package group

import "math/big"

// Commitment is a Pedersen commitment C = g^m * h^r (written additively:
// C = m*G + r*H), to a message m under blinding r (spec Sec 3).
type Commitment struct {
	Point Point
}

// Opening pairs a commitment with the (message, blinding) that produced it.
// It exists only on the prover's side; it is never sent on the wire as a
// whole (its two scalar fields are what gets revealed, individually, when a
// commitment is opened).
type Opening struct {
	Commitment Commitment
	M          *big.Int
	R          *big.Int
}

// Commit computes C = m*G + r*H.
func (p Params) Commit(m, r *big.Int) Commitment {
	mg := p.G.ScalarMul(m)
	rh := p.H.ScalarMul(r)
	return Commitment{Point: mg.Add(rh)}
}

// CommitWithOpening is a convenience wrapper returning both the commitment
// and its opening, for the common case of committing fresh prover state.
func (p Params) CommitWithOpening(m, r *big.Int) Opening {
	return Opening{Commitment: p.Commit(m, r), M: m, R: r}
}

// Open reports whether C opens to (m, r) under p.
func (p Params) Open(c Commitment, m, r *big.Int) bool {
	return p.Commit(m, r).Point.Equal(c.Point)
}

// Add returns the commitment to (m1+m2, r1+r2), computed homomorphically
// without knowledge of either opening.
func Add(c1, c2 Commitment) Commitment {
	return Commitment{Point: c1.Point.Add(c2.Point)}
}

// Sub returns the commitment to (m1-m2, r1-r2).
func Sub(c1, c2 Commitment) Commitment {
	return Commitment{Point: c1.Point.Sub(c2.Point)}
}

// ScalarMul returns the commitment to (a*m, a*r), i.e. C raised to the a-th
// power in multiplicative notation.
func ScalarMul(c Commitment, a *big.Int) Commitment {
	return Commitment{Point: c.Point.ScalarMul(a)}
}

// AddOpenings folds two openings the same way Add folds their commitments,
// so the prover's bookkeeping mirrors the verifier's homomorphic view.
func AddOpenings(o1, o2 Opening) Opening {
	m := new(big.Int).Add(o1.M, o2.M)
	m.Mod(m, Order)
	r := new(big.Int).Add(o1.R, o2.R)
	r.Mod(r, Order)
	return Opening{Commitment: Add(o1.Commitment, o2.Commitment), M: m, R: r}
}

// SubOpenings folds two openings the same way Sub folds their commitments.
func SubOpenings(o1, o2 Opening) Opening {
	m := new(big.Int).Sub(o1.M, o2.M)
	m.Mod(m, Order)
	r := new(big.Int).Sub(o1.R, o2.R)
	r.Mod(r, Order)
	return Opening{Commitment: Sub(o1.Commitment, o2.Commitment), M: m, R: r}
}

// ScalarMulOpening scales an opening by a, matching ScalarMul on the
// commitment side.
func ScalarMulOpening(o Opening, a *big.Int) Opening {
	m := new(big.Int).Mul(o.M, a)
	m.Mod(m, Order)
	r := new(big.Int).Mul(o.R, a)
	r.Mod(r, Order)
	return Opening{Commitment: ScalarMul(o.Commitment, a), M: m, R: r}
}

// Zeroize scrubs the secret fields of an opening, leaving the public
// commitment intact (spec Sec 5: blindings are zeroized on drop).
func (o *Opening) Zeroize() {
	Zeroize(o.M)
	Zeroize(o.R)
}
