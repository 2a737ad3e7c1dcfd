package group

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/anupsv/certified-dp/internal/common"
)

// Params holds the two independent public generators g, h fixed at setup
// (spec Sec 3, 4.1). h is derived from g by a deterministic,
// unknown-discrete-log hash-to-curve of a canonical domain tag, not by an
// independently sampled point a prover could know the log of.
type Params struct {
	G Point
	H Point
}

// GenParams returns the canonical (g, h) pair. g is the standard BLS12-381
// G1 generator; h is hash-to-curve of a fixed domain-separated message, so
// no party — including the prover — ever learns log_g(h).
func GenParams() (Params, error) {
	_, _, g1, _ := bls12381.Generators()

	hPoint, err := bls12381.HashToG1([]byte("certified-dp/h-generator"), []byte(common.DSTGenerators))
	if err != nil {
		return Params{}, err
	}

	return Params{G: Point{p: g1}, H: Point{p: hPoint}}, nil
}
