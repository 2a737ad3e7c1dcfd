// Package common provides shared constants (the group order and domain
// separation tags) used throughout the certified-dp protocol engine.
//
// This is an internal package not intended for direct use by applications;
// it supports the implementation of the public pkg/* packages.
package common

import "math/big"

// Order is the order of the BLS12-381 G1 subgroup used as the protocol's
// prime-order group. All scalar arithmetic is performed modulo Order.
var Order, _ = new(big.Int).SetString(
	"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

// Domain separation tags. Every Fiat-Shamir hash and every hash-to-curve
// call is tagged so that transcripts from different protocol steps can
// never collide.
const (
	// DSTGenerators tags the deterministic derivation of the second Pedersen
	// generator h from the fixed first generator g.
	// The tag names the suite of gnark-crypto's HashToG1, which expands the
	// message with SHA-256.
	DSTGenerators = "CERTDP_BLS12381G1_XMD:SHA-256_H_GEN_"

	// DSTBitProof is a domain tag reserved for the bit-Sigma protocol. No
	// code reads it: pkg/sigma tags the bit-proof challenge with the literal
	// string "bit".
	DSTBitProof = "CERTDP_BLS12381_BIT_PROOF_"

	// DSTProductProof is a domain tag reserved for the product-Sigma
	// protocol. No code reads it: pkg/sigma tags the product-proof challenge
	// with the literal string "prod".
	DSTProductProof = "CERTDP_BLS12381_PRODUCT_PROOF_"
)
