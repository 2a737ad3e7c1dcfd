// Package sigma implements the two Fiat-Shamir Sigma protocols the protocol
// driver composes: the bit proof (spec.md Sec 4.2) and the product proof
// (spec.md Sec 4.3).
package sigma

import (
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/anupsv/certified-dp/pkg/group"
)

// challenge hashes a domain tag together with an ordered list of canonical
// point encodings into a scalar mod q, implementing the Fiat-Shamir
// transform used by both protocols (spec.md Sec 4.2/4.3: "e = H(tag ‖ ...)").
func challenge(tag string, points ...group.Commitment) *big.Int {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for an oversized key, and we pass none.
		panic(err)
	}
	h.Write([]byte(tag))
	for _, p := range points {
		b := p.Bytes()
		h.Write(b[:])
	}
	digest := h.Sum(nil)
	e := new(big.Int).SetBytes(digest)
	return e.Mod(e, group.Order)
}

func addMod(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, group.Order)
}

func subMod(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, group.Order)
}

func mulMod(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, group.Order)
}
