package sigma

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anupsv/certified-dp/pkg/group"
)

func mustParams(t *testing.T) group.Params {
	t.Helper()
	p, err := group.GenParams()
	require.NoError(t, err)
	return p
}

func TestBitProofAcceptsZeroAndOne(t *testing.T) {
	params := mustParams(t)
	for _, m := range []int64{0, 1} {
		r, err := group.SampleScalar(rand.Reader)
		require.NoError(t, err)
		mb := big.NewInt(m)
		c := params.Commit(mb, r)

		proof, err := ProveBit(params, c, mb, r, rand.Reader)
		require.NoError(t, err)
		require.True(t, VerifyBit(params, c, proof))
	}
}

func TestBitProofRejectsNonBitCommitment(t *testing.T) {
	params := mustParams(t)
	r, _ := group.SampleScalar(rand.Reader)
	m := big.NewInt(2)
	c := params.Commit(m, r)

	_, err := ProveBit(params, c, m, r, rand.Reader)
	require.Error(t, err, "ProveBit must refuse to prove a non-bit value")
}

func TestBitProofRejectsTamperedTranscript(t *testing.T) {
	params := mustParams(t)
	r, _ := group.SampleScalar(rand.Reader)
	m := big.NewInt(1)
	c := params.Commit(m, r)

	proof, err := ProveBit(params, c, m, r, rand.Reader)
	require.NoError(t, err)
	require.True(t, VerifyBit(params, c, proof))

	tampered := *proof
	tampered.Z0 = new(big.Int).Add(proof.Z0, big.NewInt(1))
	require.False(t, VerifyBit(params, c, &tampered))
}

func TestProductProofHoldsForRealProduct(t *testing.T) {
	params := mustParams(t)

	a := big.NewInt(1)
	b := big.NewInt(1)
	c := new(big.Int).Mul(a, b)

	ra, _ := group.SampleScalar(rand.Reader)
	rb, _ := group.SampleScalar(rand.Reader)
	rc, _ := group.SampleScalar(rand.Reader)

	oa := params.CommitWithOpening(a, ra)
	ob := params.CommitWithOpening(b, rb)
	oc := params.CommitWithOpening(c, rc)

	proof, err := ProveProduct(params, oa, ob, oc, rand.Reader)
	require.NoError(t, err)
	require.True(t, VerifyProduct(params, oa.Commitment, ob.Commitment, oc.Commitment, proof))
}

func TestProductProofRejectsWrongProduct(t *testing.T) {
	params := mustParams(t)

	a := big.NewInt(1)
	b := big.NewInt(0)
	wrongC := big.NewInt(1) // should be 0

	ra, _ := group.SampleScalar(rand.Reader)
	rb, _ := group.SampleScalar(rand.Reader)
	rc, _ := group.SampleScalar(rand.Reader)

	oa := params.CommitWithOpening(a, ra)
	ob := params.CommitWithOpening(b, rb)
	oc := params.CommitWithOpening(wrongC, rc)

	proof, err := ProveProduct(params, oa, ob, oc, rand.Reader)
	require.NoError(t, err)
	require.False(t, VerifyProduct(params, oa.Commitment, ob.Commitment, oc.Commitment, proof))
}
