package group

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHomomorphism(t *testing.T) {
	params, err := GenParams()
	require.NoError(t, err)

	m1, err := SampleScalar(rand.Reader)
	require.NoError(t, err)
	r1, err := SampleScalar(rand.Reader)
	require.NoError(t, err)
	m2, err := SampleScalar(rand.Reader)
	require.NoError(t, err)
	r2, err := SampleScalar(rand.Reader)
	require.NoError(t, err)

	c1 := params.Commit(m1, r1)
	c2 := params.Commit(m2, r2)

	sum := Add(c1, c2)

	mSum := new(big.Int).Add(m1, m2)
	mSum.Mod(mSum, Order)
	rSum := new(big.Int).Add(r1, r2)
	rSum.Mod(rSum, Order)
	expected := params.Commit(mSum, rSum)

	require.True(t, sum.Point.Equal(expected.Point), "commit(m1,r1)+commit(m2,r2) must equal commit(m1+m2,r1+r2)")
}

func TestOpenRejectsWrongOpening(t *testing.T) {
	params, err := GenParams()
	require.NoError(t, err)

	m, _ := SampleScalar(rand.Reader)
	r, _ := SampleScalar(rand.Reader)
	c := params.Commit(m, r)

	require.True(t, params.Open(c, m, r))

	wrong := new(big.Int).Add(m, big.NewInt(1))
	require.False(t, params.Open(c, wrong, r))
}

func TestScalarRoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		s, err := SampleScalar(rand.Reader)
		require.NoError(t, err)

		enc := ScalarBytes(s)
		dec, err := ScalarFromBytes(enc[:])
		require.NoError(t, err)
		require.Equal(t, 0, s.Cmp(dec))
	}
}

func TestPointRoundTrip(t *testing.T) {
	params, err := GenParams()
	require.NoError(t, err)

	m, _ := SampleScalar(rand.Reader)
	r, _ := SampleScalar(rand.Reader)
	c := params.Commit(m, r)

	enc := c.Bytes()
	dec, err := CommitmentFromBytes(enc[:])
	require.NoError(t, err)
	require.True(t, c.Point.Equal(dec.Point))
}

func TestIdentityRejectedWhenDisallowed(t *testing.T) {
	id := Identity()
	enc := id.Bytes()
	_, err := PointFromBytes(enc[:], false)
	require.Error(t, err)

	_, err = PointFromBytes(enc[:], true)
	require.NoError(t, err)
}

func TestGenParamsDeterministic(t *testing.T) {
	p1, err := GenParams()
	require.NoError(t, err)
	p2, err := GenParams()
	require.NoError(t, err)
	require.True(t, p1.G.Equal(p2.G))
	require.True(t, p1.H.Equal(p2.H))
	require.False(t, p1.G.Equal(p1.H), "g and h must be independent generators")
}
