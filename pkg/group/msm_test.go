package group

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiScalarMulMatchesSequentialFold(t *testing.T) {
	params, err := GenParams()
	require.NoError(t, err)

	n := 5
	points := make([]Point, n)
	scalars := make([]*big.Int, n)
	var want Point = Identity()
	for i := 0; i < n; i++ {
		s, err := SampleScalar(rand.Reader)
		require.NoError(t, err)
		scalars[i] = s
		points[i] = params.G.ScalarMul(big.NewInt(int64(i + 1)))
		want = want.Add(points[i].ScalarMul(s))
	}

	got, err := MultiScalarMul(points, scalars)
	require.NoError(t, err)
	require.True(t, want.Equal(got))
}

func TestMultiScalarMulEmpty(t *testing.T) {
	got, err := MultiScalarMul(nil, nil)
	require.NoError(t, err)
	require.True(t, got.IsIdentity())
}

func TestMultiScalarMulRejectsMismatchedLengths(t *testing.T) {
	params, err := GenParams()
	require.NoError(t, err)
	_, err = MultiScalarMul([]Point{params.G}, nil)
	require.Error(t, err)
}
