package monomial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnumerateCountMatchesScenario(t *testing.T) {
	// spec.md Sec 8 scenarios 1-2: d=k=7 always yields 127 = 2^7-1
	// monomials, independent of n, confirming the empty monomial is
	// excluded.
	set := Enumerate(7, 7)
	require.Len(t, set, 127)
	require.Equal(t, 127, Count(7, 7))
}

func TestEnumerateExcludesEmptyMonomial(t *testing.T) {
	set := Enumerate(4, 2)
	for _, m := range set {
		require.NotEmpty(t, m)
	}
}

func TestEnumerateOrderIsPositionalAndDeterministic(t *testing.T) {
	a := Enumerate(6, 3)
	b := Enumerate(6, 3)
	require.Equal(t, a, b, "enumeration must be a pure, order-preserving function of (d,k)")
}

func TestMonomialValueIsAndProduct(t *testing.T) {
	base := []byte{1, 1, 0, 1}
	require.Equal(t, byte(1), Monomial{0, 1}.Value(base))
	require.Equal(t, byte(0), Monomial{0, 2}.Value(base))
	require.Equal(t, byte(0), Monomial{1, 2, 3}.Value(base))
}

func TestQueryValidateRejectsOverSparsity(t *testing.T) {
	q := Query{{0, 1}, {1, 1}, {2, -1}}
	require.Error(t, q.Validate(2, 10))
	require.NoError(t, q.Validate(3, 10))
}

func TestQueryValidateRejectsDuplicateIndex(t *testing.T) {
	q := Query{{0, 1}, {0, -1}}
	require.Error(t, q.Validate(5, 10))
}

func TestQueryEvaluate(t *testing.T) {
	values := []byte{1, 0, 1, 1}
	q := Query{{0, 1}, {2, 1}, {3, -1}}
	require.Equal(t, int64(1), Evaluate(q, values))
}
