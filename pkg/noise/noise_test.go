package noise

import (
	"crypto/rand"
	"math"
	"math/big"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anupsv/certified-dp/pkg/group"
)

func TestAccumulateCommitmentsMatchesSequentialSum(t *testing.T) {
	params, err := group.GenParams()
	require.NoError(t, err)

	openings := make([]group.Opening, 4)
	var want group.Commitment
	for i := range openings {
		r, err := group.SampleScalar(rand.Reader)
		require.NoError(t, err)
		openings[i] = params.CommitWithOpening(big.NewInt(int64(i)), r)
		if i == 0 {
			want = openings[i].Commitment
		} else {
			want = group.Add(want, openings[i].Commitment)
		}
	}
	commitments := make([]group.Commitment, len(openings))
	for i, o := range openings {
		commitments[i] = o.Commitment
	}

	got := AccumulateCommitments(commitments)
	require.True(t, want.Point.Equal(got.Point))

	opening := AccumulateOpenings(openings)
	require.True(t, params.Open(opening.Commitment, opening.M, opening.R))
}

func TestCalibrateNScalesWithEpsilonRatioSquared(t *testing.T) {
	// spec.md Sec 8 scenario 3: N grows by ~(epsilon ratio)^2 as epsilon
	// shrinks from 1 to 0.1.
	n1 := CalibrateN(1.0, DefaultDelta, 7)
	n2 := CalibrateN(0.1, DefaultDelta, 7)

	ratio := float64(n2) / float64(n1)
	require.InDelta(t, 100.0, ratio, 5.0, "N should scale ~100x when epsilon shrinks 10x")
}

func TestCalibrateNIsEven(t *testing.T) {
	for _, eps := range []float64{1, 0.5, 0.1, 2} {
		n := CalibrateN(eps, DefaultDelta, 7)
		require.Equal(t, 0, n%2)
	}
}

func TestFoldRoundMatchesXOR(t *testing.T) {
	params, err := group.GenParams()
	require.NoError(t, err)

	for _, r := range []int64{0, 1} {
		for _, c := range []byte{0, 1} {
			rho, _ := group.SampleScalar(rand.Reader)
			rOpening := params.CommitWithOpening(big.NewInt(r), rho)

			x := FoldRound(params, rOpening, c)

			expected := r ^ int64(c)
			require.Equal(t, big.NewInt(expected).Int64(), x.M.Int64())
			require.True(t, params.Open(x.Commitment, x.M, x.R))

			// The verifier-side commitment-only fold must agree.
			verifierC := FoldRoundCommitment(params, rOpening.Commitment, c)
			require.True(t, verifierC.Point.Equal(x.Commitment.Point))
		}
	}
}

func TestNoiseDistributionMatchesBinomial(t *testing.T) {
	const n = 40
	const trials = 400

	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		x := 0
		for round := 0; round < n; round++ {
			rBuf := make([]byte, 1)
			_, _ = rand.Read(rBuf)
			r := rBuf[0] & 1
			_, _ = rand.Read(rBuf)
			c := rBuf[0] & 1
			x += int(r ^ c)
		}
		samples[i] = x
	}
	sort.Ints(samples)

	// Kolmogorov-Smirnov style comparison of the empirical CDF against the
	// normal approximation to Binomial(n, 1/2): mean n/2, variance n/4.
	mean := float64(n) / 2
	stddev := math.Sqrt(float64(n) / 4)

	maxDiff := 0.0
	for i, v := range samples {
		// The empirical CDF at v counts every sample <= v, so it is read at
		// the last sample of each run of equal values.
		if i+1 < len(samples) && samples[i+1] == v {
			continue
		}
		empirical := float64(i+1) / float64(trials)
		z := (float64(v) + 0.5 - mean) / stddev
		theoretical := 0.5 * (1 + math.Erf(z/math.Sqrt2))
		if d := math.Abs(empirical - theoretical); d > maxDiff {
			maxDiff = d
		}
	}

	// Critical value for a two-sided KS test at ~99% confidence.
	critical := 1.63 / math.Sqrt(float64(trials))
	require.Less(t, maxDiff, critical+0.05, "empirical noise distribution should track Binomial(N,1/2)")
}
