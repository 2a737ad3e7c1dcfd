// Package noise implements the binomial differential-privacy mechanism:
// calibrating the iteration count N from (epsilon, delta, sensitivity), and
// folding each round's committed coin flip into the noise sample x_i
// (spec.md Sec 4.5, 4.6).
package noise

import "math"

// DefaultDelta is delta's value when the caller omits it, 2^-100
// (spec.md Sec 4.5 and Sec 9; this repository's explicit CLI default rather
// than a silent substitution).
const DefaultDelta = 1.0 / (1 << 100)

// CalibrateN computes the smallest even N such that Bin(N, 1/2) - N/2
// (which approximates N(0, N/4)) provides (epsilon, delta)-DP at the given
// query sensitivity, via the standard Gaussian-mechanism variance bound
// adapted to the binomial mechanism (SPEC_FULL.md Sec 4.8):
//
//	N = ceil(8 * sensitivity^2 * ln(1.25/delta) / epsilon^2)
//
// rounded up to the nearest even integer so N/2 is an integer.
func CalibrateN(epsilon, delta float64, sensitivity int) int {
	if delta <= 0 {
		delta = DefaultDelta
	}
	if epsilon <= 0 {
		panic("noise: epsilon must be positive")
	}
	s := float64(sensitivity)
	n := 8.0 * s * s * math.Log(1.25/delta) / (epsilon * epsilon)
	ni := int(math.Ceil(n))
	if ni%2 != 0 {
		ni++
	}
	if ni < 2 {
		ni = 2
	}
	return ni
}
