// Package monomial enumerates the committed monomial set M (spec.md Sec 3,
// 3.1) and evaluates queries against it. A monomial is a sorted, deduplicated
// tuple of base-dimension indices of size 1..k; its value is the AND of the
// base bits at those indices.
//
// spec.md Sec 3.1 (SPEC_FULL.md) resolves the ambiguity between the
// n*d-indexed definition in spec.md Sec 3 and the n-independent 127-monomial
// count reported for both end-to-end scenarios: the base index set here has
// size d (the per-record dimension), not n*d, and M is independent of n.
package monomial

import "sort"

// Monomial is a canonical, sorted, deduplicated tuple of base-dimension
// indices. Size ranges from 1 (no empty monomial, spec.md Sec 9) to k.
type Monomial []int

// Enumerate returns the canonical monomial set M for a d-dimensional base
// and max degree k: every non-empty subset of {0,...,d-1} of size <= k, in
// lexicographic order grouped by increasing size. This order is identical
// on both endpoints (spec.md Sec 3's ordering invariant) since it is a pure
// function of (d, k).
func Enumerate(d, k int) []Monomial {
	if d <= 0 || k <= 0 {
		return nil
	}
	if k > d {
		k = d
	}
	var out []Monomial
	for size := 1; size <= k; size++ {
		out = append(out, combinations(d, size)...)
	}
	return out
}

// Count returns len(Enumerate(d, k)) without materializing the set.
func Count(d, k int) int {
	if d <= 0 || k <= 0 {
		return 0
	}
	if k > d {
		k = d
	}
	total := 0
	for size := 1; size <= k; size++ {
		total += binomial(d, size)
	}
	return total
}

func binomial(n, r int) int {
	if r < 0 || r > n {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	result := 1
	for i := 0; i < r; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// combinations returns every size-r subset of {0,...,d-1} in lexicographic
// order, by repeatedly advancing the rightmost index that can still grow and
// resetting the indices after it.
func combinations(d, r int) []Monomial {
	if r > d {
		return nil
	}
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	var out []Monomial
	for {
		m := make(Monomial, r)
		copy(m, idx)
		out = append(out, m)

		i := r - 1
		for i >= 0 && idx[i] == d-r+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

// Value computes the AND-product of base at the monomial's indices.
func (m Monomial) Value(base []byte) byte {
	var v byte = 1
	for _, i := range m {
		v &= base[i]
	}
	return v
}

// Sorted reports whether m is already in canonical ascending-index form,
// used defensively when monomials arrive from an external collaborator.
func (m Monomial) Sorted() bool {
	return sort.IntsAreSorted(m)
}
