package monomial

import "fmt"

// Term is a single (monomial index, signed coefficient) pair, matching the
// Query wire message in spec.md Sec 6.
type Term struct {
	MonomialIndex uint32
	Coef          int8
}

// Query is a sparse list of up to s terms, as sent by the Verifier in the
// Query phase (spec.md Sec 4.7).
type Query []Term

// Validate checks that q has at most sparsity terms, each indexing into a
// monomial set of the given size, with no duplicate monomial index.
func (q Query) Validate(sparsity, monomialSetSize int) error {
	if len(q) > sparsity {
		return fmt.Errorf("monomial: query has %d terms, exceeds sparsity %d", len(q), sparsity)
	}
	seen := make(map[uint32]bool, len(q))
	for _, t := range q {
		if int(t.MonomialIndex) >= monomialSetSize {
			return fmt.Errorf("monomial: query term references out-of-range monomial index %d", t.MonomialIndex)
		}
		if seen[t.MonomialIndex] {
			return fmt.Errorf("monomial: query repeats monomial index %d", t.MonomialIndex)
		}
		seen[t.MonomialIndex] = true
	}
	return nil
}

// Evaluate computes Y = sum_{(m,a) in q} a * values[m], the true monomial-sum
// the prover computes over its openings (spec.md Sec 4.7).
func Evaluate(q Query, values []byte) int64 {
	var y int64
	for _, t := range q {
		y += int64(t.Coef) * int64(values[t.MonomialIndex])
	}
	return y
}
