package protocol

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"sync"

	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/monomial"
	"github.com/anupsv/certified-dp/pkg/sigma"
)

// MonomialOpening is the prover-side bookkeeping kept per monomial after
// HonestCommit: the opening of its final commitment C_m, used later by the
// Query phase to evaluate and prove the noised answer.
type MonomialOpening struct {
	Monomial monomial.Monomial
	Opening  group.Opening
}

// honestCommitWorkers bounds the fixed goroutine pool folding monomials in
// parallel; GOMAXPROCS is a reasonable default since the work is CPU-bound
// scalar/point arithmetic (spec.md Sec 5's concurrency allowance).
func honestCommitWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// buildMonomialMessage folds a single monomial's base bits into its final
// commitment, generating the chain of product- and bit-proofs spec.md
// Sec 4.4 requires (grounded on bbs/proof.go's left-fold accumulation
// pattern, generalized from Jacobian point sums to Sigma-proof chains).
func buildMonomialMessage(
	params group.Params,
	m monomial.Monomial,
	baseOpenings []group.Opening,
	rng io.Reader,
) (MonomialMessage, group.Opening, error) {
	if len(m) == 0 {
		return MonomialMessage{}, group.Opening{}, fmt.Errorf("protocol: empty monomial")
	}

	msg := MonomialMessage{}
	acc := baseOpenings[m[0]]
	// accIsPrivate is false while acc aliases a shared baseOpenings entry
	// (other monomials still fold over it concurrently) and true once acc
	// becomes a private intermediate this call alone owns, so it's safe to
	// zeroize each time acc is about to be superseded.
	accIsPrivate := false

	for _, idx := range m[1:] {
		factor := baseOpenings[idx]
		product := new(big.Int).Mul(acc.M, factor.M)
		product.Mod(product, group.Order)
		rNew, err := group.SampleScalar(rng)
		if err != nil {
			return MonomialMessage{}, group.Opening{}, err
		}
		next := params.CommitWithOpening(product, rNew)

		prodProof, err := sigma.ProveProduct(params, acc, factor, next, rng)
		if err != nil {
			return MonomialMessage{}, group.Opening{}, err
		}
		bitProof, err := sigma.ProveBit(params, next.Commitment, next.M, next.R, rng)
		if err != nil {
			return MonomialMessage{}, group.Opening{}, err
		}
		msg.Intermediates = append(msg.Intermediates, IntermediateCommitment{
			Commitment:   next.Commitment,
			ProductProof: prodProof,
			BitProof:     bitProof,
		})
		if accIsPrivate {
			acc.Zeroize()
		}
		acc = next
		accIsPrivate = true
	}

	if !accIsPrivate {
		// A degree-1 monomial's opening is still the shared base opening,
		// which RunHonestCommitProver zeroizes once the phase ends; return a
		// private copy so the Query phase can still open it.
		acc = group.Opening{
			Commitment: acc.Commitment,
			M:          new(big.Int).Set(acc.M),
			R:          new(big.Int).Set(acc.R),
		}
	}

	msg.Final = acc.Commitment
	return msg, acc, nil
}

// commitJobResult is one completed monomial's folded message, or an error,
// tagged with its position in the canonical enumeration.
type commitJobResult struct {
	index   int
	message MonomialMessage
	opening group.Opening
	err     error
}

// RunHonestCommitProver folds every monomial in params' canonical set over
// a fixed worker pool, streaming each MonomialMessage to w in positional
// order: workers take single monomial indices from a shared job channel, and
// the calling goroutine, the only writer, drains their results through a
// reorder buffer keyed by index. It returns
// the per-monomial openings needed by the later Query phase.
func RunHonestCommitProver(
	ctx context.Context,
	w io.Writer,
	params group.Params,
	baseBits []byte,
	monomials []monomial.Monomial,
) ([]MonomialOpening, []BaseCommitment, error) {
	baseOpenings := make([]group.Opening, len(baseBits))
	baseCommitments := make([]BaseCommitment, len(baseBits))
	for i, bit := range baseBits {
		r, err := group.SampleScalar(rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		opening := params.CommitWithOpening(big.NewInt(int64(bit)), r)
		proof, err := sigma.ProveBit(params, opening.Commitment, opening.M, opening.R, rand.Reader)
		if err != nil {
			return nil, nil, err
		}
		baseOpenings[i] = opening
		baseCommitments[i] = BaseCommitment{Index: uint32(i), Commitment: opening.Commitment, Proof: proof}
	}

	// newBaseOwner[idx] is the position of the first monomial (in canonical
	// order) that references base index idx; only that monomial's message
	// carries the BaseCommitment, so each base bit is sent exactly once.
	newBaseOwner := make([]int, len(baseBits))
	for i := range newBaseOwner {
		newBaseOwner[i] = -1
	}
	for mi, m := range monomials {
		for _, idx := range m {
			if newBaseOwner[idx] == -1 {
				newBaseOwner[idx] = mi
			}
		}
	}

	jobs := make(chan int)
	results := make(chan commitJobResult)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	workers := honestCommitWorkers()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case mi, ok := <-jobs:
					if !ok {
						return
					}
					msg, opening, err := buildMonomialMessage(params, monomials[mi], baseOpenings, rand.Reader)
					if err == nil {
						for _, idx := range monomials[mi] {
							if newBaseOwner[idx] == mi {
								msg.NewBase = append(msg.NewBase, baseCommitments[idx])
							}
						}
					}
					select {
					case results <- commitJobResult{index: mi, message: msg, opening: opening, err: err}:
					case <-ctx.Done():
					}
				}
			}
		}()
	}

	go func() {
		defer close(results)
		for i := range monomials {
			select {
			case jobs <- i:
			case <-ctx.Done():
				close(jobs)
				wg.Wait()
				return
			}
		}
		close(jobs)
		wg.Wait()
	}()

	pending := make(map[int]commitJobResult, len(monomials))
	openings := make([]MonomialOpening, len(monomials))
	next := 0
	for r := range results {
		if r.err != nil {
			cancel()
			return nil, nil, r.err
		}
		pending[r.index] = r
		for {
			done, ok := pending[next]
			if !ok {
				break
			}
			body, err := done.message.MarshalBinary()
			if err != nil {
				cancel()
				return nil, nil, err
			}
			if err := WriteFrame(w, body); err != nil {
				cancel()
				return nil, nil, err
			}
			openings[next] = MonomialOpening{Monomial: monomials[next], Opening: done.opening}
			delete(pending, next)
			next++
		}
	}
	if next != len(monomials) {
		return nil, nil, fmt.Errorf("protocol: honest-commit produced %d of %d monomials", next, len(monomials))
	}
	// Every monomial has folded over baseOpenings by now; only the
	// per-monomial openings returned above are needed by the Query phase.
	for i := range baseOpenings {
		baseOpenings[i].Zeroize()
	}
	return openings, baseCommitments, nil
}

// RunHonestCommitVerifier reads and checks each monomial message in order,
// returning the final commitments (indexed by canonical monomial position)
// the Query phase folds against. The first rejected sub-proof is reported
// as a *ProofRejected and the remaining transcript is left unread, matching
// spec.md Sec 7's fail-fast requirement.
func RunHonestCommitVerifier(
	r io.Reader,
	params group.Params,
	monomials []monomial.Monomial,
	baseCount int,
) ([]group.Commitment, error) {
	baseCommitments := make([]group.Commitment, baseCount)
	haveBase := make([]bool, baseCount)
	finals := make([]group.Commitment, len(monomials))

	for mi, m := range monomials {
		body, err := ReadFrame(r)
		if err != nil {
			return nil, err
		}
		msg, err := UnmarshalMonomialMessage(body)
		if err != nil {
			return nil, err
		}

		for _, bc := range msg.NewBase {
			if int(bc.Index) >= baseCount {
				return nil, &DecodeError{Field: "monomial_message.new_base.index"}
			}
			if !sigma.VerifyBit(params, bc.Commitment, bc.Proof) {
				return nil, &ProofRejected{Phase: PhaseHonestCommit, Index: mi, Subproof: AckSubproofBit}
			}
			baseCommitments[bc.Index] = bc.Commitment
			haveBase[bc.Index] = true
		}

		if len(m) == 0 {
			continue
		}
		if !haveBase[m[0]] {
			return nil, &DecodeError{Field: "monomial_message.missing_base"}
		}
		acc := baseCommitments[m[0]]

		if len(msg.Intermediates) != len(m)-1 {
			return nil, &DecodeError{Field: "monomial_message.intermediate_count"}
		}
		for step, idx := range m[1:] {
			if !haveBase[idx] {
				return nil, &DecodeError{Field: "monomial_message.missing_base"}
			}
			factor := baseCommitments[idx]
			ic := msg.Intermediates[step]
			if !sigma.VerifyProduct(params, acc, factor, ic.Commitment, ic.ProductProof) {
				return nil, &ProofRejected{Phase: PhaseHonestCommit, Index: mi, Subproof: AckSubproofProduct}
			}
			if !sigma.VerifyBit(params, ic.Commitment, ic.BitProof) {
				return nil, &ProofRejected{Phase: PhaseHonestCommit, Index: mi, Subproof: AckSubproofBit}
			}
			acc = ic.Commitment
		}

		if !acc.Point.Equal(msg.Final.Point) {
			return nil, &ProofRejected{Phase: PhaseHonestCommit, Index: mi, Subproof: AckSubproofProduct}
		}
		finals[mi] = msg.Final
	}
	return finals, nil
}
