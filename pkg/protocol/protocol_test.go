package protocol

import (
	"context"
	"crypto/rand"
	"math/big"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/monomial"
	"github.com/anupsv/certified-dp/pkg/sigma"
)

func mustGroupParams(t *testing.T) group.Params {
	t.Helper()
	p, err := group.GenParams()
	require.NoError(t, err)
	return p
}

// pipe returns two connected in-memory net.Conns, standing in for the TCP
// transport spec.md Sec 6 assumes (net.Pipe has no deadline granularity
// issue io.Pipe has for simultaneous bidirectional use).
func pipe() (net.Conn, net.Conn) {
	return net.Pipe()
}

func runSession(t *testing.T, d, k int, baseBits []byte, skipDishonest bool, q monomial.Query) (int64, error) {
	t.Helper()
	g := mustGroupParams(t)
	// A large epsilon and small sparsity keep the calibrated round count low
	// enough for a fast test; skipDishonest sessions don't look at it at all.
	params := NewParams(1, uint32(d), uint32(k), 2, 10.0, 0.1, 0.5)

	proverConn, verifierConn := pipe()
	defer proverConn.Close()
	defer verifierConn.Close()

	log := zerolog.Nop()
	prover := NewProver(g, params, baseBits, log)
	verifier := NewVerifier(g, params, log)

	errCh := make(chan error, 1)
	go func() {
		if err := prover.RunSetup(proverConn); err != nil {
			errCh <- err
			return
		}
		if err := prover.RunHonestCommit(context.Background(), proverConn); err != nil {
			errCh <- err
			return
		}
		if err := prover.RunDishonestCommit(proverConn, skipDishonest); err != nil {
			errCh <- err
			return
		}
		errCh <- prover.AnswerQuery(proverConn)
	}()

	if err := verifier.RunSetup(verifierConn); err != nil {
		return 0, err
	}
	if err := verifier.RunHonestCommit(verifierConn); err != nil {
		return 0, err
	}
	if err := verifier.RunDishonestCommit(verifierConn, skipDishonest); err != nil {
		return 0, err
	}
	value, err := verifier.Query(verifierConn, q)
	if err != nil {
		return 0, err
	}
	require.NoError(t, <-errCh)
	return value, nil
}

func TestSessionCompletesAndAnswersQuery(t *testing.T) {
	// d=3 base bits, k=2: monomials {0},{1},{2},{0,1},{0,2},{1,2}.
	baseBits := []byte{1, 1, 0}
	ms := monomial.Enumerate(3, 2)

	// find index of monomial {0,1} (value 1*1=1) and {1,2} (value 1*0=0)
	var idx01, idx12 uint32
	for i, m := range ms {
		if len(m) == 2 && m[0] == 0 && m[1] == 1 {
			idx01 = uint32(i)
		}
		if len(m) == 2 && m[0] == 1 && m[1] == 2 {
			idx12 = uint32(i)
		}
	}
	q := monomial.Query{
		{MonomialIndex: idx01, Coef: 3},
		{MonomialIndex: idx12, Coef: -1},
	}

	value, err := runSession(t, 3, 2, baseBits, true, q)
	require.NoError(t, err)
	require.Equal(t, int64(3*1-1*0), value)
}

func TestSessionWithDishonestCommitAddsNoise(t *testing.T) {
	baseBits := []byte{1, 0, 1}
	ms := monomial.Enumerate(3, 1)
	q := monomial.Query{{MonomialIndex: uint32(len(ms) - 1), Coef: 1}}

	value, err := runSession(t, 3, 1, baseBits, false, q)
	require.NoError(t, err)
	// The queried monomial {2} has value 1, and runSession's parameters
	// calibrate two noise rounds, so the answer is 1 + X with X in [0, 2].
	require.GreaterOrEqual(t, value, int64(1))
	require.LessOrEqual(t, value, int64(3))
}

func TestConfigMismatchRejected(t *testing.T) {
	g := mustGroupParams(t)
	proverParams := NewParams(1, 3, 2, 4, 1.0, 0, 0.5)
	verifierParams := NewParams(1, 4, 2, 4, 1.0, 0, 0.5)

	proverConn, verifierConn := pipe()
	defer proverConn.Close()
	defer verifierConn.Close()

	log := zerolog.Nop()
	prover := NewProver(g, proverParams, []byte{1, 1, 0}, log)
	verifier := NewVerifier(g, verifierParams, log)

	errCh := make(chan error, 1)
	go func() { errCh <- prover.RunSetup(proverConn) }()

	err := verifier.RunSetup(verifierConn)
	require.Error(t, err)
	var mismatch *ConfigMismatch
	require.ErrorAs(t, err, &mismatch)

	proverErr := <-errCh
	require.Error(t, proverErr)
	require.ErrorAs(t, proverErr, &mismatch)
}

func TestTamperedBitProofRejectedDuringHonestCommit(t *testing.T) {
	g := mustGroupParams(t)
	params := NewParams(1, 2, 1, 2, 1.0, 0, 0.5)

	proverConn, verifierConn := pipe()
	defer proverConn.Close()
	defer verifierConn.Close()

	log := zerolog.Nop()
	prover := NewProver(g, params, []byte{1, 0}, log)
	verifier := NewVerifier(g, params, log)

	errCh := make(chan error, 1)
	go func() {
		if err := prover.RunSetup(proverConn); err != nil {
			errCh <- err
			return
		}
		// Write a deliberately malformed monomial message instead of the
		// real honest-commit transcript: a bad bit-proof should be rejected
		// rather than silently accepted.
		r, err := group.SampleScalar(rand.Reader)
		if err != nil {
			errCh <- err
			return
		}
		opening := g.CommitWithOpening(big.NewInt(0), r)
		proof, err := sigma.ProveBit(g, opening.Commitment, opening.M, opening.R, rand.Reader)
		if err != nil {
			errCh <- err
			return
		}
		proof.Z0 = new(big.Int).Add(proof.Z0, big.NewInt(1)) // corrupt the response scalar

		bad := BaseCommitment{Index: 0, Commitment: opening.Commitment, Proof: proof}
		msg := MonomialMessage{NewBase: []BaseCommitment{bad}, Final: bad.Commitment}
		body, err := msg.MarshalBinary()
		if err != nil {
			errCh <- err
			return
		}
		errCh <- WriteFrame(proverConn, body)
	}()

	require.NoError(t, verifier.RunSetup(verifierConn))
	err := verifier.RunHonestCommit(verifierConn)
	require.Error(t, err)
	var rejected *ProofRejected
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, PhaseHonestCommit, rejected.Phase)

	require.NoError(t, <-errCh)
}
