package protocol

import (
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/monomial"
)

// Verifier drives the verifier side of a session, mirroring Prover's phase
// sequence and enforcing the same local ordering (spec.md Sec 4, Sec 5).
type Verifier struct {
	SessionID uuid.UUID

	group    group.Params
	expected Params
	phase    Phase

	monomials []monomial.Monomial

	monomialCommitments []group.Commitment
	noiseCommitment     group.Commitment

	log zerolog.Logger
}

// NewVerifier constructs a Verifier expecting the session Params the
// operator configured it with; a Setup block from the prover that doesn't
// match is rejected.
func NewVerifier(g group.Params, expected Params, log zerolog.Logger) *Verifier {
	return &Verifier{
		SessionID: uuid.New(),
		group:     g,
		expected:  expected,
		phase:     PhaseSetup,
		monomials: monomial.Enumerate(int(expected.D), int(expected.K)),
		log:       log,
	}
}

// RunSetup reads the prover's Params block, checks it against the expected
// configuration, and replies with acceptance or rejection.
func (v *Verifier) RunSetup(rw io.ReadWriter) error {
	if err := expectAtLeast(v.phase, PhaseSetup); err != nil {
		return err
	}
	body, err := ReadFrame(rw)
	if err != nil {
		return err
	}
	got, err := UnmarshalParams(body)
	if err != nil {
		return err
	}
	if !got.Equal(v.expected) {
		ackBody, _ := Ack{Accepted: false}.MarshalBinary()
		_ = WriteFrame(rw, ackBody)
		return &ConfigMismatch{Field: "setup"}
	}
	ackBody, err := Ack{Accepted: true}.MarshalBinary()
	if err != nil {
		return err
	}
	if err := WriteFrame(rw, ackBody); err != nil {
		return err
	}
	v.log.Info().Str("session", v.SessionID.String()).Msg("setup accepted")
	v.phase = PhaseHonestCommit
	return nil
}

// RunHonestCommit verifies every monomial's commitment chain, retaining
// the final per-monomial commitments the Query phase folds against.
func (v *Verifier) RunHonestCommit(r io.Reader) error {
	if err := expectAtLeast(v.phase, PhaseHonestCommit); err != nil {
		return err
	}
	commitments, err := RunHonestCommitVerifier(r, v.group, v.monomials, int(v.expected.D))
	if err != nil {
		return err
	}
	v.monomialCommitments = commitments
	v.log.Info().Str("session", v.SessionID.String()).Int("monomials", len(commitments)).Msg("honest-commit verified")
	v.phase = PhaseDishonestCommit
	return nil
}

// RunDishonestCommit runs or skips the N-round noise commitment, mirroring
// Prover.RunDishonestCommit's skip semantics.
func (v *Verifier) RunDishonestCommit(rw io.ReadWriter, skip bool) error {
	if err := expectAtLeast(v.phase, PhaseDishonestCommit); err != nil {
		return err
	}
	if skip {
		v.noiseCommitment = group.Commitment{Point: group.Identity()}
		v.log.Warn().Str("session", v.SessionID.String()).Msg("dishonest-commit skipped")
		v.phase = PhaseQuery
		return nil
	}
	commitment, err := RunDishonestCommitVerifier(rw, v.group, int(v.expected.Rounds))
	if err != nil {
		return err
	}
	v.noiseCommitment = commitment
	v.log.Info().Str("session", v.SessionID.String()).Msg("dishonest-commit verified")
	v.phase = PhaseQuery
	return nil
}

// Query sends q over rw and returns the verified answer.
func (v *Verifier) Query(rw io.ReadWriter, q monomial.Query) (int64, error) {
	if err := expectAtLeast(v.phase, PhaseQuery); err != nil {
		return 0, err
	}
	if err := q.Validate(int(v.expected.S), len(v.monomialCommitments)); err != nil {
		return 0, &DecodeError{Field: "query.terms"}
	}
	return RunQueryVerifier(rw, v.group, q, v.monomialCommitments, v.noiseCommitment)
}
