package protocol

import (
	"context"
	"io"
	"math/big"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/monomial"
)

// Prover drives the prover side of a session: Setup, HonestCommit,
// DishonestCommit, then any number of Query rounds, enforcing the phase
// order locally so a caller can't invoke a phase out of sequence (spec.md
// Sec 4, Sec 5).
type Prover struct {
	SessionID uuid.UUID

	group  group.Params
	params Params
	phase  Phase

	baseBits  []byte
	monomials []monomial.Monomial

	openings     []MonomialOpening
	noiseOpening group.Opening

	log zerolog.Logger
}

// NewProver constructs a Prover for a database record of baseBits (one
// byte per base dimension, each 0 or 1) under the given group and session
// Params.
func NewProver(g group.Params, params Params, baseBits []byte, log zerolog.Logger) *Prover {
	return &Prover{
		SessionID: uuid.New(),
		group:     g,
		params:    params,
		phase:     PhaseSetup,
		baseBits:  baseBits,
		monomials: monomial.Enumerate(int(params.D), int(params.K)),
		log:       log,
	}
}

// RunSetup sends this Prover's Params to the verifier and reads back
// either acceptance or a ConfigMismatch rejection (spec.md Sec 6).
func (p *Prover) RunSetup(rw io.ReadWriter) error {
	if err := expectAtLeast(p.phase, PhaseSetup); err != nil {
		return err
	}
	body, err := p.params.MarshalBinary()
	if err != nil {
		return err
	}
	if err := WriteFrame(rw, body); err != nil {
		return err
	}
	ackBody, err := ReadFrame(rw)
	if err != nil {
		return err
	}
	ack, err := UnmarshalAck(ackBody)
	if err != nil {
		return err
	}
	if !ack.Accepted {
		return &ConfigMismatch{Field: "setup"}
	}
	p.log.Info().Str("session", p.SessionID.String()).Msg("setup accepted by verifier")
	p.phase = PhaseHonestCommit
	return nil
}

// RunHonestCommit folds and streams every monomial's commitment chain,
// retaining the per-monomial openings for later Query phases.
func (p *Prover) RunHonestCommit(ctx context.Context, w io.Writer) error {
	if err := expectAtLeast(p.phase, PhaseHonestCommit); err != nil {
		return err
	}
	openings, _, err := RunHonestCommitProver(ctx, w, p.group, p.baseBits, p.monomials)
	if err != nil {
		return err
	}
	p.openings = openings
	p.log.Info().Str("session", p.SessionID.String()).Int("monomials", len(openings)).Msg("honest-commit complete")
	p.phase = PhaseDishonestCommit
	return nil
}

// RunDishonestCommit runs the N-round noise commitment. When skip is true
// (the operator passed --skip-dishonest), the session contributes zero
// noise instead of running the interactive rounds, matching spec.md Sec 9's
// explicit carve-out.
func (p *Prover) RunDishonestCommit(rw io.ReadWriter, skip bool) error {
	if err := expectAtLeast(p.phase, PhaseDishonestCommit); err != nil {
		return err
	}
	if skip {
		p.noiseOpening = group.Opening{
			Commitment: group.Commitment{Point: group.Identity()},
			M:          bigZero(),
			R:          bigZero(),
		}
		p.log.Warn().Str("session", p.SessionID.String()).Msg("dishonest-commit skipped, answers carry no DP noise")
		p.phase = PhaseQuery
		return nil
	}
	opening, err := RunDishonestCommitProver(rw, p.group, int(p.params.Rounds))
	if err != nil {
		return err
	}
	p.noiseOpening = opening
	p.log.Info().Str("session", p.SessionID.String()).Msg("dishonest-commit complete")
	p.phase = PhaseQuery
	return nil
}

// AnswerQuery answers one Query-phase round over rw. It may be called
// repeatedly (spec.md Sec 4.7: Query(*), any number of rounds).
func (p *Prover) AnswerQuery(rw io.ReadWriter) error {
	if err := expectAtLeast(p.phase, PhaseQuery); err != nil {
		return err
	}
	return RunQueryProver(rw, p.group, p.openings, p.noiseOpening)
}

func bigZero() *big.Int { return big.NewInt(0) }
