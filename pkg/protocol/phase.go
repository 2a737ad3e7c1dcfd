// Package protocol implements the four-phase certified-DP session: wire
// framing, the strict phase-ordering state machine, and the Prover and
// Verifier endpoint drivers built on pkg/group, pkg/sigma, pkg/monomial and
// pkg/noise (spec.md Sec 4-7).
package protocol

// Phase identifies a step of the session state machine. Phases advance in
// one direction only: Setup -> HonestCommit -> DishonestCommit ->
// Query(*); only Query may run any number of times (spec.md Sec 4, Sec 5).
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseHonestCommit
	PhaseDishonestCommit
	PhaseQuery
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseHonestCommit:
		return "honest-commit"
	case PhaseDishonestCommit:
		return "dishonest-commit"
	case PhaseQuery:
		return "query"
	default:
		return "unknown"
	}
}

// expectAtLeast enforces the monotonic phase order: the session must have
// reached `want` before the caller's operation proceeds, and a phase it has
// already moved past cannot be re-entered. Query is the last phase, so its
// operations stay callable once it is reached.
func expectAtLeast(current, want Phase) error {
	if current != want {
		return &ProtocolOrderError{Expected: want, Got: current}
	}
	return nil
}
