// Command verifier runs the Verifier endpoint of a certified-dp session:
// it dials a Prover, drives Setup/HonestCommit/DishonestCommit, then issues
// Query rounds and prints each verified answer (spec.md Sec 6).
package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/rs/zerolog"

	"github.com/anupsv/certified-dp/internal/log"
	"github.com/anupsv/certified-dp/pkg/group"
	"github.com/anupsv/certified-dp/pkg/monomial"
	"github.com/anupsv/certified-dp/pkg/noise"
	"github.com/anupsv/certified-dp/pkg/protocol"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dbSize        = flag.Uint64("db-size", 0, "database size n (required)")
		maxDegree     = flag.Uint32("max-degree", 0, "max monomial degree k (required)")
		dimension     = flag.Uint32("dimension", 0, "per-record bit dimension d (required)")
		epsilon       = flag.Float64("epsilon", 0, "privacy budget epsilon (required)")
		sparsity      = flag.Uint32("sparsity", 0, "query sparsity s (required)")
		proverAddr    = flag.String("prover-address", "", "prover address to dial, host:port (required)")
		delta         = flag.Float64("delta", noise.DefaultDelta, "privacy failure probability delta (2^-100 unless set)")
		numQueries    = flag.Int("num-queries", 1, "number of Query rounds to issue")
		skipDishonest = flag.Bool("skip-dishonest", false, "skip the DishonestCommit phase")
		synthetic     = flag.Bool("synthetic", false, "acknowledge the prover's data is synthetic, required with --skip-dishonest")
		eta           = flag.Float64("eta", 0, "opaque verification threshold, carried but unused")
		readTimeout   = flag.Duration("read-timeout", 30*time.Second, "per-message read deadline")
		logLevel      = flag.String("log-level", log.LevelInfo, "log level (debug, info, warn, error)")
	)
	flag.Parse()
	log.Init(*logLevel)
	logger := log.Logger()

	if *dbSize == 0 || *maxDegree == 0 || *dimension == 0 || *epsilon <= 0 || *sparsity == 0 || *proverAddr == "" {
		fmt.Fprintln(os.Stderr, "verifier: --db-size, --max-degree, --dimension, --epsilon, --sparsity and --prover-address are required")
		return 3
	}
	if *skipDishonest && !*synthetic {
		logger.Warn().Msg("--skip-dishonest without --synthetic: refusing to print non-DP answers")
		return 3
	}

	groupParams, err := group.GenParams()
	if err != nil {
		logger.Error().Err(err).Msg("failed to derive group parameters")
		return 3
	}
	sessionParams := protocol.NewParams(*dbSize, *dimension, *maxDegree, *sparsity, *epsilon, *delta, *eta)

	conn, err := net.DialTimeout("tcp", *proverAddr, *readTimeout)
	if err != nil {
		logger.Error().Err(err).Msg("failed to dial prover")
		return 2
	}
	defer conn.Close()

	verifier := protocol.NewVerifier(groupParams, sessionParams, logger)

	if err := setDeadline(conn, *readTimeout); err != nil {
		return fail(logger, err)
	}
	if err := classify(verifier.RunSetup(conn)); err != nil {
		return fail(logger, err)
	}
	if err := classify(verifier.RunHonestCommit(conn)); err != nil {
		return fail(logger, err)
	}
	if err := setDeadline(conn, *readTimeout); err != nil {
		return fail(logger, err)
	}
	if err := classify(verifier.RunDishonestCommit(conn, *skipDishonest)); err != nil {
		return fail(logger, err)
	}

	monomials := monomial.Enumerate(int(*dimension), int(*maxDegree))
	for i := 0; i < *numQueries; i++ {
		q := sequentialQuery(monomials, int(*sparsity), i)
		if err := setDeadline(conn, *readTimeout); err != nil {
			return fail(logger, err)
		}
		value, err := verifier.Query(conn, q)
		if err := classify(err); err != nil {
			return fail(logger, err)
		}
		fmt.Printf("A=%d\n", value)
	}
	return 0
}

// sequentialQuery builds a deterministic query over round i: up to
// sparsity monomials starting at offset i*sparsity (wrapping), each with
// coefficient 1. Real query construction is an external-collaborator
// concern (spec.md Sec 1 Non-goals); this only exercises the wire protocol
// end to end.
func sequentialQuery(monomials []monomial.Monomial, sparsity, round int) monomial.Query {
	if len(monomials) == 0 || sparsity == 0 {
		return nil
	}
	n := sparsity
	if n > len(monomials) {
		n = len(monomials)
	}
	q := make(monomial.Query, n)
	start := (round * sparsity) % len(monomials)
	for i := 0; i < n; i++ {
		q[i] = monomial.Term{MonomialIndex: uint32((start + i) % len(monomials)), Coef: 1}
	}
	return q
}

func setDeadline(conn net.Conn, d time.Duration) error {
	return conn.SetDeadline(time.Now().Add(d))
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &protocol.Timeout{}
	}
	return err
}

func fail(logger zerolog.Logger, err error) int {
	logger.Error().Err(err).Msg("session aborted")
	return protocol.ExitCode(err)
}
