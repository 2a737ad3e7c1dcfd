// Command prover runs the Prover endpoint of a certified-dp session: it
// listens for a Verifier connection, commits a database record's bit
// vector under the agreed Setup parameters, and answers queries (spec.md
// Sec 6).
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/rs/zerolog"

	"github.com/anupsv/certified-dp/internal/log"
	"github.com/anupsv/certified-dp/pkg/group"
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
		proverAddr    = flag.String("prover-address", "", "address to listen on, host:port (required)")
		delta         = flag.Float64("delta", noise.DefaultDelta, "privacy failure probability delta (2^-100 unless set)")
		numQueries    = flag.Int("num-queries", 1, "number of Query rounds to answer")
		skipDishonest = flag.Bool("skip-dishonest", false, "skip the DishonestCommit phase (no DP noise added)")
		dbFile        = flag.String("db-file", "", "path to the record's bit vector, one 0/1 byte per line")
		eta           = flag.Float64("eta", 0, "opaque verification threshold, carried but unused")
		readTimeout   = flag.Duration("read-timeout", 30*time.Second, "per-message read deadline")
		logLevel      = flag.String("log-level", log.LevelInfo, "log level (debug, info, warn, error)")
	)
	flag.Parse()
	log.Init(*logLevel)
	logger := log.Logger()

	if *dbSize == 0 || *maxDegree == 0 || *dimension == 0 || *epsilon <= 0 || *sparsity == 0 || *proverAddr == "" {
		fmt.Fprintln(os.Stderr, "prover: --db-size, --max-degree, --dimension, --epsilon, --sparsity and --prover-address are required")
		return 3
	}

	baseBits, err := loadBaseBits(*dbFile, int(*dimension))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load database record")
		return 3
	}

	groupParams, err := group.GenParams()
	if err != nil {
		logger.Error().Err(err).Msg("failed to derive group parameters")
		return 3
	}
	sessionParams := protocol.NewParams(*dbSize, *dimension, *maxDegree, *sparsity, *epsilon, *delta, *eta)

	listener, err := net.Listen("tcp", *proverAddr)
	if err != nil {
		logger.Error().Err(err).Msg("failed to listen")
		return 2
	}
	defer listener.Close()
	logger.Info().Str("addr", *proverAddr).Msg("prover listening")

	conn, err := listener.Accept()
	if err != nil {
		logger.Error().Err(err).Msg("failed to accept connection")
		return 2
	}
	defer conn.Close()

	prover := protocol.NewProver(groupParams, sessionParams, baseBits, logger)

	if err := setDeadline(conn, *readTimeout); err != nil {
		return fail(logger, err)
	}
	if err := classify(prover.RunSetup(conn)); err != nil {
		return fail(logger, err)
	}
	if err := classify(prover.RunHonestCommit(context.Background(), conn)); err != nil {
		return fail(logger, err)
	}
	if err := setDeadline(conn, *readTimeout); err != nil {
		return fail(logger, err)
	}
	if err := classify(prover.RunDishonestCommit(conn, *skipDishonest)); err != nil {
		return fail(logger, err)
	}
	for i := 0; i < *numQueries; i++ {
		if err := setDeadline(conn, *readTimeout); err != nil {
			return fail(logger, err)
		}
		if err := classify(prover.AnswerQuery(conn)); err != nil {
			return fail(logger, err)
		}
	}
	logger.Info().Int("queries_answered", *numQueries).Msg("session complete")
	return 0
}

// loadBaseBits reads the per-record base bit vector from dbFile, one 0/1
// byte per line. When dbFile is empty, it synthesizes a deterministic
// all-ones record so the binary can be exercised without external data
// generation (out of scope per spec.md Sec 1's Non-goals).
func loadBaseBits(dbFile string, d int) ([]byte, error) {
	if dbFile == "" {
		bits := make([]byte, d)
		for i := range bits {
			bits[i] = 1
		}
		return bits, nil
	}

	f, err := os.Open(dbFile)
	if err != nil {
		return nil, fmt.Errorf("prover: opening db file: %w", err)
	}
	defer f.Close()

	bits := make([]byte, 0, d)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.Atoi(line)
		if err != nil || (v != 0 && v != 1) {
			return nil, fmt.Errorf("prover: db file line %q is not a 0/1 bit", line)
		}
		bits = append(bits, byte(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("prover: reading db file: %w", err)
	}
	if len(bits) != d {
		return nil, fmt.Errorf("prover: db file has %d bits, expected dimension %d", len(bits), d)
	}
	return bits, nil
}

func setDeadline(conn net.Conn, d time.Duration) error {
	return conn.SetDeadline(time.Now().Add(d))
}

// classify upgrades a plain deadline-exceeded error surfaced by the
// transport into *protocol.Timeout, so ExitCode sees it as the "I/O or
// timeout" case spec.md Sec 6 describes rather than falling through.
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
