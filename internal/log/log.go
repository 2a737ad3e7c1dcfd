// Package log provides the process-wide structured logger shared by the
// prover and verifier commands, grounded on vocdoni-davinci-node/log's
// global zerolog wrapper.
package log

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	timeFormat = "2006-01-02T15:04:05.000Z07:00"
)

var (
	mu     sync.RWMutex
	logger zerolog.Logger
)

func init() {
	Init(LevelInfo)
}

// Init (re)configures the global logger at the given level, writing
// human-readable console output to stderr. An unrecognized level falls back
// to info rather than failing startup over a malformed flag.
func Init(level string) {
	zl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		zl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeFormat}
	mu.Lock()
	logger = zerolog.New(out).Level(zl).With().Timestamp().Logger()
	mu.Unlock()
}

// Logger returns the current global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// With starts a child logger scoped to a session, role, or phase (e.g.
// log.With("session", sessionID.String())). pkg/protocol does not call it:
// its endpoints receive a zerolog.Logger and add the session field to each
// log line themselves.
func With(key, value string) zerolog.Logger {
	return Logger().With().Str(key, value).Logger()
}
