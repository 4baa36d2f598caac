// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and writes human readable logs to stderr.
// Verbose forces the debug level.
func Init(level string, verbose bool) error {
	return InitWithWriter(os.Stderr, level, verbose)
}

// InitWithWriter is Init with a custom destination.
func InitWithWriter(out io.Writer, level string, verbose bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	log.Debug().Str("level", lvl.String()).Msg("logger initialized")
	return nil
}
