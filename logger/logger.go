package logger

import (
	"os"

	"roamly/globals"

	"github.com/rs/zerolog"
)

// Log is the process-wide logger. Handlers log through it instead of the
// stdlib logger so output stays structured.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if globals.Env("DEBUG", "") == "true" {
		Log = Log.Level(zerolog.DebugLevel)
	} else {
		Log = Log.Level(zerolog.InfoLevel)
	}
}
