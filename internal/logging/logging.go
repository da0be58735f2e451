package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global zerolog logger at w (stdout when nil) with a
// timestamp and the service name on every entry.
func Setup(w io.Writer, service, level string, pretty bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("zerolog.ParseLevel: %w", err)
	}

	if w == nil {
		w = os.Stdout
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(lvl)

	log.Logger = zerolog.New(w).With().Timestamp().Str("service", service).Logger()

	return nil
}
