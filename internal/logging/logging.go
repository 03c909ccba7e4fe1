package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a timestamped logger writing JSON to w, or human readable
// output in development. An unknown level falls back to info.
func New(w io.Writer, env, level string) zerolog.Logger {
	if strings.EqualFold(env, "development") {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
