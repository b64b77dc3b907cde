package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a zerolog logger based on level and format configuration.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var log zerolog.Logger
	switch strings.ToLower(format) {
	case "json":
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	case "", "console":
		log = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	return log.Level(lvl), nil
}
