// Package logging provides the zerolog-backed structured logger used across ecosnap.
//
// Console output is used when stderr is a terminal, JSON otherwise. Components
// take the logger from the context so a run id attached by the CLI follows every
// log line.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var defaultLogger = newLogger(Config{Level: levelFromEnv(), Format: os.Getenv("LOG_FORMAT")})

// Config holds logger options.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string

	// Format is json, console or empty for auto-detection.
	Format string

	// Output defaults to stderr.
	Output io.Writer
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(l zerolog.Logger) {
	defaultLogger = l
}

// Configure builds a logger from cfg and installs it as the default.
func Configure(cfg Config) zerolog.Logger {
	l := newLogger(cfg)
	SetDefault(l)
	return l
}

// Nop returns a logger that discards everything.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newLogger(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var w io.Writer = out
	switch strings.ToLower(cfg.Format) {
	case "json":
	case "console", "pretty":
		w = consoleWriter(out)
	default:
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			w = consoleWriter(out)
		}
	}

	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		l = l.With().Caller().Logger()
	}
	return l
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func levelFromEnv() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	if os.Getenv("DEBUG") != "" {
		return "debug"
	}
	return "info"
}
