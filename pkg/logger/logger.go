package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the zerolog logger handed to every component
type Logger struct {
	zerolog.Logger
}

// Config controls level, encoding and the fields stamped on every line
type Config struct {
	Level      string
	Format     string // "console" or "json"
	TimeFormat string

	// Service and Version are added to every line when set
	Service string
	Version string

	// Output defaults to stdout
	Output io.Writer
}

// New builds a logger from cfg
func New(cfg Config) *Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: zerolog.TimeFieldFormat}
	}

	zctx := zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		zctx = zctx.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		zctx = zctx.Str("version", cfg.Version)
	}
	return &Logger{Logger: zctx.Logger()}
}

// NewNop discards everything
func NewNop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// FromConfig fills unset level and format from the environment: production
// logs JSON at info, anything else logs console at debug.
func FromConfig(environment string, cfg Config) *Logger {
	production := environment == "production"
	if cfg.Level == "" {
		cfg.Level = "debug"
		if production {
			cfg.Level = "info"
		}
	}
	if cfg.Format == "" {
		cfg.Format = "console"
		if production {
			cfg.Format = "json"
		}
	}
	if cfg.TimeFormat == "" && !production {
		cfg.TimeFormat = "15:04:05"
	}
	return New(cfg)
}

// WithComponent tags lines with the emitting component
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.With().Str("component", component).Logger()}
}

// WithAnalysisID tags lines with an image analysis id
func (l *Logger) WithAnalysisID(analysisID string) *Logger {
	return &Logger{Logger: l.With().Str("analysis_id", analysisID).Logger()}
}

// WithUserID tags lines with the authenticated subject
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{Logger: l.With().Str("user_id", userID).Logger()}
}

func parseLevel(level string) zerolog.Level {
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

var global = NewNop()

// SetGlobal installs l as the process logger, including zerolog's own
// package logger used by code that logs through github.com/rs/zerolog/log
func SetGlobal(l *Logger) {
	global = l
	zlog.Logger = l.Logger
}

// Global returns the logger installed by SetGlobal
func Global() *Logger {
	return global
}
