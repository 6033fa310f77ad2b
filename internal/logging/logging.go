package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config configures a logger.
type Config struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
	// Format is console or json.
	Format string `toml:"format" yaml:"format"`
	// Output is a file path, or stderr/stdout.
	Output string `toml:"output" yaml:"output"`
}

// DefaultConfig returns an info-level console logger on stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatConsole, Output: "stderr"}
}

// ParseLevel parses a level name.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// New builds a logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	output := cfg.Output
	if output == "" {
		output = "stderr"
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         FormatConsole,
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}
	switch cfg.Format {
	case "", FormatConsole:
		zc.Development = level == zap.DebugLevel
	case FormatJSON:
		zc.Encoding = FormatJSON
		zc.EncoderConfig = zap.NewProductionEncoderConfig()
		zc.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// Component returns l tagged with the component field. A nil l gives a
// no-op logger.
func Component(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l.With(zap.String("component", name))
}
