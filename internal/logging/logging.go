// Package logging builds the zap loggers spanweave reports through.
package logging

import (
	"encoding"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is one of the five verbosity levels a configuration may name.
type Level int

const (
	levelInvalid Level = iota
	LevelNone
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = map[Level]string{
	LevelNone:  "none",
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
}

func (l Level) String() string {
	v, ok := levelNames[l]
	if !ok {
		return fmt.Sprintf("level-invalid(%d)", l)
	}

	return v
}

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return levelInvalid, err
	}
	return l, nil
}

var (
	_ encoding.TextUnmarshaler = (*Level)(nil)
	_ encoding.TextMarshaler   = Level(0)
)

func (l *Level) UnmarshalText(b []byte) error {
	text := string(b)
	for k, v := range levelNames {
		if v == text {
			*l = k
			return nil
		}
	}

	return fmt.Errorf("unknown log level %q", text)
}

func (l Level) MarshalText() ([]byte, error) {
	v, ok := levelNames[l]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid Level(%d)", l)
	}
	return []byte(v), nil
}

// Zap maps the level onto zap's levels. The second result is false for LevelNone.
func (l Level) Zap() (zapcore.Level, bool) {
	switch l {
	case LevelError:
		return zapcore.ErrorLevel, true
	case LevelWarn:
		return zapcore.WarnLevel, true
	case LevelInfo:
		return zapcore.InfoLevel, true
	case LevelDebug:
		return zapcore.DebugLevel, true
	default:
		return zapcore.InvalidLevel, false
	}
}

// New creates a console logger writing to stderr. LevelNone yields a no-op
// logger, debug forces LevelDebug.
func New(level Level, debug bool) *zap.Logger {
	if debug {
		level = LevelDebug
	}

	zl, ok := level.Zap()
	if !ok {
		return zap.NewNop()
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(zl),
		Development:       debug,
		Encoding:          "console",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !debug,
		DisableStacktrace: true,
	}

	logger, err := cfg.Build()
	if err != nil {
		// Fallback to no-op logger
		return zap.NewNop()
	}

	return logger.Named("spanweave")
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        zapcore.OmitKey,
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
