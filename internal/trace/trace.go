// Package trace emits structured evaluation events for the path engine on
// top of zap. Tracing is opt-in: the zero-configuration tracer discards
// everything, so the engine never pays for logging unless a caller supplies
// a logger.
package trace

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Tracer records chain construction, settlement, and sequence events.
type Tracer struct {
	log *zap.Logger
}

// Nop returns a tracer that discards every event.
func Nop() *Tracer {
	return &Tracer{log: zap.NewNop()}
}

// New wraps an existing zap logger. A nil logger yields the no-op tracer.
func New(log *zap.Logger) *Tracer {
	if log == nil {
		return Nop()
	}
	return &Tracer{log: log}
}

// BuildLogger constructs a zap logger for tracing at the given level.
// Development mode switches to the console encoder with colored levels.
func BuildLogger(level string, development bool) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "tracer",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Development:      development,
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if development {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	log, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build trace logger: %w", err)
	}
	return log, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown trace level %q", level)
	}
}

// Enabled reports whether debug events would be recorded. Callers use it to
// skip building per-item instrumentation when tracing is off.
func (t *Tracer) Enabled() bool {
	return t.log.Core().Enabled(zapcore.DebugLevel)
}

// Created records the construction of a settled path value.
func (t *Tracer) Created(pathID string, size int) {
	t.log.Debug("path created",
		zap.String("path_id", pathID),
		zap.Int("size", size),
	)
}

// Chained records the derivation of a new path value.
func (t *Tracer) Chained(pathID, parentID, opToken, kind string) {
	t.log.Debug("path chained",
		zap.String("path_id", pathID),
		zap.String("parent_id", parentID),
		zap.String("op_token", opToken),
		zap.String("kind", kind),
	)
}

// Settled records the settlement of a pending operation.
func (t *Tracer) Settled(pathID, opToken string, err error) {
	if err != nil {
		t.log.Warn("operation failed",
			zap.String("path_id", pathID),
			zap.String("op_token", opToken),
			zap.Error(err),
		)
		return
	}
	t.log.Debug("operation settled",
		zap.String("path_id", pathID),
		zap.String("op_token", opToken),
	)
}

// Resolved records a resolver run and the size of the set it produced.
func (t *Tracer) Resolved(pathID string, size int, err error) {
	if err != nil {
		t.log.Warn("resolver failed",
			zap.String("path_id", pathID),
			zap.Error(err),
		)
		return
	}
	t.log.Debug("resolver ran",
		zap.String("path_id", pathID),
		zap.Int("size", size),
	)
}

// Yielded records a single path produced during sequence iteration.
func (t *Tracer) Yielded(pathID, path string) {
	t.log.Debug("path yielded",
		zap.String("path_id", pathID),
		zap.String("path", path),
	)
}

// Sync flushes buffered events. Safe to call on the no-op tracer.
func (t *Tracer) Sync() error {
	return t.log.Sync()
}
