package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the JSON logger shared by the HTTP layer, migrations and background setup.
// Timestamps are rendered in loc using RFC3339Nano under the "ts" key.
func New(loc *time.Location) (*zap.Logger, error) {
	if loc == nil {
		loc = time.UTC
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.In(loc).Format(time.RFC3339Nano))
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Component returns a child logger tagged with the component field.
func Component(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return l.With(zap.String("component", name))
}
