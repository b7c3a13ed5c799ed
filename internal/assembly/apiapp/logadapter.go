package apiapp

import (
	"log/slog"

	"linkbio/internal/app/links"
)

// slogLogger adapts *slog.Logger to the application Logger port.
type slogLogger struct {
	l *slog.Logger
}

func newLogger(l *slog.Logger) links.Logger {
	if l == nil {
		return links.NopLogger{}
	}

	return slogLogger{l: l}
}

func (s slogLogger) With(kv ...any) links.Logger {
	return slogLogger{l: s.l.With(kv...)}
}

func (s slogLogger) Info(msg string, kv ...any) {
	s.l.Info(msg, kv...)
}

func (s slogLogger) Warn(msg string, kv ...any) {
	s.l.Warn(msg, kv...)
}

func (s slogLogger) Error(msg string, kv ...any) {
	s.l.Error(msg, kv...)
}

var _ links.Logger = slogLogger{}
