// Package diag defines the diagnostic sink the analysis core reports to.
// The core never returns errors for unsupported languages, grammar load
// failures, parse failures or query failures; it logs them here instead.
package diag

import (
	"context"
	"log/slog"
)

// Sink accepts warnings and errors from the analysis core.
// Implementations must tolerate concurrent use.
type Sink interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogSink forwards diagnostics to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a Sink backed by logger. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Warn(msg string, args ...any) {
	s.logger.Log(context.Background(), slog.LevelWarn, msg, args...)
}

func (s *SlogSink) Error(msg string, args ...any) {
	s.logger.Log(context.Background(), slog.LevelError, msg, args...)
}

type nopSink struct{}

func (nopSink) Warn(string, ...any)  {}
func (nopSink) Error(string, ...any) {}

// Nop returns a Sink that discards everything.
func Nop() Sink { return nopSink{} }

// safeSink shields callers from a sink that panics.
type safeSink struct {
	inner Sink
}

// Safe wraps s so that a panicking sink never affects the caller. A nil
// sink becomes Nop.
func Safe(s Sink) Sink {
	if s == nil {
		return Nop()
	}
	if _, ok := s.(safeSink); ok {
		return s
	}
	return safeSink{inner: s}
}

func (s safeSink) Warn(msg string, args ...any) {
	defer func() { _ = recover() }()
	s.inner.Warn(msg, args...)
}

func (s safeSink) Error(msg string, args ...any) {
	defer func() { _ = recover() }()
	s.inner.Error(msg, args...)
}
