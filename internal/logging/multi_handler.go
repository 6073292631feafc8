package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler delivers every record to each sink that accepts its level.
// The server runs stdout JSON and the Postgres batch sink behind one of
// these; each sink keeps its own level gate, so ERROR-only persistence and
// full console output coexist on a single logger.
type fanoutHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler combines sinks into a single slog.Handler.
func NewMultiHandler(sinks ...slog.Handler) slog.Handler {
	return &fanoutHandler{sinks: sinks}
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every accepting sink. A failing sink does
// not starve the others: a broken DB sink must never cost the stdout line.
func (f *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range f.sinks {
		if !s.Enabled(ctx, record.Level) {
			continue
		}
		if err := s.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(f.sinks))
	for i, s := range f.sinks {
		sinks[i] = s.WithAttrs(attrs)
	}
	return &fanoutHandler{sinks: sinks}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(f.sinks))
	for i, s := range f.sinks {
		sinks[i] = s.WithGroup(name)
	}
	return &fanoutHandler{sinks: sinks}
}
