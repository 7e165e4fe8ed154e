package audit

import (
	"log/slog"
)

// EventEmitter accepts structured audit events for recording.
type EventEmitter interface {
	Emit(Event) error
}

// NopEmitter discards all events. Use when no audit backend is configured.
type NopEmitter struct{}

// Emit discards the event.
func (NopEmitter) Emit(Event) error { return nil }

// SlogEmitter writes audit events through a structured logger. If
// logger is nil, slog.Default() is used.
type SlogEmitter struct {
	logger *slog.Logger
}

// NewSlogEmitter creates an emitter backed by the given logger.
func NewSlogEmitter(logger *slog.Logger) *SlogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEmitter{logger: logger}
}

// Emit writes the event at a level derived from its severity.
func (e *SlogEmitter) Emit(ev Event) error {
	attrs := []any{
		"event", string(ev.Type),
		"key", ev.Key,
		"severity", SeverityFor(ev.Type).String(),
	}
	if ev.Entity != "" {
		attrs = append(attrs, "entity", ev.Entity)
	}
	for k, v := range ev.Details {
		attrs = append(attrs, k, v)
	}
	if SeverityFor(ev.Type) <= SeverityWarning {
		e.logger.Warn("audit", attrs...)
	} else {
		e.logger.Info("audit", attrs...)
	}
	return nil
}

// MultiEmitter fans one event out to several backends. Emission stops
// at the first backend error.
type MultiEmitter []EventEmitter

// Emit forwards the event to every backend in order.
func (m MultiEmitter) Emit(ev Event) error {
	for _, b := range m {
		if err := b.Emit(ev); err != nil {
			return err
		}
	}
	return nil
}
