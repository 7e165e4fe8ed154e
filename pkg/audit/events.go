package audit

import "time"

// Severity represents syslog severity levels per RFC 5424.
type Severity int

const (
	SeverityWarning Severity = 4
	SeverityNotice  Severity = 5
	SeverityInfo    Severity = 6
)

// String returns the human-readable name for a severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityNotice:
		return "NOTICE"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// EventType identifies a store mutation or pairing event worth
// recording.
type EventType string

const (
	EventDocumentReplace EventType = "document.replace"
	EventDocumentMerge   EventType = "document.merge"
	EventDocumentDelete  EventType = "document.delete"
	EventEntityCreate    EventType = "entity.create"
	EventEntityUpdate    EventType = "entity.update"
	EventEntityDelete    EventType = "entity.delete"
	EventPairingRequest  EventType = "pairing.request"
	EventPairingResolve  EventType = "pairing.resolve"
)

// AllEventTypes returns every defined event type for iteration and validation.
func AllEventTypes() []EventType {
	return []EventType{
		EventDocumentReplace,
		EventDocumentMerge,
		EventDocumentDelete,
		EventEntityCreate,
		EventEntityUpdate,
		EventEntityDelete,
		EventPairingRequest,
		EventPairingResolve,
	}
}

// severityMap maps each event type to its syslog severity.
var severityMap = map[EventType]Severity{
	EventDocumentReplace: SeverityNotice,
	EventDocumentMerge:   SeverityInfo,
	EventDocumentDelete:  SeverityNotice,
	EventEntityCreate:    SeverityInfo,
	EventEntityUpdate:    SeverityInfo,
	EventEntityDelete:    SeverityNotice,
	EventPairingRequest:  SeverityNotice,
	EventPairingResolve:  SeverityNotice,
}

// SeverityFor returns the syslog severity for a given event type.
// Unknown event types return SeverityWarning (fail-secure: treat unknowns as concerning).
func SeverityFor(et EventType) Severity {
	if s, ok := severityMap[et]; ok {
		return s
	}
	return SeverityWarning
}

// Event is a single audit record. Entity is empty for whole-document
// events. Details carries small event-specific context; it must never
// contain credential material.
type Event struct {
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Key       string            `json:"key"`
	Entity    string            `json:"entity,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// NewEvent creates an audit event stamped with the current time.
func NewEvent(t EventType, key, entity string) Event {
	return Event{
		Type:      t,
		Timestamp: time.Now().UTC(),
		Key:       key,
		Entity:    entity,
	}
}

// WithDetail returns a copy of the event with the detail added.
func (e Event) WithDetail(k, v string) Event {
	details := make(map[string]string, len(e.Details)+1)
	for dk, dv := range e.Details {
		details[dk] = dv
	}
	details[k] = v
	e.Details = details
	return e
}
