// Package events provides the generic event infrastructure for case lifecycle
// event emission. It defines the Envelope type wrapping domain events with
// consistent metadata and the EventSink interface events are appended to.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Envelope wraps a case lifecycle event with the metadata consumers need for
// routing, deduplication, and correlation. The payload schema varies by Type
// and Version.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type identifies the event for routing.
	// Examples: "case.forwarded", "case.reminder_sent".
	Type string `json:"type"`

	// Source identifies the component that emitted the event.
	Source string `json:"source"`

	// Version enables payload schema evolution. Starts at "1.0.0".
	Version string `json:"version"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey deduplicates replays: a retried operation emits the
	// same key, and sinks treat duplicates as no-ops.
	IdempotencyKey string `json:"idempotency_key"`

	// CaseID identifies the case the event belongs to.
	CaseID string `json:"case_id"`

	// TaskNumber is the manufacturer correlation token, when bound.
	TaskNumber string `json:"task_number,omitempty"`

	// WorkflowID and RunID identify the hosting workflow execution when the
	// engine runs under Temporal; empty for synchronous callers.
	WorkflowID string `json:"workflow_id,omitempty"`
	RunID      string `json:"run_id,omitempty"`

	// Payload contains the event data as JSON.
	Payload json.RawMessage `json:"payload"`
}

// EventSink receives emitted events with best-effort delivery. Sink failures
// must never fail the operation that produced the event; implementations
// handle idempotency so duplicate envelopes are no-ops.
type EventSink interface {
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards every event. Used when event emission is disabled.
type NoOpEventSink struct{}

// Append implements EventSink.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error { return nil }

// NewNoOpEventSink creates a sink that discards everything.
func NewNoOpEventSink() EventSink { return &NoOpEventSink{} }

// MemorySink collects events in memory, deduplicated by idempotency key.
// Intended for tests and single-process deployments.
type MemorySink struct {
	mu   sync.Mutex
	seen map[string]struct{}
	log  []Envelope
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{seen: make(map[string]struct{})}
}

// Append records the envelope unless its idempotency key was seen before.
func (s *MemorySink) Append(_ context.Context, envelope Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if envelope.IdempotencyKey != "" {
		if _, dup := s.seen[envelope.IdempotencyKey]; dup {
			return nil
		}
		s.seen[envelope.IdempotencyKey] = struct{}{}
	}
	s.log = append(s.log, envelope)
	return nil
}

// Events returns a copy of the recorded envelopes in append order.
func (s *MemorySink) Events() []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Envelope, len(s.log))
	copy(out, s.log)
	return out
}
