// Package events defines the run event stream: typed progress events
// published by the orchestrator and a broadcaster that fans them out to
// subscribers (CLI progress output, future dashboard feeds).
package events

import "time"

// EventType identifies what happened during a sourcing run.
type EventType string

const (
	// TypeRunStarted indicates a sourcing run began
	TypeRunStarted EventType = "run_started"
	// TypeResearcherCompleted indicates one researcher finished for one target
	TypeResearcherCompleted EventType = "researcher_completed"
	// TypeResearcherFailed indicates one researcher failed for one target
	TypeResearcherFailed EventType = "researcher_failed"
	// TypeMergeCompleted indicates deduplication finished
	TypeMergeCompleted EventType = "merge_completed"
	// TypeLeadValidated indicates a lead passed the validation gate
	TypeLeadValidated EventType = "lead_validated"
	// TypeLeadRejected indicates the validation gate dropped a lead
	TypeLeadRejected EventType = "lead_rejected"
	// TypeLeadPersisted indicates a lead was stored successfully
	TypeLeadPersisted EventType = "lead_persisted"
	// TypePersistenceFailed indicates an upsert failed for one lead
	TypePersistenceFailed EventType = "persistence_failed"
	// TypeRunCompleted indicates the run finished and the summary is final
	TypeRunCompleted EventType = "run_completed"
)

// Event is one observation from a sourcing run.
type Event struct {
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// New creates an event with the timestamp set.
func New(eventType EventType, runID, message string) Event {
	return Event{
		Type:      eventType,
		RunID:     runID,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithData attaches structured payload fields to an event.
func (e Event) WithData(data map[string]any) Event {
	e.Data = data
	return e
}
