package saga

// This file contains the contract services use to report saga progress to the
// tracker. Services only report what happened; the tracker never answers back.

import (
	"time"

	"github.com/draftea/saga-tracker/shared/events"
	"github.com/draftea/saga-tracker/shared/models"
)

// Metadata keys the tracker falls back to when the explicit provenance fields are empty
const (
	MetadataTraceIDKey         = "traceId"
	MetadataProducerServiceKey = "producerService"
)

// TrackerEvent is the payload published on events.SagaTrackerTopic, one per
// executed saga step. Timestamps are epoch milliseconds.
type TrackerEvent struct {
	EventID         string  `json:"event_id"`
	EventTimestamp  int64   `json:"event_timestamp"`
	SagaID          string  `json:"saga_id"`
	SagaType        string  `json:"saga_type"`
	Step            string  `json:"step"`
	Status          string  `json:"status"`
	OrderID         string  `json:"order_id"`
	ProducerService *string `json:"producer_service,omitempty"`
	TraceID         *string `json:"trace_id,omitempty"`
	Metadata        *string `json:"metadata,omitempty"`
	RecordedAt      int64   `json:"recorded_at"`
}

// EventTime returns EventTimestamp as time
func (e TrackerEvent) EventTime() time.Time {
	return time.UnixMilli(e.EventTimestamp).UTC()
}

// RecordedTime returns RecordedAt as time
func (e TrackerEvent) RecordedTime() time.Time {
	return time.UnixMilli(e.RecordedAt).UTC()
}

// ToEvent wraps the payload in a bus envelope keyed by the saga id
func (e TrackerEvent) ToEvent() *events.Event {
	return events.NewEventWithTopic(models.ID(e.SagaID), events.SagaTrackerTopic, e).
		WithCorrelationID(models.ID(e.OrderID))
}
