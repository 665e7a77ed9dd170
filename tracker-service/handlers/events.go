package handlers

import (
	"context"
	"log/slog"

	"github.com/draftea/saga-tracker/shared/events"
	"github.com/draftea/saga-tracker/shared/saga"
	"github.com/draftea/saga-tracker/tracker-service/application"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
)

// SagaEventHandlers feeds tracker events from the bus into ingestion
type SagaEventHandlers struct {
	processSagaEvent *application.ProcessSagaEvent
	logger           *slog.Logger
}

// NewSagaEventHandlers creates new saga event handlers
func NewSagaEventHandlers(processSagaEvent *application.ProcessSagaEvent, logger *slog.Logger) *SagaEventHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &SagaEventHandlers{
		processSagaEvent: processSagaEvent,
		logger:           logger,
	}
}

// Handle implements the events.EventHandler interface
func (h *SagaEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.Topic {
	case events.SagaTrackerTopic:
		return h.HandleTrackerEvent(ctx, event)
	default:
		// Unknown topic, ignore
		return nil
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *SagaEventHandlers) HandlerID() string {
	return "saga-tracker-event-handler"
}

// HandleTrackerEvent ingests one saga step event.
// Malformed and invalid events are permanent failures; anything else is redelivered.
func (h *SagaEventHandlers) HandleTrackerEvent(ctx context.Context, event *events.Event) error {
	var payload saga.TrackerEvent
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.WarnContext(ctx, "undecodable saga event",
			slog.String("message_id", event.ID.String()),
			slog.String("error", err.Error()),
		)
		return events.Permanent(errors.Wrap(err, "failed to decode saga event"))
	}

	_, err := h.processSagaEvent.Execute(ctx, toCommand(payload))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return events.Permanent(err)
		}
		return err
	}

	return nil
}

func toCommand(payload saga.TrackerEvent) *application.ProcessSagaEventCommand {
	cmd := &application.ProcessSagaEventCommand{
		EventID:         payload.EventID,
		EventTimestamp:  payload.EventTime(),
		SagaID:          payload.SagaID,
		SagaType:        payload.SagaType,
		Step:            payload.Step,
		Status:          payload.Status,
		OrderID:         payload.OrderID,
		ProducerService: payload.ProducerService,
		TraceID:         payload.TraceID,
	}
	if payload.Metadata != nil {
		cmd.Metadata = *payload.Metadata
	}
	// zero RecordedAt lets the aggregator stamp ingestion time
	if payload.RecordedAt != 0 {
		cmd.RecordedAt = payload.RecordedTime()
	}
	return cmd
}
