package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/draftea/saga-tracker/shared/models"
	"github.com/draftea/saga-tracker/shared/saga"
	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultIngestAttempts      = 5
	defaultIngestRetryInterval = 50 * time.Millisecond
)

// ProcessSagaEventCommand represents one step event reported by a saga participant
type ProcessSagaEventCommand struct {
	EventID         string    `json:"event_id"`
	EventTimestamp  time.Time `json:"event_timestamp"`
	SagaID          string    `json:"saga_id"`
	SagaType        string    `json:"saga_type"`
	Step            string    `json:"step"`
	Status          string    `json:"status"`
	OrderID         string    `json:"order_id"`
	ProducerService *string   `json:"producer_service,omitempty"`
	TraceID         *string   `json:"trace_id,omitempty"`
	Metadata        string    `json:"metadata,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// ProcessSagaEventResponse describes the outcome of an ingestion
type ProcessSagaEventResponse struct {
	SagaID    string `json:"saga_id"`
	EventID   string `json:"event_id"`
	StepID    int64  `json:"step_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

// ProcessSagaEvent is the idempotent ingestion use case
type ProcessSagaEvent struct {
	sagaRepository domain.SagaRepository
	metrics        domain.SagaMetrics
	aggregator     *domain.SagaAggregator
	logger         *slog.Logger
	maxAttempts    uint64
	retryInterval  time.Duration
}

// ProcessSagaEventOption configures ProcessSagaEvent
type ProcessSagaEventOption func(*ProcessSagaEvent)

// WithAggregator replaces the default aggregator
func WithAggregator(aggregator *domain.SagaAggregator) ProcessSagaEventOption {
	return func(uc *ProcessSagaEvent) {
		uc.aggregator = aggregator
	}
}

// WithRetry bounds the attempts made when another writer updates the same saga concurrently
func WithRetry(maxAttempts int, interval time.Duration) ProcessSagaEventOption {
	return func(uc *ProcessSagaEvent) {
		if maxAttempts > 0 {
			uc.maxAttempts = uint64(maxAttempts)
		}
		if interval > 0 {
			uc.retryInterval = interval
		}
	}
}

// WithLogger sets the use case logger
func WithLogger(logger *slog.Logger) ProcessSagaEventOption {
	return func(uc *ProcessSagaEvent) {
		uc.logger = logger
	}
}

// NewProcessSagaEvent creates a new ProcessSagaEvent use case
func NewProcessSagaEvent(
	sagaRepository domain.SagaRepository,
	metrics domain.SagaMetrics,
	opts ...ProcessSagaEventOption,
) *ProcessSagaEvent {
	uc := &ProcessSagaEvent{
		sagaRepository: sagaRepository,
		metrics:        metrics,
		aggregator:     domain.NewSagaAggregator(),
		logger:         slog.Default(),
		maxAttempts:    defaultIngestAttempts,
		retryInterval:  defaultIngestRetryInterval,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ingestion is the validated form of a command
type ingestion struct {
	params   domain.SagaStepParams
	sagaType domain.SagaType
	orderID  models.ID
}

// ingestResult is what a successful attempt changed
type ingestResult struct {
	existing  *domain.SagaInstance
	instance  *domain.SagaInstance
	step      *domain.SagaStep
	duplicate bool
}

// Execute ingests a step event. Duplicates are acknowledged without changes.
// Validation failures wrap domain.ErrValidation, storage faults are returned
// as *domain.ProcessingError so the event is redelivered.
func (uc *ProcessSagaEvent) Execute(ctx context.Context, cmd *ProcessSagaEventCommand) (*ProcessSagaEventResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "process_saga_event",
		trace.WithAttributes(
			attribute.String("event_id", cmd.EventID),
			attribute.String("saga_id", cmd.SagaID),
			attribute.String("step", cmd.Step),
			attribute.String("step_status", cmd.Status),
		),
	)
	defer span.End()

	uc.logger.DebugContext(ctx, "processing saga event",
		slog.String("event_id", cmd.EventID),
		slog.String("saga_id", cmd.SagaID),
		slog.String("step", cmd.Step),
		slog.String("step_status", cmd.Status),
	)

	var status = "error"
	defer func() {
		telemetry.RecordCounter(ctx, "saga_tracker_operations_total", "Total saga tracker operations", 1,
			attribute.String("operation", "process_saga_event"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "saga_tracker_operation_duration_seconds", "Saga tracker operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "process_saga_event"),
			attribute.String("status", status),
		)
	}()

	in, err := uc.validateCommand(ctx, cmd)
	if err != nil {
		status = "invalid"
		span.RecordError(err)
		uc.logger.WarnContext(ctx, "rejected saga event",
			slog.String("event_id", cmd.EventID),
			slog.String("saga_id", cmd.SagaID),
			slog.String("error", err.Error()),
		)
		return nil, errors.Wrap(err, "invalid command")
	}

	var result *ingestResult
	backoff := retry.WithMaxRetries(uc.maxAttempts-1, retry.NewConstant(uc.retryInterval))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := uc.ingest(ctx, in)
		if errors.Is(err, domain.ErrConcurrentModification) {
			uc.logger.DebugContext(ctx, "saga modified concurrently, retrying",
				slog.String("event_id", cmd.EventID),
				slog.String("saga_id", cmd.SagaID),
			)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrValidation) {
			status = "invalid"
			return nil, errors.Wrap(err, "invalid command")
		}
		uc.logger.ErrorContext(ctx, "failed to process saga event",
			slog.String("event_id", cmd.EventID),
			slog.String("saga_id", cmd.SagaID),
			slog.String("error", err.Error()),
		)
		return nil, domain.NewProcessingError(cmd.EventID, err)
	}

	response := &ProcessSagaEventResponse{
		SagaID:    cmd.SagaID,
		EventID:   cmd.EventID,
		Duplicate: result.duplicate,
	}

	if result.duplicate {
		status = "duplicate"
		span.SetAttributes(attribute.Bool("duplicate", true))
		uc.logger.InfoContext(ctx, "duplicate saga event ignored",
			slog.String("event_id", cmd.EventID),
			slog.String("saga_id", cmd.SagaID),
		)
		return response, nil
	}

	uc.recordMetrics(ctx, result)

	status = "success"
	response.StepID = result.step.ID
	response.Status = result.instance.CurrentStatus.String()
	span.SetAttributes(attribute.String("saga_status", response.Status))

	uc.logger.InfoContext(ctx, "saga event processed",
		slog.String("event_id", cmd.EventID),
		slog.String("saga_id", cmd.SagaID),
		slog.String("step", cmd.Step),
		slog.String("saga_status", response.Status),
	)

	return response, nil
}

// ingest runs one read-decide-write attempt
func (uc *ProcessSagaEvent) ingest(ctx context.Context, in *ingestion) (*ingestResult, error) {
	// the read check is a shortcut, the unique event id in storage is what guarantees idempotence
	seen, err := uc.sagaRepository.FindStepByEventID(ctx, in.params.EventID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find step by event id")
	}
	if seen != nil {
		return &ingestResult{duplicate: true}, nil
	}

	existing, err := uc.sagaRepository.FindBySagaID(ctx, in.params.SagaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find saga")
	}

	step, err := uc.aggregator.BuildStep(in.params)
	if err != nil {
		return nil, err
	}

	instance := uc.aggregator.Apply(existing, step, in.sagaType, in.orderID)

	err = uc.sagaRepository.SaveInstanceAndStep(ctx, instance, step)
	switch {
	case errors.Is(err, domain.ErrDuplicateEvent):
		return &ingestResult{duplicate: true}, nil
	case errors.Is(err, domain.ErrConcurrentModification):
		return nil, err
	case err != nil:
		return nil, errors.Wrap(err, "failed to save saga")
	}

	return &ingestResult{existing: existing, instance: instance, step: step}, nil
}

func (uc *ProcessSagaEvent) recordMetrics(ctx context.Context, result *ingestResult) {
	step := result.step
	uc.metrics.IncrementProcessedEvents(ctx, step.Step, step.Status)

	switch step.Status {
	case domain.SagaStatusFailed:
		uc.metrics.IncrementFailed(ctx, result.instance.SagaType)
	case domain.SagaStatusCompensated:
		uc.metrics.IncrementCompensated(ctx, result.instance.SagaType)
		if result.existing != nil && result.existing.CurrentStatus == domain.SagaStatusFailed {
			duration := step.RecordedAt.Sub(result.existing.Timestamps.UpdatedAt)
			if duration < 0 {
				duration = 0
			}
			uc.metrics.RecordCompensationDuration(ctx, result.instance.SagaType, duration)
		}
	}

	if result.existing != nil && domain.IsLateTransition(result.existing.CurrentStatus, step.Status) {
		uc.metrics.IncrementLateTransitions(ctx, result.existing.CurrentStatus, step.Status)
		uc.logger.WarnContext(ctx, "saga step arrived after terminal status",
			slog.String("saga_id", result.instance.SagaID.String()),
			slog.String("event_id", step.EventID.String()),
			slog.String("from", result.existing.CurrentStatus.String()),
			slog.String("incoming", step.Status.String()),
			slog.String("result", result.instance.CurrentStatus.String()),
		)
	}
}

func (uc *ProcessSagaEvent) validateCommand(ctx context.Context, cmd *ProcessSagaEventCommand) (*ingestion, error) {
	eventID, err := models.NewID(cmd.EventID)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrValidation, "event id: %v", err)
	}
	sagaID, err := models.NewID(cmd.SagaID)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrValidation, "saga id: %v", err)
	}
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrValidation, "order id: %v", err)
	}
	sagaType, err := domain.ParseSagaType(cmd.SagaType)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseSagaStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	metadata, err := domain.ParseMetadata(cmd.Metadata)
	if err != nil {
		uc.logger.WarnContext(ctx, "dropping unparseable step metadata",
			slog.String("event_id", cmd.EventID),
			slog.String("error", err.Error()),
		)
		metadata = nil
	}

	in := &ingestion{
		params: domain.SagaStepParams{
			SagaID:          sagaID,
			EventID:         eventID,
			Step:            cmd.Step,
			Status:          status,
			ProducerService: cmd.ProducerService,
			TraceID:         cmd.TraceID,
			Metadata:        metadata,
			RecordedAt:      cmd.RecordedAt,
		},
		sagaType: sagaType,
		orderID:  orderID,
	}

	if isBlank(in.params.TraceID) {
		in.params.TraceID = metadataString(metadata, saga.MetadataTraceIDKey)
	}
	if isBlank(in.params.ProducerService) {
		in.params.ProducerService = metadataString(metadata, saga.MetadataProducerServiceKey)
	}

	return in, nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func metadataString(metadata map[string]any, key string) *string {
	v, ok := metadata[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}
