package application

import (
	"context"

	"github.com/draftea/saga-tracker/shared/models"
	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GetSagaQuery represents the query to get a saga
type GetSagaQuery struct {
	SagaID string `json:"saga_id"`
}

// GetSaga use case
type GetSaga struct {
	sagaRepository domain.SagaRepository
}

// NewGetSaga creates a new GetSaga use case
func NewGetSaga(sagaRepository domain.SagaRepository) *GetSaga {
	return &GetSaga{
		sagaRepository: sagaRepository,
	}
}

// Execute returns the saga with its step count
func (uc *GetSaga) Execute(ctx context.Context, query *GetSagaQuery) (*SagaResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "get_saga",
		trace.WithAttributes(attribute.String("saga_id", query.SagaID)),
	)
	defer span.End()

	sagaID, err := lookupSagaID(query.SagaID)
	if err != nil {
		return nil, err
	}

	detail, err := uc.sagaRepository.FindDetailBySagaID(ctx, sagaID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to find saga")
	}

	if detail == nil {
		return nil, errors.Wrapf(domain.ErrSagaNotFound, "saga %s", sagaID)
	}

	recordQuery(ctx, "get_saga")

	response := toSagaResponse(detail)
	return &response, nil
}

func recordQuery(ctx context.Context, operation string) {
	telemetry.RecordCounter(ctx, "saga_queries_total", "Total saga queries served", 1,
		attribute.String("operation", operation),
	)
}

// lookupSagaID parses a saga id on the read path. Ids too long to have been
// ingested cannot name a stored saga, so they resolve to not found.
func lookupSagaID(raw string) (models.ID, error) {
	sagaID, err := models.NewID(raw)
	if errors.Is(err, models.ErrIDTooLong) {
		return "", errors.Wrapf(domain.ErrSagaNotFound, "saga %.20s...", raw)
	}
	if err != nil {
		return "", errors.Wrapf(domain.ErrValidation, "invalid saga ID: %v", err)
	}
	return sagaID, nil
}
