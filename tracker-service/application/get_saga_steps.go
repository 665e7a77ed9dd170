package application

import (
	"context"

	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GetSagaStepsQuery represents the query to list the steps of a saga
type GetSagaStepsQuery struct {
	SagaID string `json:"saga_id"`
}

// GetSagaSteps use case
type GetSagaSteps struct {
	sagaRepository domain.SagaRepository
}

// NewGetSagaSteps creates a new GetSagaSteps use case
func NewGetSagaSteps(sagaRepository domain.SagaRepository) *GetSagaSteps {
	return &GetSagaSteps{
		sagaRepository: sagaRepository,
	}
}

// Execute returns the steps of a saga ordered by recorded time
func (uc *GetSagaSteps) Execute(ctx context.Context, query *GetSagaStepsQuery) ([]SagaStepResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "get_saga_steps",
		trace.WithAttributes(attribute.String("saga_id", query.SagaID)),
	)
	defer span.End()

	sagaID, err := lookupSagaID(query.SagaID)
	if err != nil {
		return nil, err
	}

	history, err := uc.sagaRepository.FindHistoryBySagaID(ctx, sagaID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to find saga steps")
	}

	if history == nil {
		return nil, errors.Wrapf(domain.ErrSagaNotFound, "saga %s", sagaID)
	}

	recordQuery(ctx, "get_saga_steps")
	span.SetAttributes(attribute.Int("step_count", len(history.Steps)))

	steps := make([]SagaStepResponse, 0, len(history.Steps))
	for _, step := range history.Steps {
		steps = append(steps, toSagaStepResponse(step))
	}
	return steps, nil
}
