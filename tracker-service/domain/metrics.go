package domain

import (
	"context"
	"time"
)

// SagaMetrics receives the observations made while tracking sagas.
// Implementations own the aggregation, callers only report deltas.
type SagaMetrics interface {
	IncrementProcessedEvents(ctx context.Context, step string, status SagaStatus)
	IncrementFailed(ctx context.Context, sagaType SagaType)
	IncrementCompensated(ctx context.Context, sagaType SagaType)
	RecordCompensationDuration(ctx context.Context, sagaType SagaType, duration time.Duration)
	IncrementLateTransitions(ctx context.Context, from, to SagaStatus)
	UpdateActiveSagas(ctx context.Context, status SagaStatus, count int64)
	UpdateConsumerLag(ctx context.Context, lag int64)
}
