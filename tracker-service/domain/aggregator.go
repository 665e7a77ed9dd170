package domain

import (
	"time"

	"github.com/draftea/saga-tracker/shared/models"
)

// SagaAggregator folds accepted steps into saga instances
type SagaAggregator struct {
	now func() time.Time
}

// AggregatorOption configures a SagaAggregator
type AggregatorOption func(*SagaAggregator)

// WithClock replaces the wall clock used for ingestion timestamps
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *SagaAggregator) {
		a.now = now
	}
}

// NewSagaAggregator creates a new aggregator
func NewSagaAggregator(opts ...AggregatorOption) *SagaAggregator {
	a := &SagaAggregator{
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now returns the aggregator's current time
func (a *SagaAggregator) Now() time.Time {
	return a.now()
}

// BuildStep builds a step stamped with the aggregator's clock.
// Events that carry no recorded time are recorded at ingestion time.
func (a *SagaAggregator) BuildStep(params SagaStepParams) (*SagaStep, error) {
	now := a.now()
	if params.RecordedAt.IsZero() {
		params.RecordedAt = now
	}
	return NewSagaStep(params, now)
}

// Apply returns the instance that results from applying step to existing.
// existing is never modified. sagaType and orderID are only used when the
// saga is seen for the first time.
func (a *SagaAggregator) Apply(existing *SagaInstance, step *SagaStep, sagaType SagaType, orderID models.ID) *SagaInstance {
	now := a.now()

	if existing == nil {
		return &SagaInstance{
			SagaID:        step.SagaID,
			SagaType:      sagaType,
			OrderID:       orderID,
			CurrentStatus: step.Status,
			LastStep:      step.Step,
			LastTraceID:   copyString(step.TraceID),
			StartedAt:     now,
			Timestamps:    models.NewTimestamps(now),
			Version:       models.NewVersion(),
		}
	}

	updated := existing.Clone()
	updated.CurrentStatus = NextStatus(existing.CurrentStatus, step.Status)
	updated.LastStep = step.Step
	updated.LastTraceID = copyString(step.TraceID)
	updated.Timestamps = existing.Timestamps.Touch(now)
	updated.Version = existing.Version.Update()
	return updated
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
