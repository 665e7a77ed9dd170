package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/draftea/saga-tracker/shared/models"
	"github.com/pkg/errors"
)

// SagaStep is one accepted step event. Steps are append-only.
type SagaStep struct {
	ID              int64
	SagaID          models.ID
	EventID         models.ID
	Step            string
	Status          SagaStatus
	ProducerService *string
	TraceID         *string
	Metadata        map[string]any
	RecordedAt      time.Time
	CreatedAt       time.Time
}

// SagaStepParams holds the event fields a step is built from
type SagaStepParams struct {
	SagaID          models.ID
	EventID         models.ID
	Step            string
	Status          SagaStatus
	ProducerService *string
	TraceID         *string
	Metadata        map[string]any
	RecordedAt      time.Time
}

// NewSagaStep builds a step. RecordedAt is copied from the event, CreatedAt is the ingestion time.
func NewSagaStep(params SagaStepParams, createdAt time.Time) (*SagaStep, error) {
	if params.SagaID.IsZero() {
		return nil, errors.Wrap(ErrValidation, "saga id is required")
	}
	if params.EventID.IsZero() {
		return nil, errors.Wrap(ErrValidation, "event id is required")
	}
	if strings.TrimSpace(params.Step) == "" {
		return nil, errors.Wrap(ErrValidation, "step name is required")
	}
	if !params.Status.IsValid() {
		return nil, errors.Wrapf(ErrValidation, "unknown saga status %q", params.Status)
	}
	if params.RecordedAt.IsZero() {
		return nil, errors.Wrap(ErrValidation, "recorded at is required")
	}

	return &SagaStep{
		SagaID:          params.SagaID,
		EventID:         params.EventID,
		Step:            params.Step,
		Status:          params.Status,
		ProducerService: nonEmpty(params.ProducerService),
		TraceID:         nonEmpty(params.TraceID),
		Metadata:        params.Metadata,
		RecordedAt:      params.RecordedAt,
		CreatedAt:       createdAt,
	}, nil
}

// ParseMetadata decodes the opaque metadata JSON object carried by an event.
// Empty input yields nil metadata.
func ParseMetadata(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, errors.Wrap(err, "failed to parse step metadata")
	}
	if len(metadata) == 0 {
		return nil, nil
	}
	return metadata, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
