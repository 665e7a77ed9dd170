package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSagaStep(t *testing.T) {
	recordedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	createdAt := recordedAt.Add(time.Second)
	empty := ""
	producer := "order-service"

	valid := SagaStepParams{
		SagaID:          "s1",
		EventID:         "evt-1",
		Step:            "ORDER_CREATED",
		Status:          SagaStatusStarted,
		ProducerService: &producer,
		TraceID:         &empty,
		RecordedAt:      recordedAt,
	}

	tests := []struct {
		name        string
		mutate      func(p *SagaStepParams)
		expectedErr string
	}{
		{name: "valid", mutate: func(p *SagaStepParams) {}},
		{name: "missing saga id", mutate: func(p *SagaStepParams) { p.SagaID = "" }, expectedErr: "saga id is required"},
		{name: "missing event id", mutate: func(p *SagaStepParams) { p.EventID = "" }, expectedErr: "event id is required"},
		{name: "blank step", mutate: func(p *SagaStepParams) { p.Step = "  " }, expectedErr: "step name is required"},
		{name: "unknown status", mutate: func(p *SagaStepParams) { p.Status = "DONE" }, expectedErr: "unknown saga status"},
		{name: "missing recorded at", mutate: func(p *SagaStepParams) { p.RecordedAt = time.Time{} }, expectedErr: "recorded at is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)

			step, err := NewSagaStep(params, createdAt)

			if tt.expectedErr != "" {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.Nil(t, step)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, recordedAt, step.RecordedAt)
			assert.Equal(t, createdAt, step.CreatedAt)
			assert.Equal(t, "order-service", *step.ProducerService)
			assert.Nil(t, step.TraceID)
			assert.Zero(t, step.ID)
		})
	}
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  map[string]any
		expectErr bool
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "null", raw: "null"},
		{name: "empty object", raw: "{}"},
		{name: "object", raw: `{"traceId":"t-1","attempt":2}`, expected: map[string]any{"traceId": "t-1", "attempt": float64(2)}},
		{name: "malformed", raw: `{"traceId":`, expectErr: true},
		{name: "not an object", raw: `["a"]`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata, err := ParseMetadata(tt.raw)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, metadata)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, metadata)
		})
	}
}
