package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/draftea/saga-tracker/shared/models"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/draftea/saga-tracker/tracker-service/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testTime      = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func fixedClock(t time.Time) domain.AggregatorOption {
	return domain.WithClock(func() time.Time { return t })
}

func validCommand() *ProcessSagaEventCommand {
	return &ProcessSagaEventCommand{
		EventID:        "evt-1",
		EventTimestamp: testTime,
		SagaID:         "saga-1",
		SagaType:       "ORDER_CREATION",
		Step:           "order-created",
		Status:         "STARTED",
		OrderID:        "order-1",
		RecordedAt:     testTime,
	}
}

func existingInstance(status domain.SagaStatus, updatedAt time.Time) *domain.SagaInstance {
	return &domain.SagaInstance{
		SagaID:        "saga-1",
		SagaType:      domain.SagaTypeOrderCreation,
		OrderID:       "order-1",
		CurrentStatus: status,
		LastStep:      "previous",
		StartedAt:     testTime.Add(-time.Hour),
		Timestamps: models.Timestamps{
			CreatedAt: testTime.Add(-time.Hour),
			UpdatedAt: updatedAt,
		},
		Version: models.Version{Value: 3},
	}
}

func savesWithID(id int64, check func(instance *domain.SagaInstance, step *domain.SagaStep)) func(context.Context, *domain.SagaInstance, *domain.SagaStep) error {
	return func(_ context.Context, instance *domain.SagaInstance, step *domain.SagaStep) error {
		if check != nil {
			check(instance, step)
		}
		step.ID = id
		return nil
	}
}

func TestProcessSagaEvent_Execute(t *testing.T) {
	tests := []struct {
		name          string
		command       func() *ProcessSagaEventCommand
		setupMocks    func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics)
		expectedErr   error
		expectedExtra error
		expected      *ProcessSagaEventResponse
	}{
		{
			name:    "first event creates the saga",
			command: validCommand,
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, models.ID("evt-1")).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, models.ID("saga-1")).Return(nil, nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(1, func(instance *domain.SagaInstance, step *domain.SagaStep) {
						assert.Equal(t, domain.SagaStatusStarted, instance.CurrentStatus)
						assert.Equal(t, 1, instance.Version.Value)
						assert.Equal(t, testTime, instance.StartedAt)
						assert.Equal(t, models.ID("order-1"), instance.OrderID)
						assert.Equal(t, "order-created", step.Step)
						assert.Equal(t, testTime, step.RecordedAt)
					})).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, "order-created", domain.SagaStatusStarted).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 1, Status: "STARTED"},
		},
		{
			name:    "already recorded event is acknowledged",
			command: validCommand,
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, models.ID("evt-1")).
					Return(&domain.SagaStep{ID: 9, EventID: "evt-1"}, nil).Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", Duplicate: true},
		},
		{
			name:    "duplicate detected at write time",
			command: validCommand,
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					Return(domain.ErrDuplicateEvent).Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", Duplicate: true},
		},
		{
			name:    "concurrent writer is retried",
			command: validCommand,
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Twice()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).
					Return(existingInstance(domain.SagaStatusInProgress, testTime), nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					Return(domain.ErrConcurrentModification).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(2, func(instance *domain.SagaInstance, step *domain.SagaStep) {
						assert.Equal(t, 4, instance.Version.Value)
						assert.Equal(t, domain.SagaStatusInProgress, instance.CurrentStatus)
					})).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, "order-created", domain.SagaStatusStarted).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 2, Status: "IN_PROGRESS"},
		},
		{
			name:    "retries are bounded",
			command: validCommand,
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Times(3)
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).Return(nil, nil).Times(3)
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					Return(domain.ErrConcurrentModification).Times(3)
			},
			expectedErr:   domain.ErrProcessing,
			expectedExtra: domain.ErrConcurrentModification,
		},
		{
			name:    "storage fault is a processing error",
			command: validCommand,
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
			},
			expectedErr: domain.ErrProcessing,
		},
		{
			name: "missing saga id is rejected",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.SagaID = ""
				return cmd
			},
			expectedErr: domain.ErrValidation,
		},
		{
			name: "unknown status is rejected",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.Status = "DONE"
				return cmd
			},
			expectedErr: domain.ErrValidation,
		},
		{
			name: "unknown saga type is rejected",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.SagaType = "REFUND"
				return cmd
			},
			expectedErr: domain.ErrValidation,
		},
		{
			name: "missing recorded at falls back to ingestion time",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.RecordedAt = time.Time{}
				return cmd
			},
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(1, func(_ *domain.SagaInstance, step *domain.SagaStep) {
						assert.Equal(t, testTime, step.RecordedAt)
						assert.Equal(t, testTime, step.CreatedAt)
					})).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, "order-created", domain.SagaStatusStarted).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 1, Status: "STARTED"},
		},
		{
			name: "failure is counted",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.Step = "payment"
				cmd.Status = "FAILED"
				return cmd
			},
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).
					Return(existingInstance(domain.SagaStatusInProgress, testTime), nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(5, nil)).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, "payment", domain.SagaStatusFailed).Return().Once()
				metrics.EXPECT().IncrementFailed(mock.Anything, domain.SagaTypeOrderCreation).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 5, Status: "FAILED"},
		},
		{
			name: "compensation after failure records its duration",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.Step = "refund"
				cmd.Status = "COMPENSATED"
				cmd.RecordedAt = testTime.Add(60 * time.Second)
				return cmd
			},
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).
					Return(existingInstance(domain.SagaStatusFailed, testTime), nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(6, nil)).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, "refund", domain.SagaStatusCompensated).Return().Once()
				metrics.EXPECT().IncrementCompensated(mock.Anything, domain.SagaTypeOrderCreation).Return().Once()
				metrics.EXPECT().RecordCompensationDuration(mock.Anything, domain.SagaTypeOrderCreation, 60*time.Second).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 6, Status: "COMPENSATED"},
		},
		{
			name: "compensation recorded before the failure clamps to zero",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.Step = "refund"
				cmd.Status = "COMPENSATED"
				cmd.RecordedAt = testTime.Add(-5 * time.Second)
				return cmd
			},
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).
					Return(existingInstance(domain.SagaStatusFailed, testTime), nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(7, nil)).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, "refund", domain.SagaStatusCompensated).Return().Once()
				metrics.EXPECT().IncrementCompensated(mock.Anything, domain.SagaTypeOrderCreation).Return().Once()
				metrics.EXPECT().RecordCompensationDuration(mock.Anything, domain.SagaTypeOrderCreation, time.Duration(0)).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 7, Status: "COMPENSATED"},
		},
		{
			name: "failure after completion is a late transition",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.Step = "payment"
				cmd.Status = "FAILED"
				return cmd
			},
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).
					Return(existingInstance(domain.SagaStatusCompleted, testTime), nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(8, nil)).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, "payment", domain.SagaStatusFailed).Return().Once()
				metrics.EXPECT().IncrementFailed(mock.Anything, domain.SagaTypeOrderCreation).Return().Once()
				metrics.EXPECT().IncrementLateTransitions(mock.Anything, domain.SagaStatusCompleted, domain.SagaStatusFailed).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 8, Status: "FAILED"},
		},
		{
			name: "trace and producer fall back to metadata",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.Metadata = `{"traceId":"trace-9","producerService":"orders","amount":10}`
				return cmd
			},
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(1, func(instance *domain.SagaInstance, step *domain.SagaStep) {
						require.NotNil(t, step.TraceID)
						require.NotNil(t, step.ProducerService)
						assert.Equal(t, "trace-9", *step.TraceID)
						assert.Equal(t, "orders", *step.ProducerService)
						assert.Equal(t, float64(10), step.Metadata["amount"])
						require.NotNil(t, instance.LastTraceID)
						assert.Equal(t, "trace-9", *instance.LastTraceID)
					})).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, mock.Anything, mock.Anything).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 1, Status: "STARTED"},
		},
		{
			name: "unparseable metadata is dropped",
			command: func() *ProcessSagaEventCommand {
				cmd := validCommand()
				cmd.Metadata = `{"broken"`
				return cmd
			},
			setupMocks: func(t *testing.T, repo *mocks.MockSagaRepository, metrics *mocks.MockSagaMetrics) {
				repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().FindBySagaID(mock.Anything, mock.Anything).Return(nil, nil).Once()
				repo.EXPECT().SaveInstanceAndStep(mock.Anything, mock.Anything, mock.Anything).
					RunAndReturn(savesWithID(1, func(_ *domain.SagaInstance, step *domain.SagaStep) {
						assert.Nil(t, step.Metadata)
					})).Once()
				metrics.EXPECT().IncrementProcessedEvents(mock.Anything, mock.Anything, mock.Anything).Return().Once()
			},
			expected: &ProcessSagaEventResponse{SagaID: "saga-1", EventID: "evt-1", StepID: 1, Status: "STARTED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockSagaRepository(t)
			metrics := mocks.NewMockSagaMetrics(t)
			if tt.setupMocks != nil {
				tt.setupMocks(t, repo, metrics)
			}

			uc := NewProcessSagaEvent(repo, metrics,
				WithAggregator(domain.NewSagaAggregator(fixedClock(testTime))),
				WithRetry(3, time.Millisecond),
				WithLogger(discardLogger),
			)

			result, err := uc.Execute(context.Background(), tt.command())

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				if tt.expectedExtra != nil {
					assert.ErrorIs(t, err, tt.expectedExtra)
				}
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestProcessSagaEvent_ProcessingErrorCarriesEventID(t *testing.T) {
	repo := mocks.NewMockSagaRepository(t)
	metrics := mocks.NewMockSagaMetrics(t)
	repo.EXPECT().FindStepByEventID(mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

	uc := NewProcessSagaEvent(repo, metrics, WithLogger(discardLogger))
	_, err := uc.Execute(context.Background(), validCommand())

	var processingErr *domain.ProcessingError
	require.True(t, errors.As(err, &processingErr))
	assert.Equal(t, "evt-1", processingErr.EventID)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}
