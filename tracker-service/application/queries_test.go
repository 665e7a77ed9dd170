package application

import (
	"context"
	"strings"
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

func TestGetSaga_Execute(t *testing.T) {
	traceID := "trace-1"
	detail := &domain.SagaDetail{
		Instance: &domain.SagaInstance{
			SagaID:        "saga-1",
			SagaType:      domain.SagaTypeOrderCreation,
			OrderID:       "order-1",
			CurrentStatus: domain.SagaStatusCompleted,
			LastStep:      "order-confirmed",
			LastTraceID:   &traceID,
			StartedAt:     testTime,
			Timestamps:    models.Timestamps{CreatedAt: testTime, UpdatedAt: testTime.Add(2 * time.Second)},
			Version:       models.Version{Value: 3},
		},
		StepCount: 3,
	}

	tests := []struct {
		name          string
		query         *GetSagaQuery
		setupMocks    func(*mocks.MockSagaRepository)
		expectedError error
		expected      *SagaResponse
	}{
		{
			name:  "found",
			query: &GetSagaQuery{SagaID: "saga-1"},
			setupMocks: func(repo *mocks.MockSagaRepository) {
				repo.EXPECT().FindDetailBySagaID(mock.Anything, models.ID("saga-1")).Return(detail, nil).Once()
			},
			expected: &SagaResponse{
				SagaID:        "saga-1",
				SagaType:      "ORDER_CREATION",
				OrderID:       "order-1",
				CurrentStatus: "COMPLETED",
				LastStep:      "order-confirmed",
				LastTraceID:   &traceID,
				StartedAt:     "2025-03-01T12:00:00Z",
				UpdatedAt:     "2025-03-01T12:00:02Z",
				StepCount:     3,
			},
		},
		{
			name:  "unknown saga",
			query: &GetSagaQuery{SagaID: "unknown"},
			setupMocks: func(repo *mocks.MockSagaRepository) {
				repo.EXPECT().FindDetailBySagaID(mock.Anything, models.ID("unknown")).Return(nil, nil).Once()
			},
			expectedError: domain.ErrSagaNotFound,
		},
		{
			name:          "id longer than any stored saga",
			query:         &GetSagaQuery{SagaID: strings.Repeat("s", models.MaxIDLength+1)},
			setupMocks:    func(repo *mocks.MockSagaRepository) {},
			expectedError: domain.ErrSagaNotFound,
		},
		{
			name:          "empty id",
			query:         &GetSagaQuery{},
			setupMocks:    func(repo *mocks.MockSagaRepository) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:  "storage fault",
			query: &GetSagaQuery{SagaID: "saga-1"},
			setupMocks: func(repo *mocks.MockSagaRepository) {
				repo.EXPECT().FindDetailBySagaID(mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
			},
			expectedError: errors.New("failed to find saga: boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockSagaRepository(t)
			tt.setupMocks(repo)

			result, err := NewGetSaga(repo).Execute(context.Background(), tt.query)

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(tt.expectedError, domain.ErrSagaNotFound) || errors.Is(tt.expectedError, domain.ErrValidation) {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.EqualError(t, err, tt.expectedError.Error())
				}
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetSagaSteps_Execute(t *testing.T) {
	producer := "payments"
	history := &domain.SagaHistory{
		Instance: &domain.SagaInstance{SagaID: "saga-1"},
		Steps: []*domain.SagaStep{
			{ID: 1, SagaID: "saga-1", EventID: "evt-1", Step: "order-created", Status: domain.SagaStatusStarted, RecordedAt: testTime},
			{
				ID: 2, SagaID: "saga-1", EventID: "evt-2", Step: "payment", Status: domain.SagaStatusFailed,
				ProducerService: &producer, Metadata: map[string]any{"reason": "declined"},
				RecordedAt: testTime.Add(1500 * time.Millisecond),
			},
		},
	}

	t.Run("ordered steps", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)
		repo.EXPECT().FindHistoryBySagaID(mock.Anything, models.ID("saga-1")).Return(history, nil).Once()

		steps, err := NewGetSagaSteps(repo).Execute(context.Background(), &GetSagaStepsQuery{SagaID: "saga-1"})
		require.NoError(t, err)
		assert.Equal(t, []SagaStepResponse{
			{ID: 1, EventID: "evt-1", Step: "order-created", Status: "STARTED", RecordedAt: "2025-03-01T12:00:00Z"},
			{
				ID: 2, EventID: "evt-2", Step: "payment", Status: "FAILED", ProducerService: &producer,
				Metadata: map[string]any{"reason": "declined"}, RecordedAt: "2025-03-01T12:00:01.5Z",
			},
		}, steps)
	})

	t.Run("unknown saga", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)
		repo.EXPECT().FindHistoryBySagaID(mock.Anything, models.ID("unknown")).Return(nil, nil).Once()

		_, err := NewGetSagaSteps(repo).Execute(context.Background(), &GetSagaStepsQuery{SagaID: "unknown"})
		assert.ErrorIs(t, err, domain.ErrSagaNotFound)
	})

	t.Run("id longer than any stored saga", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)

		_, err := NewGetSagaSteps(repo).Execute(context.Background(),
			&GetSagaStepsQuery{SagaID: strings.Repeat("s", models.MaxIDLength+1)})
		assert.ErrorIs(t, err, domain.ErrSagaNotFound)
	})

	t.Run("known saga without steps", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)
		repo.EXPECT().FindHistoryBySagaID(mock.Anything, models.ID("saga-2")).
			Return(&domain.SagaHistory{Instance: &domain.SagaInstance{SagaID: "saga-2"}}, nil).Once()

		steps, err := NewGetSagaSteps(repo).Execute(context.Background(), &GetSagaStepsQuery{SagaID: "saga-2"})
		require.NoError(t, err)
		assert.NotNil(t, steps)
		assert.Empty(t, steps)
	})
}

func TestSearchSagas_Execute(t *testing.T) {
	from := testTime
	to := testTime.Add(time.Hour)
	failed := domain.SagaStatusFailed
	orderCreation := domain.SagaTypeOrderCreation
	orderID := models.ID("order-1")

	tests := []struct {
		name          string
		query         *SearchSagasQuery
		expected      domain.SearchCriteria
		expectedError error
	}{
		{
			name:     "zero size clamps to one",
			query:    &SearchSagasQuery{},
			expected: domain.SearchCriteria{Page: 0, Size: 1},
		},
		{
			name:     "page whose offset overflows is clamped",
			query:    &SearchSagasQuery{Page: 92233720368547759, Size: 100},
			expected: domain.SearchCriteria{Page: domain.MaxPage, Size: 100},
		},
		{
			name:  "all filters",
			query: &SearchSagasQuery{OrderID: "order-1", SagaType: "ORDER_CREATION", Status: "FAILED", FromDate: &from, ToDate: &to, Page: 2, Size: 5},
			expected: domain.SearchCriteria{
				OrderID: &orderID, SagaType: &orderCreation, Status: &failed,
				FromDate: &from, ToDate: &to, Page: 2, Size: 5,
			},
		},
		{
			name:     "oversized page is clamped",
			query:    &SearchSagasQuery{Size: 500, Page: -1},
			expected: domain.SearchCriteria{Page: 0, Size: domain.MaxPageSize},
		},
		{
			name:          "unknown status",
			query:         &SearchSagasQuery{Status: "DONE"},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "unknown type",
			query:         &SearchSagasQuery{SagaType: "REFUND"},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "inverted period",
			query:         &SearchSagasQuery{FromDate: &to, ToDate: &from},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockSagaRepository(t)
			if tt.expectedError == nil {
				repo.EXPECT().Search(mock.Anything, tt.expected).
					Return(domain.NewSagaPage(nil, tt.expected.Page, tt.expected.Size, 0), nil).Once()
			}

			result, err := NewSearchSagas(repo).Execute(context.Background(), tt.query)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, result.Content)
			assert.NotNil(t, result.Content)
			assert.Equal(t, tt.expected.Size, result.Page.Size)
		})
	}
}

func TestSearchSagas_MapsPage(t *testing.T) {
	repo := mocks.NewMockSagaRepository(t)
	page := domain.NewSagaPage([]*domain.SagaDetail{
		{Instance: &domain.SagaInstance{SagaID: "saga-2", SagaType: domain.SagaTypePaymentCompletion, OrderID: "order-1",
			CurrentStatus: domain.SagaStatusInProgress, StartedAt: testTime.Add(time.Minute),
			Timestamps: models.NewTimestamps(testTime.Add(time.Minute))}, StepCount: 1},
		{Instance: &domain.SagaInstance{SagaID: "saga-1", SagaType: domain.SagaTypeOrderCreation, OrderID: "order-1",
			CurrentStatus: domain.SagaStatusCompleted, StartedAt: testTime,
			Timestamps: models.NewTimestamps(testTime)}, StepCount: 4},
	}, 0, 2, 5)
	repo.EXPECT().Search(mock.Anything, mock.Anything).Return(page, nil).Once()

	result, err := NewSearchSagas(repo).Execute(context.Background(), &SearchSagasQuery{Size: 2})
	require.NoError(t, err)

	require.Len(t, result.Content, 2)
	assert.Equal(t, "saga-2", result.Content[0].SagaID)
	assert.Equal(t, int64(4), result.Content[1].StepCount)
	assert.Equal(t, PageResponse{Number: 0, Size: 2, TotalElements: 5, TotalPages: 3}, result.Page)
}

func TestGetSagaStatistics_Execute(t *testing.T) {
	counts := &domain.SagaCounts{
		ByStatus: map[domain.SagaStatus]int64{
			domain.SagaStatusCompleted:   90,
			domain.SagaStatusFailed:      10,
			domain.SagaStatusCompensated: 5,
		},
		ByType: map[domain.SagaType]int64{domain.SagaTypeOrderCreation: 105},
	}

	t.Run("computes and caches", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)
		cache := mocks.NewMockStatisticsCache(t)

		repo.EXPECT().CountByStatusAndType(mock.Anything, domain.StatisticsCriteria{}).Return(counts, nil).Once()
		cache.EXPECT().Get(mock.Anything, "saga-statistics").Return(nil, nil).Once()
		cache.EXPECT().Set(mock.Anything, "saga-statistics", mock.Anything, time.Minute).Return(nil).Once()

		uc := NewGetSagaStatistics(repo, cache, time.Minute, discardLogger)
		result, err := uc.Execute(context.Background(), &GetSagaStatisticsQuery{})
		require.NoError(t, err)

		assert.Equal(t, int64(105), result.Total)
		assert.InDelta(t, 10.0/105.0, result.FailureRate, 1e-9)
		assert.InDelta(t, 0.5, result.CompensationRate, 1e-9)
		assert.Equal(t, int64(0), result.ByStatus["STARTED"])
		assert.Equal(t, int64(0), result.ByType["PAYMENT_COMPLETION"])
		assert.Nil(t, result.Period.From)
	})

	t.Run("serves from cache", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)
		cache := mocks.NewMockStatisticsCache(t)

		cached := domain.NewSagaStatistics(domain.StatisticsCriteria{}, counts)
		cache.EXPECT().Get(mock.Anything, "saga-statistics:type=ORDER_CREATION").Return(cached, nil).Once()

		uc := NewGetSagaStatistics(repo, cache, time.Minute, discardLogger)
		result, err := uc.Execute(context.Background(), &GetSagaStatisticsQuery{SagaType: "ORDER_CREATION"})
		require.NoError(t, err)
		assert.Equal(t, int64(105), result.Total)
	})

	t.Run("cache failures fall through", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)
		cache := mocks.NewMockStatisticsCache(t)

		repo.EXPECT().CountByStatusAndType(mock.Anything, mock.Anything).Return(counts, nil).Once()
		cache.EXPECT().Get(mock.Anything, mock.Anything).Return(nil, errors.New("redis down")).Once()
		cache.EXPECT().Set(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

		uc := NewGetSagaStatistics(repo, cache, time.Minute, discardLogger)
		result, err := uc.Execute(context.Background(), &GetSagaStatisticsQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(105), result.Total)
	})

	t.Run("period is echoed and filters reach storage", func(t *testing.T) {
		from := testTime
		to := testTime.Add(24 * time.Hour)
		payment := domain.SagaTypePaymentCompletion

		repo := mocks.NewMockSagaRepository(t)
		repo.EXPECT().CountByStatusAndType(mock.Anything, domain.StatisticsCriteria{SagaType: &payment, FromDate: &from, ToDate: &to}).
			Return(&domain.SagaCounts{}, nil).Once()

		uc := NewGetSagaStatistics(repo, nil, 0, discardLogger)
		result, err := uc.Execute(context.Background(), &GetSagaStatisticsQuery{SagaType: "PAYMENT_COMPLETION", FromDate: &from, ToDate: &to})
		require.NoError(t, err)

		assert.Equal(t, int64(0), result.Total)
		assert.Equal(t, 0.0, result.FailureRate)
		require.NotNil(t, result.Period.From)
		assert.Equal(t, "2025-03-01T12:00:00Z", *result.Period.From)
		assert.Equal(t, "2025-03-02T12:00:00Z", *result.Period.To)
	})

	t.Run("invalid input", func(t *testing.T) {
		repo := mocks.NewMockSagaRepository(t)
		uc := NewGetSagaStatistics(repo, nil, 0, discardLogger)

		_, err := uc.Execute(context.Background(), &GetSagaStatisticsQuery{SagaType: "REFUND"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		from := testTime
		to := testTime.Add(-time.Hour)
		_, err = uc.Execute(context.Background(), &GetSagaStatisticsQuery{FromDate: &from, ToDate: &to})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
