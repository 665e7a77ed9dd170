package infrastructure

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRedis struct {
	mock.Mock
}

func (m *mockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func TestRedisStatisticsCache_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		result    *redis.StringCmd
		wantStats *domain.SagaStatistics
		wantErr   bool
	}{
		{
			name:   "miss",
			result: redis.NewStringResult("", redis.Nil),
		},
		{
			name:   "hit",
			result: redis.NewStringResult(`{"total":4,"by_status":{"FAILED":2},"by_type":{"ORDER_CREATION":4},"failure_rate":0.5,"compensation_rate":0}`, nil),
			wantStats: &domain.SagaStatistics{
				Total:       4,
				ByStatus:    map[domain.SagaStatus]int64{domain.SagaStatusFailed: 2},
				ByType:      map[domain.SagaType]int64{domain.SagaTypeOrderCreation: 4},
				FailureRate: 0.5,
			},
		},
		{
			name:    "connection error",
			result:  redis.NewStringResult("", errors.New("connection refused")),
			wantErr: true,
		},
		{
			name:    "corrupt entry",
			result:  redis.NewStringResult("not json", nil),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockRedis{}
			client.On("Get", ctx, "saga-tracker:saga-statistics").Return(tt.result)

			cache := NewRedisStatisticsCache(client, "saga-tracker")
			stats, err := cache.Get(ctx, "saga-statistics")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, stats)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStats, stats)
			}
			client.AssertExpectations(t)
		})
	}
}

func TestRedisStatisticsCache_Set(t *testing.T) {
	ctx := context.Background()
	stats := &domain.SagaStatistics{
		Total:    1,
		ByStatus: map[domain.SagaStatus]int64{domain.SagaStatusCompleted: 1},
		ByType:   map[domain.SagaType]int64{domain.SagaTypeOrderCreation: 1},
	}

	client := &mockRedis{}
	client.On("Set", ctx, "saga-tracker:saga-statistics:type=ORDER_CREATION", mock.MatchedBy(func(v interface{}) bool {
		raw, ok := v.([]byte)
		if !ok {
			return false
		}
		var decoded domain.SagaStatistics
		return json.Unmarshal(raw, &decoded) == nil && assert.ObjectsAreEqual(stats, &decoded)
	}), 30*time.Second).Return(redis.NewStatusResult("OK", nil)).Once()
	client.On("Set", ctx, "saga-tracker:other", mock.Anything, 30*time.Second).
		Return(redis.NewStatusResult("", errors.New("READONLY"))).Once()

	cache := NewRedisStatisticsCache(client, "saga-tracker")
	require.NoError(t, cache.Set(ctx, "saga-statistics:type=ORDER_CREATION", stats, 30*time.Second))
	assert.Error(t, cache.Set(ctx, "other", stats, 30*time.Second))
	client.AssertExpectations(t)
}
