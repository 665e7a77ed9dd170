package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// GetSagaStatisticsQuery represents the statistics filters
type GetSagaStatisticsQuery struct {
	SagaType string     `json:"saga_type,omitempty"`
	FromDate *time.Time `json:"from_date,omitempty"`
	ToDate   *time.Time `json:"to_date,omitempty"`
}

// GetSagaStatistics use case. Results are cached for cacheTTL when a cache is configured.
type GetSagaStatistics struct {
	sagaRepository domain.SagaRepository
	cache          domain.StatisticsCache
	cacheTTL       time.Duration
	logger         *slog.Logger
}

// NewGetSagaStatistics creates a new GetSagaStatistics use case. cache may be nil.
func NewGetSagaStatistics(
	sagaRepository domain.SagaRepository,
	cache domain.StatisticsCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *GetSagaStatistics {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetSagaStatistics{
		sagaRepository: sagaRepository,
		cache:          cache,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

// Execute returns counts by status and type with failure and compensation rates
func (uc *GetSagaStatistics) Execute(ctx context.Context, query *GetSagaStatisticsQuery) (*SagaStatisticsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "get_saga_statistics")
	defer span.End()

	criteria := domain.StatisticsCriteria{
		FromDate: query.FromDate,
		ToDate:   query.ToDate,
	}
	if query.SagaType != "" {
		sagaType, err := domain.ParseSagaType(query.SagaType)
		if err != nil {
			return nil, err
		}
		criteria.SagaType = &sagaType
	}
	if err := validatePeriod(query.FromDate, query.ToDate); err != nil {
		return nil, err
	}

	key := criteria.CacheKey()
	if stats := uc.cached(ctx, key); stats != nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		recordQuery(ctx, "get_saga_statistics")
		return toSagaStatisticsResponse(stats), nil
	}

	counts, err := uc.sagaRepository.CountByStatusAndType(ctx, criteria)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to count sagas")
	}

	stats := domain.NewSagaStatistics(criteria, counts)
	uc.store(ctx, key, stats)

	span.SetAttributes(
		attribute.Bool("cache_hit", false),
		attribute.Int64("total", stats.Total),
	)
	recordQuery(ctx, "get_saga_statistics")

	return toSagaStatisticsResponse(stats), nil
}

// cached and store never fail the query, the cache is an optimization
func (uc *GetSagaStatistics) cached(ctx context.Context, key string) *domain.SagaStatistics {
	if uc.cache == nil || uc.cacheTTL <= 0 {
		return nil
	}
	stats, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.WarnContext(ctx, "statistics cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return stats
}

func (uc *GetSagaStatistics) store(ctx context.Context, key string, stats *domain.SagaStatistics) {
	if uc.cache == nil || uc.cacheTTL <= 0 {
		return
	}
	if err := uc.cache.Set(ctx, key, stats, uc.cacheTTL); err != nil {
		uc.logger.WarnContext(ctx, "statistics cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
