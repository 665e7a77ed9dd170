package domain

import (
	"context"
	"time"
)

// SagaStatistics summarizes saga instances over a period
type SagaStatistics struct {
	From             *time.Time           `json:"from,omitempty"`
	To               *time.Time           `json:"to,omitempty"`
	Total            int64                `json:"total"`
	ByStatus         map[SagaStatus]int64 `json:"by_status"`
	ByType           map[SagaType]int64   `json:"by_type"`
	FailureRate      float64              `json:"failure_rate"`
	CompensationRate float64              `json:"compensation_rate"`
}

// NewSagaStatistics derives totals and rates from grouped counts.
// Every known status and type is present in the breakdowns. Total is the sum
// of the status breakdown. Rates are 0 when their denominator is 0 and never exceed 1.
func NewSagaStatistics(criteria StatisticsCriteria, counts *SagaCounts) *SagaStatistics {
	stats := &SagaStatistics{
		From:     criteria.FromDate,
		To:       criteria.ToDate,
		ByStatus: make(map[SagaStatus]int64, len(AllSagaStatuses())),
		ByType:   make(map[SagaType]int64, len(AllSagaTypes())),
	}

	for _, status := range AllSagaStatuses() {
		stats.ByStatus[status] = 0
	}
	for _, sagaType := range AllSagaTypes() {
		stats.ByType[sagaType] = 0
	}

	if counts != nil {
		for status, count := range counts.ByStatus {
			if !status.IsValid() || count < 0 {
				continue
			}
			stats.ByStatus[status] += count
		}
		for sagaType, count := range counts.ByType {
			if !sagaType.IsValid() || count < 0 {
				continue
			}
			stats.ByType[sagaType] += count
		}
	}

	for _, count := range stats.ByStatus {
		stats.Total += count
	}

	failed := stats.ByStatus[SagaStatusFailed]
	compensated := stats.ByStatus[SagaStatusCompensated]
	stats.FailureRate = rate(failed, stats.Total)
	stats.CompensationRate = rate(compensated, failed)

	return stats
}

func rate(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	r := float64(numerator) / float64(denominator)
	if r > 1 {
		return 1
	}
	return r
}

// StatisticsCache stores computed statistics for a short time.
// Get returns nil, nil on a miss.
type StatisticsCache interface {
	Get(ctx context.Context, key string) (*SagaStatistics, error)
	Set(ctx context.Context, key string, stats *SagaStatistics, ttl time.Duration) error
}
