package infrastructure

import (
	"context"
	"time"

	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var _ domain.SagaMetrics = (*OTelSagaMetrics)(nil)

// Compensations usually take seconds to minutes
var compensationBuckets = []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800}

// OTelSagaMetrics implements SagaMetrics with OpenTelemetry instruments.
// The Prometheus exporter registered by telemetry.InitTelemetry serves them on /metrics.
type OTelSagaMetrics struct {
	processed        metric.Int64Counter
	failed           metric.Int64Counter
	compensated      metric.Int64Counter
	compensationTime metric.Float64Histogram
	lateTransitions  metric.Int64Counter
	active           metric.Int64Gauge
	consumerLag      metric.Int64Gauge
}

// NewOTelSagaMetrics creates the saga instruments on the given meter
func NewOTelSagaMetrics(meter metric.Meter) (*OTelSagaMetrics, error) {
	var (
		m   OTelSagaMetrics
		err error
	)

	if m.processed, err = meter.Int64Counter("saga_events_processed_total",
		metric.WithDescription("Saga step events accepted, by step and status")); err != nil {
		return nil, errors.Wrap(err, "saga_events_processed_total")
	}
	if m.failed, err = meter.Int64Counter("saga_failed_total",
		metric.WithDescription("FAILED step events accepted, by saga type")); err != nil {
		return nil, errors.Wrap(err, "saga_failed_total")
	}
	if m.compensated, err = meter.Int64Counter("saga_compensated_total",
		metric.WithDescription("COMPENSATED step events accepted, by saga type")); err != nil {
		return nil, errors.Wrap(err, "saga_compensated_total")
	}
	if m.compensationTime, err = meter.Float64Histogram("saga_compensation_duration_seconds",
		metric.WithDescription("Time between a saga failing and its compensation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(compensationBuckets...)); err != nil {
		return nil, errors.Wrap(err, "saga_compensation_duration_seconds")
	}
	if m.lateTransitions, err = meter.Int64Counter("saga_transitions_after_terminal_total",
		metric.WithDescription("Step events that moved a saga out of a terminal status")); err != nil {
		return nil, errors.Wrap(err, "saga_transitions_after_terminal_total")
	}
	if m.active, err = meter.Int64Gauge("saga_active_total",
		metric.WithDescription("Saga instances currently in each status")); err != nil {
		return nil, errors.Wrap(err, "saga_active_total")
	}
	if m.consumerLag, err = meter.Int64Gauge("saga_tracker_consumer_lag",
		metric.WithDescription("Messages waiting in the tracker queue")); err != nil {
		return nil, errors.Wrap(err, "saga_tracker_consumer_lag")
	}

	return &m, nil
}

func (m *OTelSagaMetrics) IncrementProcessedEvents(ctx context.Context, step string, status domain.SagaStatus) {
	m.processed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status.String()),
	))
}

func (m *OTelSagaMetrics) IncrementFailed(ctx context.Context, sagaType domain.SagaType) {
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("saga_type", sagaType.String())))
}

func (m *OTelSagaMetrics) IncrementCompensated(ctx context.Context, sagaType domain.SagaType) {
	m.compensated.Add(ctx, 1, metric.WithAttributes(attribute.String("saga_type", sagaType.String())))
}

func (m *OTelSagaMetrics) RecordCompensationDuration(ctx context.Context, sagaType domain.SagaType, duration time.Duration) {
	m.compensationTime.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("saga_type", sagaType.String())))
}

func (m *OTelSagaMetrics) IncrementLateTransitions(ctx context.Context, from, to domain.SagaStatus) {
	m.lateTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	))
}

func (m *OTelSagaMetrics) UpdateActiveSagas(ctx context.Context, status domain.SagaStatus, count int64) {
	m.active.Record(ctx, count, metric.WithAttributes(attribute.String("status", status.String())))
}

func (m *OTelSagaMetrics) UpdateConsumerLag(ctx context.Context, lag int64) {
	m.consumerLag.Record(ctx, lag)
}
