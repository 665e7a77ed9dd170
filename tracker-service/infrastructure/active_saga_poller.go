package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"github.com/draftea/saga-tracker/tracker-service/domain"
)

const defaultPollInterval = 30 * time.Second

// LagProbe measures how far the consumer is behind its source
type LagProbe interface {
	Lag(ctx context.Context) (int64, error)
}

// ActiveSagaPoller refreshes the gauges that cannot be derived from single events:
// the number of sagas per status and the consumer lag.
type ActiveSagaPoller struct {
	sagaRepository domain.SagaRepository
	metrics        domain.SagaMetrics
	lagProbe       LagProbe
	interval       time.Duration
	logger         *slog.Logger
}

// ActiveSagaPollerOption configures ActiveSagaPoller
type ActiveSagaPollerOption func(*ActiveSagaPoller)

// WithPollInterval sets the refresh interval
func WithPollInterval(interval time.Duration) ActiveSagaPollerOption {
	return func(p *ActiveSagaPoller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithLagProbe enables the consumer lag gauge
func WithLagProbe(probe LagProbe) ActiveSagaPollerOption {
	return func(p *ActiveSagaPoller) {
		p.lagProbe = probe
	}
}

// WithPollerLogger sets the poller logger
func WithPollerLogger(logger *slog.Logger) ActiveSagaPollerOption {
	return func(p *ActiveSagaPoller) {
		p.logger = logger
	}
}

// NewActiveSagaPoller creates a new ActiveSagaPoller
func NewActiveSagaPoller(sagaRepository domain.SagaRepository, metrics domain.SagaMetrics, opts ...ActiveSagaPollerOption) *ActiveSagaPoller {
	p := &ActiveSagaPoller{
		sagaRepository: sagaRepository,
		metrics:        metrics,
		interval:       defaultPollInterval,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is done. Poll errors are logged and the next tick retries.
func (p *ActiveSagaPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll refreshes the gauges once
func (p *ActiveSagaPoller) Poll(ctx context.Context) {
	counts, err := p.sagaRepository.CountByStatusAndType(ctx, domain.StatisticsCriteria{})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to count active sagas", slog.String("error", err.Error()))
	} else {
		// every status is reported so a drained status drops to zero
		for _, status := range domain.AllSagaStatuses() {
			p.metrics.UpdateActiveSagas(ctx, status, counts.ByStatus[status])
		}
	}

	if p.lagProbe == nil {
		return
	}
	lag, err := p.lagProbe.Lag(ctx)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to measure consumer lag", slog.String("error", err.Error()))
		return
	}
	p.metrics.UpdateConsumerLag(ctx, lag)
}
