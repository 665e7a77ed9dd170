package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/draftea/saga-tracker/shared/events"
	sharedinfra "github.com/draftea/saga-tracker/shared/infrastructure"
	"github.com/draftea/saga-tracker/shared/telemetry"
	"github.com/draftea/saga-tracker/tracker-service/application"
	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/draftea/saga-tracker/tracker-service/handlers"
	"github.com/draftea/saga-tracker/tracker-service/infrastructure"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

const (
	connectAttempts = 10
	connectInterval = 2 * time.Second
)

type Dependencies struct {
	Logger *slog.Logger

	// Telemetry
	Telemetry         *telemetry.Telemetry
	telemetryShutdown func()

	// Database, nil with the memory driver
	DB *sqlx.DB

	// Repositories
	SagaRepository domain.SagaRepository
	SagaMetrics    *infrastructure.OTelSagaMetrics

	// Cache, nil when redis is not configured
	Redis *redis.Client

	// Use Cases
	ProcessSagaEvent  *application.ProcessSagaEvent
	GetSaga           *application.GetSaga
	GetSagaSteps      *application.GetSagaSteps
	SearchSagas       *application.SearchSagas
	GetSagaStatistics *application.GetSagaStatistics

	// HTTP Handlers
	SagaHandlers *handlers.SagaHandlers

	// Event Handlers
	SagaEventHandlers *handlers.SagaEventHandlers

	// Background
	ActiveSagaPoller *infrastructure.ActiveSagaPoller

	// Infrastructure, nil when no queue is configured
	EventSubscriber     *sharedinfra.SQSSubscriberAdapter
	DeadLetterPublisher *sharedinfra.SNSPublisherAdapter
}

// BuildDependencies wires the service. Anything already opened is closed when wiring fails.
func BuildDependencies(ctx context.Context, config *Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: logger}
	built := false
	defer func() {
		if !built {
			deps.Close()
		}
	}()

	// Initialize telemetry
	telemetryConfig := telemetry.TrackerServiceConfig.
		WithServiceName(config.ServiceName).
		WithVersion(config.Version).
		WithOTLPEndpoint(config.Telemetry.OTLPEndpoint)
	if config.Telemetry.Enabled {
		tel, shutdown, err := telemetry.InitTelemetry(ctx, telemetryConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		deps.Telemetry = tel
		deps.telemetryShutdown = shutdown
	} else {
		deps.Telemetry = telemetry.NewTelemetry(telemetryConfig)
	}

	sagaMetrics, err := infrastructure.NewOTelSagaMetrics(deps.Telemetry.GetMeter())
	if err != nil {
		return nil, fmt.Errorf("failed to create saga metrics: %w", err)
	}
	deps.SagaMetrics = sagaMetrics

	// Initialize repositories
	switch config.Database.Driver {
	case DatabaseDriverMemory:
		repository, err := infrastructure.NewMemorySagaRepository()
		if err != nil {
			return nil, fmt.Errorf("failed to create memory repository: %w", err)
		}
		deps.SagaRepository = repository
	default:
		db, err := connectDatabase(ctx, config, logger)
		if err != nil {
			return nil, err
		}
		deps.DB = db

		repository := infrastructure.NewPostgresSagaRepository(db)
		if err := repository.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		deps.SagaRepository = repository
	}

	// Statistics cache
	var statisticsCache domain.StatisticsCache
	if config.Redis.Addr != "" {
		deps.Redis = infrastructure.NewRedisClient(config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			// the cache is optional, queries fall through to storage
			logger.WarnContext(ctx, "redis unavailable, statistics cache disabled",
				slog.String("addr", config.Redis.Addr),
				slog.String("error", err.Error()),
			)
			deps.Redis.Close()
			deps.Redis = nil
		} else {
			statisticsCache = infrastructure.NewRedisStatisticsCache(deps.Redis, config.ServiceName)
		}
	}

	// Initialize use cases
	deps.ProcessSagaEvent = application.NewProcessSagaEvent(deps.SagaRepository, sagaMetrics,
		application.WithRetry(config.Ingest.MaxAttempts, config.Ingest.RetryInterval),
		application.WithLogger(logger),
	)
	deps.GetSaga = application.NewGetSaga(deps.SagaRepository)
	deps.GetSagaSteps = application.NewGetSagaSteps(deps.SagaRepository)
	deps.SearchSagas = application.NewSearchSagas(deps.SagaRepository)
	deps.GetSagaStatistics = application.NewGetSagaStatistics(deps.SagaRepository, statisticsCache, config.Query.StatisticsCacheTTL, logger)

	// Initialize handlers
	deps.SagaHandlers = handlers.NewSagaHandlers(deps.GetSaga, deps.GetSagaSteps, deps.SearchSagas, deps.GetSagaStatistics, logger)
	deps.SagaEventHandlers = handlers.NewSagaEventHandlers(deps.ProcessSagaEvent, logger)

	pollerOptions := []infrastructure.ActiveSagaPollerOption{
		infrastructure.WithPollInterval(config.Poller.Interval),
		infrastructure.WithPollerLogger(logger),
	}

	// Initialize AWS infrastructure
	if config.AWS.SQSQueueURL != "" {
		awsConfig, err := sharedinfra.LoadAWSConfig(ctx, config.AWS.Region)
		if err != nil {
			return nil, err
		}
		sqsClient := sharedinfra.NewSQSClient(awsConfig, config.AWS.EndpointSQS)

		subscriberOptions := []sharedinfra.SQSSubscriberOption{
			sharedinfra.WithName(config.ServiceName),
			sharedinfra.WithWorkers(config.Consumer.Workers),
			sharedinfra.WithReaders(config.Consumer.Readers),
			sharedinfra.WithWaitTimeSeconds(config.Consumer.WaitTimeSeconds),
			sharedinfra.WithPollBackoff(config.Consumer.EmptyReceiveBackoff, config.Consumer.ErrorBackoff),
			sharedinfra.WithVisibilityTimeout(config.Consumer.VisibilityTimeout),
			sharedinfra.WithMaxReceiveCount(config.Consumer.MaxReceiveCount),
			sharedinfra.WithLogger(logger),
		}
		if config.AWS.DeadLetterTopicArn != "" {
			snsClient := sharedinfra.NewSNSClient(awsConfig, config.AWS.EndpointSNS)
			deps.DeadLetterPublisher = sharedinfra.NewSNSPublisherAdapter(snsClient, map[events.Topic]string{
				events.SagaTrackerDeadLetterTopic: config.AWS.DeadLetterTopicArn,
			})
			subscriberOptions = append(subscriberOptions, sharedinfra.WithDeadLetterHandler(
				sharedinfra.NewDeadLetterPublisher(deps.DeadLetterPublisher, events.SagaTrackerDeadLetterTopic),
			))
		}
		deps.EventSubscriber = sharedinfra.NewSQSSubscriberAdapter(sqsClient, config.AWS.SQSQueueURL, subscriberOptions...)

		pollerOptions = append(pollerOptions,
			infrastructure.WithLagProbe(infrastructure.NewSQSQueueLagProbe(sqsClient, config.AWS.SQSQueueURL)))
	}

	deps.ActiveSagaPoller = infrastructure.NewActiveSagaPoller(deps.SagaRepository, sagaMetrics, pollerOptions...)

	built = true
	return deps, nil
}

// connectDatabase retries while the database is still starting up
func connectDatabase(ctx context.Context, config *Config, logger *slog.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewConstant(connectInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		conn, err := sqlx.ConnectContext(ctx, "postgres", config.GetDatabaseURL())
		if err != nil {
			logger.WarnContext(ctx, "database not ready", slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if config.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.Database.MaxOpenConns)
		db.SetMaxIdleConns(config.Database.MaxOpenConns)
	}
	return db, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if d.DeadLetterPublisher != nil {
		if err := d.DeadLetterPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close dead letter publisher: %w", err))
		}
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.telemetryShutdown != nil {
		d.telemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
