package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"
)

type Config struct {
	ServiceName string    `mapstructure:"service_name"`
	Version     string    `mapstructure:"version"`
	Env         string    `mapstructure:"env"`
	Port        string    `mapstructure:"port"`
	LogLevel    string    `mapstructure:"log_level"`
	Database    Database  `mapstructure:"database"`
	AWS         AWS       `mapstructure:"aws"`
	Consumer    Consumer  `mapstructure:"consumer"`
	Ingest      Ingest    `mapstructure:"ingest"`
	Query       Query     `mapstructure:"query"`
	Redis       Redis     `mapstructure:"redis"`
	Telemetry   Telemetry `mapstructure:"telemetry"`
	Poller      Poller    `mapstructure:"poller"`
}

type Database struct {
	Driver       string `mapstructure:"driver"`
	URL          string `mapstructure:"url"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type AWS struct {
	Region             string `mapstructure:"region"`
	EndpointSNS        string `mapstructure:"endpoint_sns"`
	EndpointSQS        string `mapstructure:"endpoint_sqs"`
	SQSQueueURL        string `mapstructure:"sqs_queue_url"`
	DeadLetterTopicArn string `mapstructure:"dead_letter_topic_arn"`
}

// Consumer tunes the SQS subscriber. An empty queue URL disables consumption.
type Consumer struct {
	Workers             int32         `mapstructure:"workers"`
	Readers             int32         `mapstructure:"readers"`
	WaitTimeSeconds     int32         `mapstructure:"wait_time_seconds"`
	MaxReceiveCount     int           `mapstructure:"max_receive_count"`
	VisibilityTimeout   int32         `mapstructure:"visibility_timeout"`
	EmptyReceiveBackoff time.Duration `mapstructure:"empty_receive_backoff"`
	ErrorBackoff        time.Duration `mapstructure:"error_backoff"`
}

type Ingest struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

type Query struct {
	StatisticsCacheTTL time.Duration `mapstructure:"statistics_cache_ttl"`
}

// Redis backs the statistics cache. An empty address disables caching.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Telemetry struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type Poller struct {
	Interval time.Duration `mapstructure:"interval"`
}

// ReadConfig loads <ENVIRONMENT>.json from this package's directory.
// SAGA_TRACKER_<SECTION>_<KEY> environment variables override file values.
func ReadConfig() (*Config, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("unable to get current file")
	}

	return readConfig(filepath.Dir(filename), getConfigName())
}

func readConfig(configDir, name string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	// Allow environment variables to override config
	v.SetEnvPrefix("SAGA_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func getConfigName() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "local"
	}
	return env
}

func setDefaults(v *viper.Viper) {
	// Service defaults
	v.SetDefault("service_name", "saga-tracker")
	v.SetDefault("version", getEnv("SERVICE_VERSION", "1.0.0"))
	v.SetDefault("env", getEnv("ENV", "local"))
	v.SetDefault("port", getEnv("PORT", "8080"))
	v.SetDefault("log_level", "info")

	// Database defaults
	v.SetDefault("database.driver", DatabaseDriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "saga_tracker")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.url", os.Getenv("DATABASE_URL"))

	// AWS defaults
	v.SetDefault("aws.region", getEnv("AWS_DEFAULT_REGION", "us-east-1"))
	v.SetDefault("aws.endpoint_sns", os.Getenv("AWS_ENDPOINT_URL_SNS"))
	v.SetDefault("aws.endpoint_sqs", os.Getenv("AWS_ENDPOINT_URL_SQS"))
	v.SetDefault("aws.sqs_queue_url", "")
	v.SetDefault("aws.dead_letter_topic_arn", "")

	v.SetDefault("consumer.workers", 10)
	v.SetDefault("consumer.readers", 1)
	v.SetDefault("consumer.wait_time_seconds", 15)
	v.SetDefault("consumer.max_receive_count", 3)
	v.SetDefault("consumer.visibility_timeout", 30)
	v.SetDefault("consumer.empty_receive_backoff", 10*time.Second)
	v.SetDefault("consumer.error_backoff", 20*time.Second)

	v.SetDefault("ingest.max_attempts", 5)
	v.SetDefault("ingest.retry_interval", 50*time.Millisecond)

	v.SetDefault("query.statistics_cache_ttl", 30*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.otlp_endpoint", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))

	v.SetDefault("poller.interval", 30*time.Second)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DatabaseDriverPostgres, DatabaseDriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.Ingest.MaxAttempts < 1 {
		return fmt.Errorf("ingest.max_attempts must be at least 1")
	}
	if c.Consumer.MaxReceiveCount < 1 {
		return fmt.Errorf("consumer.max_receive_count must be at least 1")
	}
	if c.Consumer.Workers < 1 || c.Consumer.Readers < 1 {
		return fmt.Errorf("consumer.workers and consumer.readers must be at least 1")
	}
	// SQS long polling waits at most 20 seconds
	if c.Consumer.WaitTimeSeconds < 0 || c.Consumer.WaitTimeSeconds > 20 {
		return fmt.Errorf("consumer.wait_time_seconds must be between 0 and 20")
	}
	return nil
}

// GetDatabaseURL constructs database URL from config
func (c *Config) GetDatabaseURL() string {
	// Full URL wins when provided through DATABASE_URL or SAGA_TRACKER_DATABASE_URL
	if c.Database.URL != "" {
		return c.Database.URL
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
