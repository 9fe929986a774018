package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"FairLens/internal/domain/repository"
	"FairLens/internal/fairness"
	"FairLens/internal/handler/api"
	internalrepo "FairLens/internal/repository"
	"FairLens/internal/usecase"
	"FairLens/pkg/cache"
	pkgch "FairLens/pkg/clickhouse"
	"FairLens/pkg/config"
	xhttp "FairLens/pkg/http"
	pkgkafka "FairLens/pkg/kafka"
	applogger "FairLens/pkg/logger"
	"FairLens/pkg/metrics"
	"FairLens/pkg/server"
)

// ProvideLogger creates the structured logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRegistry builds the threshold-profile registry, merging custom
// profiles from YAML when a profiles path is configured.
func ProvideRegistry(cfg *config.Config) (*fairness.Registry, error) {
	registry := fairness.NewRegistry()
	if cfg.Audit.ProfilesPath != "" {
		if err := registry.LoadYAML(cfg.Audit.ProfilesPath); err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
	}
	return registry, nil
}

// ProvideEngine creates the audit engine.
func ProvideEngine(registry *fairness.Registry) *fairness.Engine {
	return fairness.NewEngine(registry)
}

// ProvideEngineDefaults derives the server-level audit defaults from config.
// Per-request options override these.
func ProvideEngineDefaults(cfg *config.Config) fairness.Config {
	d := fairness.DefaultConfig()
	if cfg.Audit.Elasticity > 0 {
		d.Elasticity = cfg.Audit.Elasticity
	}
	if cfg.Audit.Profile != "" {
		d.Profile = cfg.Audit.Profile
	}
	if cfg.Audit.ZeroOutcomePolicy != "" {
		d.ZeroOutcomePolicy = cfg.Audit.ZeroOutcomePolicy
	}
	d.DistributionShift = cfg.Audit.DistributionShift
	return d
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the report cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.CacheBackend() {
	case "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MaxSize),
		), nil
	case "redis":
		return newRedisCache(cfg)
	case "layered":
		redisCache, err := newRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(redisCache,
			cache.WithLayeredMemorySize(cfg.Cache.MaxSize),
		), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Cache.Backend)
	}
}

func newRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("cache.redis.addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("cache.redis.addr port: %w", err)
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideClickHouseClient creates a ClickHouse client when the sink needs
// one. Returns nil for other sinks.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.SinkType() != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + cfg.ClickHouse.Database + ".audit_reports (" +
			"audit_id String, ts DateTime, profile String, dataset_size UInt64, groups UInt32, " +
			"score Float64, bias_level String, legal_status String, severe_count UInt32, warnings UInt32" +
			") ENGINE=MergeTree ORDER BY (profile, ts)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the sink needs one.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.SinkType() != "kafka" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideReportPublisher creates the Kafka report publisher repository.
func ProvideReportPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ReportPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topic)
}

// ProvideReportStorage creates the ClickHouse report storage repository.
func ProvideReportStorage(chClient *pkgch.Client, cfg *config.Config) repository.ReportStorage {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseReportStore(chClient.DB(), cfg.ClickHouse.Database+".audit_reports")
}

// ProvideAuditService assembles the audit use case.
func ProvideAuditService(
	engine *fairness.Engine,
	defaults fairness.Config,
	c cache.Service,
	pub repository.ReportPublisher,
	store repository.ReportStorage,
	m repository.Metrics,
	cfg *config.Config,
	logger *applogger.Logger,
) *usecase.AuditService {
	return usecase.NewAuditService(engine, defaults, c, cfg.Cache.TTL, pub, store, m, cfg.SinkType(), logger)
}

// ProvideHandler creates the HTTP route handler.
func ProvideHandler(logger *applogger.Logger, svc *usecase.AuditService) xhttp.Handler {
	return api.NewAuditEchoHandler(logger, svc)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	svc *usecase.AuditService,
	chClient *pkgch.Client,
	handler xhttp.Handler,
	logger *applogger.Logger,
) *server.App {
	return server.New(cfg, svc, chClient, handler, logger)
}
