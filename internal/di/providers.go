package di

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/repository"
	"SignalDesk/internal/handler/api"
	internalrepo "SignalDesk/internal/repository"
	"SignalDesk/internal/service/alphavantage"
	icache "SignalDesk/internal/service/cache"
	"SignalDesk/internal/service/language"
	"SignalDesk/internal/service/newsapi"
	"SignalDesk/internal/usecase"
	pkgch "SignalDesk/pkg/clickhouse"
	"SignalDesk/pkg/config"
	pkgkafka "SignalDesk/pkg/kafka"
	applogger "SignalDesk/pkg/logger"
	"SignalDesk/pkg/metrics"
	pkgpg "SignalDesk/pkg/postgres"
	"SignalDesk/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

const connectTimeout = 10 * time.Second

// ProvideLogger builds the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideStore connects the configured backend and creates its schema.
func ProvideStore(cfg *config.Config, l *applogger.Logger) (repository.Store, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	switch cfg.Storage.Backend {
	case "clickhouse":
		client, err := pkgch.NewClient(ctx, pkgch.Config{
			Host:         cfg.ClickHouse.Host,
			Port:         cfg.ClickHouse.Port,
			Database:     cfg.ClickHouse.Database,
			User:         cfg.ClickHouse.User,
			Password:     cfg.ClickHouse.Password,
			UseHTTP:      cfg.ClickHouse.UseHTTP,
			AsyncInsert:  cfg.ClickHouse.AsyncInsert,
			WaitForAsync: cfg.ClickHouse.WaitForAsync,
			DialTimeout:  cfg.ClickHouse.DialTimeout,
			ReadTimeout:  cfg.ClickHouse.ReadTimeout,
			MaxExecTime:  cfg.ClickHouse.MaxExecutionTime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("clickhouse client: %w", err)
		}
		if err := client.InitSchema(ctx, internalrepo.ClickHouseSchema(cfg.ClickHouse.Database)); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		l.Info("clickhouse: connected and schema ready", applogger.String("db", cfg.ClickHouse.Database))

		store := internalrepo.NewCHStore(client, cfg.ClickHouse.Database)
		store.SetLogger(l)
		cleanup := func() {
			if err := client.Close(); err != nil {
				l.Warn("clickhouse close error", applogger.Error(err))
			}
		}
		return store, cleanup, nil

	default:
		pool, err := pkgpg.NewPool(ctx, pkgpg.Config{
			DSN:             cfg.Postgres.DSN,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("postgres pool: %w", err)
		}
		if err := pkgpg.InitSchema(ctx, pool, internalrepo.PostgresSchema); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres schema: %w", err)
		}
		l.Info("postgres: connected and schema ready")
		return internalrepo.NewPostgresStore(pool), pool.Close, nil
	}
}

func ProvideNewsStore(s repository.Store) repository.NewsStore { return s }

func ProvideFlowStore(s repository.Store) repository.FlowStore { return s }

// ProvideArticlePublisher returns nil when kafka is disabled.
func ProvideArticlePublisher(cfg *config.Config, l *applogger.Logger) (repository.ArticlePublisher, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		RequiredAcks: cfg.Kafka.RequiredAcks,
		Compression:  cfg.Kafka.Compression,
		MaxAttempts:  cfg.Kafka.Producer.MaxAttempts,
		WriteTimeout: cfg.Kafka.Producer.WriteTimeout,
		ReadTimeout:  cfg.Kafka.Producer.ReadTimeout,
		BatchSize:    cfg.Kafka.Producer.BatchSize,
		BatchBytes:   cfg.Kafka.Producer.BatchBytes,
		BatchTimeout: cfg.Kafka.Producer.Linger,
		Async:        cfg.Kafka.Producer.Async,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	l.Info("kafka: producer ready", applogger.Strings("brokers", cfg.Kafka.Brokers), applogger.String("topic", cfg.Kafka.Topic))

	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	return pub, cleanup, nil
}

// ProvideResponseCache returns Redis when enabled, an in-process TTL cache otherwise.
func ProvideResponseCache(cfg *config.Config, l *applogger.Logger) (icache.BytesCache, func(), error) {
	if !cfg.Redis.Enabled {
		return icache.NewTTLCache(), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	rc, err := icache.NewRedisCache(ctx, icache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis: response cache ready", applogger.String("addr", cfg.Redis.Addr))
	cleanup := func() {
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}
	return rc, cleanup, nil
}

func ProvideMarketDataProvider(cfg *config.Config, m repository.Metrics, l *applogger.Logger) repository.MarketDataProvider {
	return alphavantage.New(alphavantage.Config{
		APIKey:            cfg.MarketData.APIKey,
		BaseURL:           cfg.MarketData.BaseURL,
		Timeout:           cfg.MarketData.Timeout,
		RequestsPerMinute: cfg.MarketData.RequestsPerMinute,
	}, m, l)
}

func ProvideNewsProvider(cfg *config.Config, m repository.Metrics) repository.NewsProvider {
	return newsapi.New(newsapi.Config{
		APIKey:   cfg.NewsAPI.APIKey,
		BaseURL:  cfg.NewsAPI.BaseURL,
		Timeout:  cfg.NewsAPI.Timeout,
		Language: cfg.NewsAPI.Language,
	}, m)
}

func ProvideLanguageAnalyzer(cfg *config.Config, m repository.Metrics) repository.LanguageAnalyzer {
	return language.New(language.Config{
		APIKey:        cfg.Language.APIKey,
		BaseURL:       cfg.Language.BaseURL,
		Timeout:       cfg.Language.Timeout,
		RetryAttempts: cfg.Language.RetryAttempts,
	}, m)
}

func ProvideTimeframeNormalizer(p repository.MarketDataProvider, m repository.Metrics, l *applogger.Logger) *usecase.TimeframeNormalizer {
	return usecase.NewTimeframeNormalizer(p, m, l.With(applogger.String("component", "timeframes")))
}

func ProvideNewsIngestor(
	cfg *config.Config,
	news repository.NewsProvider,
	nlp repository.LanguageAnalyzer,
	store repository.NewsStore,
	pub repository.ArticlePublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.NewsIngestor {
	opts := []usecase.NewsIngestorOption{
		usecase.WithSymbolDelay(cfg.News.SymbolDelay),
		usecase.WithArticlesPerSymbol(cfg.News.ArticlesPerSymbol),
	}
	if pub != nil {
		opts = append(opts, usecase.WithArticlePublisher(pub))
	}
	return usecase.NewNewsIngestor(news, nlp, store, m, l.With(applogger.String("component", "news")), opts...)
}

func ProvideFlowDetector(cfg *config.Config, store repository.FlowStore, m repository.Metrics, l *applogger.Logger) *usecase.FlowDetector {
	return usecase.NewFlowDetector(store, m, l.With(applogger.String("component", "flow")), cfg.Flow.MaxRows)
}

// ProvidePipelineHandler builds the HTTP handler with cache and health checks attached.
func ProvidePipelineHandler(
	cfg *config.Config,
	tf *usecase.TimeframeNormalizer,
	news *usecase.NewsIngestor,
	flow *usecase.FlowDetector,
	cache icache.BytesCache,
	store repository.Store,
	l *applogger.Logger,
) *api.PipelineHandler {
	h := api.NewPipelineHandler(tf, news, flow, l)
	h.SetCache(cache, cfg.Cache.TimeframesTTL)
	h.AddHealthCheck(store.Health)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, h *api.PipelineHandler, l *applogger.Logger) *server.App {
	return server.New(cfg, h, l)
}
