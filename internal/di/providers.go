package di

import (
	"fmt"
	"math/rand"
	"time"

	drepo "TapeReader/internal/domain/repository"
	internalrepo "TapeReader/internal/repository"
	"TapeReader/internal/service/kraken"
	"TapeReader/internal/services/history"
	"TapeReader/internal/services/momentum"
	"TapeReader/internal/services/tape"
	"TapeReader/internal/services/trend"
	"TapeReader/internal/usecase"
	"TapeReader/pkg/config"
	pkgkafka "TapeReader/pkg/kafka"
	"TapeReader/pkg/logger"
	"TapeReader/pkg/metrics"
	"TapeReader/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvidePriceSource creates the configured price source (REST or WebSocket).
func ProvidePriceSource(cfg *config.Config, l *logger.Logger) (drepo.PriceSource, error) {
	switch cfg.Source.Type {
	case "websocket":
		return kraken.NewStream(
			cfg.Source.WebsocketURL,
			cfg.Source.WebsocketPair,
			cfg.Source.ReconnectDelay,
			cfg.Source.Staleness,
			l,
		), nil
	case "rest":
		return kraken.NewClient(
			cfg.Source.TickerURL,
			cfg.Source.Pair,
			cfg.Source.Timeout,
			cfg.Source.Attempts,
		), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
	}
}

// ProvidePublisher creates the Kafka decision publisher, or nil when disabled.
func ProvidePublisher(cfg *config.Config) (drepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic, cfg.Source.Pair), nil
}

// ProvideMirror creates the Redis snapshot mirror, or nil when disabled.
func ProvideMirror(cfg *config.Config) (drepo.SnapshotMirror, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	mirror, err := internalrepo.NewRedisMirror(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.Prefix,
		cfg.Redis.SnapshotTTL,
		cfg.Engine.HistoryLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("redis mirror: %w", err)
	}
	return mirror, nil
}

// ProvideCycle wires the core engine: tracker, classifier, tape engine,
// history log and the orchestrator owning them.
func ProvideCycle(
	cfg *config.Config,
	source drepo.PriceSource,
	pub drepo.Publisher,
	mirror drepo.SnapshotMirror,
	m drepo.Metrics,
	l *logger.Logger,
) *usecase.Cycle {
	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	return usecase.NewCycle(usecase.Deps{
		Source:        source,
		Pub:           pub,
		Mirror:        mirror,
		Metrics:       m,
		Log:           l,
		Tracker:       momentum.NewTracker(cfg.Engine.HistoryWindow, cfg.Engine.MomentumWindow, cfg.Engine.MomentumThreshold),
		Classifier:    trend.NewClassifier(cfg.Engine.HistoryWindow),
		Tape:          tape.NewEngine(cfg.Engine.TriggerProb, cfg.Engine.NoiseProb, cfg.Engine.HoldCycles, rng),
		History:       history.NewLog(cfg.Engine.HistoryLimit),
		Pair:          cfg.Source.Pair,
		FetchInterval: cfg.Engine.FetchInterval,
	})
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	cycle *usecase.Cycle,
	source drepo.PriceSource,
	pub drepo.Publisher,
	mirror drepo.SnapshotMirror,
	l *logger.Logger,
) *server.App {
	return server.New(cfg, cycle, source, pub, mirror, l)
}
