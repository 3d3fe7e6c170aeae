package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"missionsuivi/internal/evaluation/binder"
	"missionsuivi/internal/evaluation/refcache"
	"missionsuivi/internal/evaluation/service"
	"missionsuivi/internal/evaluation/softdelete"
	"missionsuivi/internal/evaluation/store"
	"missionsuivi/internal/platform/config"
	"missionsuivi/internal/platform/postgres"
	"missionsuivi/internal/platform/redis"
	audit "missionsuivi/pkg/platform/audit"
	auditkafka "missionsuivi/pkg/platform/audit/store/kafka"
	auditmemory "missionsuivi/pkg/platform/audit/store/memory"
	auditpostgres "missionsuivi/pkg/platform/audit/store/postgres"
)

// evaluationStore is satisfied by both the postgres and in-memory stores.
type evaluationStore interface {
	service.RecordStore
	service.ReferenceStore
	refcache.Source
	binder.Store
	Ping(ctx context.Context) error
}

type dataLayer struct {
	log   *slog.Logger
	db    *sql.DB
	redis *redis.Client
	store evaluationStore
	tx    service.TxRunner
	guard *softdelete.Guard
}

// buildData opens postgres, or falls back to the in-memory store when no
// DATABASE_URL is set outside production.
func buildData(ctx context.Context, cfg config.Config, log *slog.Logger) (*dataLayer, error) {
	d := &dataLayer{log: log}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	d.redis = rc

	if cfg.Database.URL == "" {
		if cfg.Server.IsProduction() {
			d.Close()
			return nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		log.Warn("DATABASE_URL not set; using in-memory store")
		d.guard = softdelete.FromConfig(withSchemaVersion(cfg.SoftDelete, postgres.LatestVersion()))
		mem := store.NewInMemoryStore(d.guard)
		mem.SeedCategories()
		d.store, d.tx = mem, mem
		return d, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.db = db

	sdCfg := cfg.SoftDelete
	if sdCfg.SchemaVersion == 0 && len(sdCfg.Tables) == 0 {
		version, err := postgres.CurrentVersion(ctx, db)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("read schema version: %w", err)
		}
		sdCfg.SchemaVersion = version
	}
	d.guard = softdelete.FromConfig(sdCfg)
	d.store = store.NewPostgres(db, d.guard)
	d.tx = postgres.NewTxRunner(db)
	return d, nil
}

func withSchemaVersion(cfg config.SoftDeleteConfig, fallback int) config.SoftDeleteConfig {
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = fallback
	}
	return cfg
}

// redisClient returns a nil interface, never a typed nil, when redis is off.
func (d *dataLayer) redisClient() goredis.UniversalClient {
	if d.redis == nil {
		return nil
	}
	return d.redis.Client
}

func (d *dataLayer) checks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{"database": d.store.Ping}
	if d.redis != nil {
		checks["redis"] = d.redis.Health
	}
	return checks
}

func (d *dataLayer) Close() {
	if d.redis != nil {
		logClose(d.log, "redis", d.redis.Close)
	}
	if d.db != nil {
		logClose(d.log, "postgres", d.db.Close)
	}
}

type auditSinks struct {
	compliance audit.Store
	ops        audit.Store
	kafka      *kgo.Client
}

// buildAudit keeps compliance events next to the data they describe
// (postgres, in the caller's transaction) and streams operational events to
// Kafka when brokers are configured.
func buildAudit(ctx context.Context, cfg config.Config, d *dataLayer, log *slog.Logger) (*auditSinks, error) {
	sinks := &auditSinks{}
	if d.db != nil {
		sinks.compliance = auditpostgres.New(d.db)
	} else {
		sinks.compliance = auditmemory.NewInMemoryStore()
	}
	sinks.ops = sinks.compliance

	if len(cfg.Kafka.Brokers) == 0 {
		return sinks, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Kafka.Brokers...),
		kgo.DefaultProduceTopic(cfg.Kafka.AuditTopic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := auditkafka.EnsureTopic(ctx, client, cfg.Kafka.AuditTopic, 3, 1); err != nil {
		client.Close()
		return nil, err
	}
	log.Info("streaming operational audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	sinks.kafka = client
	sinks.ops = auditkafka.New(client, cfg.Kafka.AuditTopic)
	return sinks, nil
}

func (s *auditSinks) Close() {
	if s.kafka != nil {
		s.kafka.Close()
	}
}
