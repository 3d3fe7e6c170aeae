// Package cli implements the suivictl administration commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	goredis "github.com/redis/go-redis/v9"

	"missionsuivi/internal/evaluation/refcache"
	"missionsuivi/internal/evaluation/softdelete"
	"missionsuivi/internal/evaluation/store"
	"missionsuivi/internal/platform/config"
	"missionsuivi/internal/platform/logger"
	"missionsuivi/internal/platform/postgres"
	"missionsuivi/internal/platform/redis"
)

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
	fail = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

// env is the set of connections a command needs. Commands close it when done.
type env struct {
	cfg   config.Config
	log   *slog.Logger
	db    *sql.DB
	redis *redis.Client
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	e := &env{cfg: cfg, log: logger.NewWithWriter(os.Stderr, cfg.Server.LogLevel)}
	if e.db, err = postgres.Open(ctx, cfg.Database); err != nil {
		return nil, err
	}
	if e.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		e.log.Warn("redis unavailable; cache will not be invalidated", "error", err)
	}
	return e, nil
}

func (e *env) Close() {
	if e.redis != nil {
		_ = e.redis.Close()
	}
	if e.db != nil {
		_ = e.db.Close()
	}
}

func (e *env) guard(ctx context.Context) (*softdelete.Guard, error) {
	sd := e.cfg.SoftDelete
	if sd.SchemaVersion == 0 && len(sd.Tables) == 0 {
		version, err := postgres.CurrentVersion(ctx, e.db)
		if err != nil {
			return nil, fmt.Errorf("read schema version: %w", err)
		}
		sd.SchemaVersion = version
	}
	return softdelete.FromConfig(sd), nil
}

func (e *env) store(ctx context.Context) (*store.PostgresStore, *softdelete.Guard, error) {
	guard, err := e.guard(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgres(e.db, guard), guard, nil
}

func (e *env) cache(source refcache.Source) *refcache.Cache {
	var client goredis.UniversalClient
	if e.redis != nil {
		client = e.redis.Client
	}
	return refcache.New(client, source, refcache.WithTTL(e.cfg.Redis.CacheTTL), refcache.WithLogger(e.log))
}
