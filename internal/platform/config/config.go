package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	liststr "missionsuivi/pkg/platform/strings"
)

// Config groups every runtime setting read at startup.
type Config struct {
	Server     Server
	Database   DatabaseConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	SoftDelete SoftDeleteConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	Environment   string
	LogLevel      string
	JWTSigningKey string
	JWTIssuer     string
	ReportTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

// SoftDeleteConfig describes which tables carry a deleted_at column in the
// deployed schema. Tables, when set, overrides the version-derived list.
type SoftDeleteConfig struct {
	SchemaVersion int
	Tables        []string
}

// IsProduction reports whether dev-only fallbacks must be refused.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// FromEnv builds the configuration from environment variables so main stays
// lean. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	reportTimeout, err := durationEnv("REPORT_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := durationEnv("REDIS_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}
	maxOpen, err := intEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, err
	}
	schemaVersion, err := intEnv("SCHEMA_VERSION", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: Server{
			Addr:          stringEnv("MISSIONSUIVI_ADDR", ":8080"),
			Environment:   stringEnv("ENVIRONMENT", "development"),
			LogLevel:      stringEnv("LOG_LEVEL", "info"),
			JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:     stringEnv("JWT_ISSUER", "missionsuivi"),
			ReportTimeout: reportTimeout,
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxOpen / 2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			CacheTTL:     cacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers:    listEnv("KAFKA_BROKERS"),
			AuditTopic: stringEnv("AUDIT_TOPIC", "missionsuivi.audit"),
		},
		SoftDelete: SoftDeleteConfig{
			SchemaVersion: schemaVersion,
			Tables:        listEnv("SOFT_DELETE_TABLES"),
		},
	}

	if cfg.Server.JWTSigningKey == "" {
		if cfg.Server.IsProduction() {
			return Config{}, fmt.Errorf("JWT_SIGNING_KEY is required in production")
		}
		// Use a default for development - should be overridden in production
		cfg.Server.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func listEnv(key string) []string {
	return liststr.SplitList(os.Getenv(key))
}
