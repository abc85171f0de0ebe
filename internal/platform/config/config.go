// Package config builds runtime configuration from environment variables so
// main stays lean. Every external collaborator is optional: missing URLs fall
// back to in-memory implementations.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration.
type Config struct {
	Addr string

	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig

	// AuditCacheTTL bounds how long a memoized audit result may be served.
	AuditCacheTTL time.Duration

	// RendererURL points at the headless HTML-to-PDF rendering service.
	RendererURL string

	// MaxConcurrentRenders bounds how many document renders may run at once.
	MaxConcurrentRenders int
}

// RedisConfig configures the optional shared audit cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the license and report stores.
type PostgresConfig struct {
	URL string
}

// KafkaConfig configures the trail event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables, applying defaults
// suitable for local development.
func FromEnv() Config {
	cfg := Config{
		Addr:                 envOr("COMPLIANCECORE_ADDR", ":8080"),
		AuditCacheTTL:        envDuration("AUDIT_CACHE_TTL", 5*time.Minute),
		RendererURL:          os.Getenv("RENDERER_URL"),
		MaxConcurrentRenders: envInt("MAX_CONCURRENT_RENDERS", 2),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Kafka: KafkaConfig{
			Topic: envOr("KAFKA_TRAIL_TOPIC", "compliancecore.trail"),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
