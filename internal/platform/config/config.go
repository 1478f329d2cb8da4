package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	PostgresURL   string
	JWTSigningKey string

	// BallotKeyMaster seeds per-election encryption keys. In production this
	// comes from the external secret store; this subsystem never persists it.
	BallotKeyMaster string

	Redis RedisConfig
	Kafka KafkaConfig

	MFAMaxAttempts   int
	MFALockoutWindow time.Duration
	BallotAuthTTL    time.Duration
}

// RedisConfig holds connection settings for the MFA lockout store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the optional audit mirror. Empty Brokers
// disables the mirror entirely.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("UVOTE_ADDR", ":8080"),
		PostgresURL:     os.Getenv("UVOTE_POSTGRES_URL"),
		JWTSigningKey:   envOr("UVOTE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		BallotKeyMaster: envOr("UVOTE_BALLOT_KEY_MASTER", "dev-master-key-change-in-production"),
		Redis: RedisConfig{
			URL:          os.Getenv("UVOTE_REDIS_URL"),
			PoolSize:     envInt("UVOTE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("UVOTE_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		MFAMaxAttempts:   envInt("UVOTE_MFA_MAX_ATTEMPTS", 5),
		MFALockoutWindow: envDuration("UVOTE_MFA_LOCKOUT_WINDOW", 15*time.Minute),
		BallotAuthTTL:    envDuration("UVOTE_BALLOT_AUTH_TTL", 10*time.Minute),
	}

	if brokers := os.Getenv("UVOTE_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
		cfg.Kafka.Topic = envOr("UVOTE_KAFKA_AUDIT_TOPIC", "uvote.audit-events")
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
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
