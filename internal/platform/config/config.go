// Package config loads the service configuration from TT_AUTOMATION_*
// environment variables so main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the automation service reads from the
// environment. Postgres, Redis, Kafka, and the tracker connection are all
// optional; the engine falls back to in-memory stores and skips the
// scheduler and Kafka source when their settings are absent.
type Config struct {
	Addr        string `env:"TT_AUTOMATION_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"TT_AUTOMATION_DATABASE_URL"`
	RedisURL    string `env:"TT_AUTOMATION_REDIS_URL"`

	KafkaBrokers []string `env:"TT_AUTOMATION_KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"TT_AUTOMATION_KAFKA_TOPIC" envDefault:"tracker-events"`
	KafkaGroup   string   `env:"TT_AUTOMATION_KAFKA_GROUP" envDefault:"timetracker-automation"`

	Workers       int           `env:"TT_AUTOMATION_WORKERS" envDefault:"4"`
	QueueSize     int           `env:"TT_AUTOMATION_QUEUE_SIZE" envDefault:"256"`
	ActionTimeout time.Duration `env:"TT_AUTOMATION_ACTION_TIMEOUT" envDefault:"10s"`
	EventDeadline time.Duration `env:"TT_AUTOMATION_EVENT_DEADLINE" envDefault:"60s"`

	SchedulerInterval time.Duration `env:"TT_AUTOMATION_SCHEDULER_INTERVAL" envDefault:"1m"`
	DeadlineHorizon   time.Duration `env:"TT_AUTOMATION_DEADLINE_HORIZON" envDefault:"24h"`
	GuardTTL          time.Duration `env:"TT_AUTOMATION_GUARD_TTL" envDefault:"1h"`

	// Use a default for development - should be overridden in production
	JWTSigningKey string `env:"TT_AUTOMATION_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	APIKeyHash    string `env:"TT_AUTOMATION_API_KEY_HASH"`

	TrackerBaseURL string `env:"TT_AUTOMATION_TRACKER_BASE_URL"`
	TrackerToken   string `env:"TT_AUTOMATION_TRACKER_TOKEN"`

	WebhookSecret string `env:"TT_AUTOMATION_WEBHOOK_SECRET"`
	RuleSeedPath  string `env:"TT_AUTOMATION_RULE_SEED"`

	OTelEndpoint string `env:"TT_AUTOMATION_OTEL_ENDPOINT"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// KafkaEnabled reports whether the Kafka source should run.
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// SchedulerEnabled reports whether the scheduler should run. Without a
// tracker connection there is nothing to scan.
func (c Config) SchedulerEnabled() bool {
	return c.TrackerBaseURL != ""
}
