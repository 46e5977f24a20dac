// Package config loads the application configuration from a YAML file and
// environment variables. ENV overrides YAML, which overrides the env-default
// tags.
package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Redis         RedisConfig        `yaml:"redis"`
	Temporal      TemporalConfig     `yaml:"temporal"`
	SMTP          SMTPConfig         `yaml:"smtp"`
	Workflow      WorkflowConfig     `yaml:"workflow"`
	Manufacturers []ManufacturerSpec `yaml:"manufacturers"`
	Log           LogConfig          `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds settings for the cross-process reminder lease.
// An empty Addr disables the Redis lease; the sweep then relies on the
// store's conditional claim alone.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// TemporalConfig holds Temporal client and worker settings.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"  env:"TEMPORAL_HOST_PORT"  env-default:"localhost:7233"`
	Namespace string `yaml:"namespace"  env:"TEMPORAL_NAMESPACE"  env-default:"default"`
	TaskQueue string `yaml:"task_queue" env:"TEMPORAL_TASK_QUEUE" env-default:"caseflow"`
}

// SMTPConfig holds outbound mail settings. An empty Addr switches
// notifications to the structured log.
type SMTPConfig struct {
	Addr     string `yaml:"addr"     env:"SMTP_ADDR"`
	From     string `yaml:"from"     env:"SMTP_FROM"     env-default:"caseflow@localhost"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

// WorkflowConfig holds the engine's business tunables.
type WorkflowConfig struct {
	// ReminderThresholdHours is the manufacturer response deadline in
	// business hours.
	ReminderThresholdHours int `yaml:"reminder_threshold_hours" env:"WORKFLOW_REMINDER_THRESHOLD_HOURS" env-default:"24"`

	// ReviewerAddress receives approval-needed notifications.
	ReviewerAddress string `yaml:"reviewer_address" env:"WORKFLOW_REVIEWER_ADDRESS" env-default:"support-review@localhost"`

	// SweepSchedule is the cron expression driving the reminder sweep.
	SweepSchedule string `yaml:"sweep_schedule" env:"WORKFLOW_SWEEP_SCHEDULE" env-default:"@every 15m"`

	// LeaseTTL bounds the per-case dispatch lease held during a sweep.
	LeaseTTL time.Duration `yaml:"lease_ttl" env:"WORKFLOW_LEASE_TTL" env-default:"2m"`
}

// ManufacturerSpec is the YAML shape of one registry entry.
type ManufacturerSpec struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	APIURL string `yaml:"api_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
