// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Server    ServerConfig            `mapstructure:"server"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Engine    EngineConfig            `mapstructure:"engine"`
	Chat      ChatConfig              `mapstructure:"chat"`
	Analytics AnalyticsConfig         `mapstructure:"analytics"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ServerConfig holds the HTTP listener settings for the API and health endpoints.
type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds

	// RateLimit is requests per RateLimitWindow per client IP on /api; negative disables it.
	RateLimit       int      `mapstructure:"rate_limit"`
	RateLimitWindow int      `mapstructure:"rate_limit_window"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Catalog sources understood by EngineConfig.CatalogSource.
const (
	CatalogSourceBuiltin  = "builtin"
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

// EngineConfig tunes the recommendation engine.
type EngineConfig struct {
	TermYears          int     `mapstructure:"term_years"`
	MaxResults         int     `mapstructure:"max_results"`
	ViabilityThreshold float64 `mapstructure:"viability_threshold"`
	CatalogSource      string  `mapstructure:"catalog_source"`
	CatalogPath        string  `mapstructure:"catalog_path"`
	CacheEnabled       bool    `mapstructure:"cache_enabled"`
	CacheTTL           int     `mapstructure:"cache_ttl"` // milliseconds
}

// Session stores understood by ChatConfig.SessionStore.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// ChatConfig tunes the conversational advisory engine.
type ChatConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
	SessionStore    string `mapstructure:"session_store"`
	SessionTTL      int    `mapstructure:"session_ttl"` // milliseconds
}

// Analytics sinks understood by AnalyticsConfig.Sink.
const (
	AnalyticsSinkMemory = "memory"
	AnalyticsSinkSNS    = "sns"
)

type AnalyticsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Sink       string `mapstructure:"sink"`
	TopicARN   string `mapstructure:"topic_arn"`
	Region     string `mapstructure:"region"`
	BufferSize int    `mapstructure:"buffer_size"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
