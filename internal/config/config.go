package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Trust      TrustConfig      `mapstructure:"trust"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Minting    ServiceConfig    `mapstructure:"minting"`
	ThreadSync ServiceConfig    `mapstructure:"threadsync"`
	Attachment ServiceConfig    `mapstructure:"attachment"`
	Audit      AuditConfig      `mapstructure:"audit"`
	Routing    RoutingConfig    `mapstructure:"routing"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type ClassifierConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TrustConfig struct {
	URL             string        `mapstructure:"url"`
	Authority       string        `mapstructure:"authority"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ContentLimit    int           `mapstructure:"content_limit"`
	Threshold       float64       `mapstructure:"threshold"`
	CacheEnabled    bool          `mapstructure:"cache_enabled"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	QuarantineRoute string        `mapstructure:"quarantine_route"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// ServiceConfig describes an external collaborator endpoint.
type ServiceConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuditConfig struct {
	Secret       string           `mapstructure:"secret"`
	ContentLimit int              `mapstructure:"content_limit"`
	JetStream    JetStreamConfig  `mapstructure:"jetstream"`
	Postgres     PostgresConfig   `mapstructure:"postgres"`
	OpenSearch   OpenSearchConfig `mapstructure:"opensearch"`
}

type JetStreamConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type PostgresConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a postgres connection string for pgx and migrations.
func (c PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type OpenSearchConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	Index         string `mapstructure:"index"`
}

type RoutingConfig struct {
	TablePath string `mapstructure:"table_path"`
}

type PlannerConfig struct {
	AutoResponseFloor float64 `mapstructure:"auto_response_floor"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8095)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("classifier.model", "gemini-2.0-flash")
	v.SetDefault("classifier.timeout", "20s")
	v.SetDefault("trust.url", "http://localhost:8096")
	v.SetDefault("trust.authority", "caseflow-trust")
	v.SetDefault("trust.timeout", "5s")
	v.SetDefault("trust.content_limit", 2000)
	v.SetDefault("trust.threshold", 0.5)
	v.SetDefault("trust.cache_enabled", false)
	v.SetDefault("trust.cache_ttl", "5m")
	v.SetDefault("trust.quarantine_route", "quarantine")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("minting.url", "http://localhost:8097")
	v.SetDefault("minting.timeout", "5s")
	v.SetDefault("threadsync.url", "http://localhost:8098")
	v.SetDefault("threadsync.timeout", "10s")
	v.SetDefault("attachment.url", "http://localhost:8099")
	v.SetDefault("attachment.timeout", "15s")
	v.SetDefault("audit.content_limit", 500)
	v.SetDefault("audit.jetstream.enabled", false)
	v.SetDefault("audit.jetstream.url", "nats://localhost:4222")
	v.SetDefault("audit.postgres.enabled", false)
	v.SetDefault("audit.postgres.host", "localhost")
	v.SetDefault("audit.postgres.port", 5432)
	v.SetDefault("audit.postgres.user", "caseflow")
	v.SetDefault("audit.postgres.database", "caseflow_intake")
	v.SetDefault("audit.postgres.sslmode", "disable")
	v.SetDefault("audit.opensearch.enabled", false)
	v.SetDefault("audit.opensearch.url", "https://localhost:9200")
	v.SetDefault("audit.opensearch.username", "admin")
	v.SetDefault("audit.opensearch.tls_skip_verify", true)
	v.SetDefault("audit.opensearch.index", "caseflow-intake-audit")
	v.SetDefault("planner.auto_response_floor", 0.0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/caseflow/intake")
	}

	// Environment variables override
	v.SetEnvPrefix("INTAKE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
