package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Import   ImportConfig   `yaml:"import"`
	AI       AIConfig       `yaml:"ai"`
	Fetch    FetchConfig    `yaml:"fetch"`
	LeadDesk LeadDeskConfig `yaml:"leaddesk"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int      `yaml:"port"`
	Host            string   `yaml:"host"`
	CORSOrigins     []string `yaml:"cors_origins"`
	ShutdownSeconds int      `yaml:"shutdown_seconds"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// ShutdownTimeout returns the graceful shutdown drain window.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownSeconds) * time.Second
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// ConnMaxLifetime returns the connection recycle interval.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// RedisConfig holds the optional Redis connection used for import locking
type RedisConfig struct {
	URL string `yaml:"url"`
}

// ImportConfig controls serialization of identity-checked inserts.
type ImportConfig struct {
	// Serialize holds a distributed lock around every resolve-then-insert.
	Serialize       bool   `yaml:"serialize"`
	LockKey         string `yaml:"lock_key"`
	LockTTLSeconds  int    `yaml:"lock_ttl_seconds"`
	LockWaitSeconds int    `yaml:"lock_wait_seconds"`
	MaxRows         int    `yaml:"max_rows"`
}

// LockTTL returns the lock expiry.
func (c ImportConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// LockWait returns how long a request waits for the lock.
func (c ImportConfig) LockWait() time.Duration {
	return time.Duration(c.LockWaitSeconds) * time.Second
}

// AIConfig selects and configures the LLM provider. An empty provider
// disables AI features and every caller uses its fallback.
type AIConfig struct {
	Provider       string        `yaml:"provider"` // "", "openai" or "bedrock"
	OpenAI         OpenAIConfig  `yaml:"openai"`
	Bedrock        BedrockConfig `yaml:"bedrock"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	MaxRetries     int           `yaml:"max_retries"`
}

// Timeout returns the per-request timeout for the provider.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region     string `yaml:"region"`
	ModelID    string `yaml:"model_id"`
	AWSProfile string `yaml:"aws_profile"`
}

// FetchConfig controls the website fetcher and its cache.
type FetchConfig struct {
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	MaxBytes          int64  `yaml:"max_bytes"`
	UserAgent         string `yaml:"user_agent"`
	MaxRetries        int    `yaml:"max_retries"`
	ProfileTTLHours   int    `yaml:"profile_ttl_hours"`
	RetryAfterMinutes int    `yaml:"retry_after_minutes"`
	Workers           int    `yaml:"workers"`
}

// Timeout returns the per-request fetch timeout.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProfileTTL returns how long an ok profile is served from cache.
func (c FetchConfig) ProfileTTL() time.Duration {
	return time.Duration(c.ProfileTTLHours) * time.Hour
}

// RetryAfter returns how long a failed profile is served before refetching.
func (c FetchConfig) RetryAfter() time.Duration {
	return time.Duration(c.RetryAfterMinutes) * time.Minute
}

// LeadDeskConfig holds the CRM push target. Either APIToken or the
// client-credentials triple authenticates requests.
type LeadDeskConfig struct {
	BaseURL        string   `yaml:"base_url"`
	APIToken       string   `yaml:"api_token"`
	ClientID       string   `yaml:"client_id"`
	ClientSecret   string   `yaml:"client_secret"`
	TokenURL       string   `yaml:"token_url"`
	Scopes         []string `yaml:"scopes"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// Enabled reports whether a base URL is configured.
func (c LeadDeskConfig) Enabled() bool { return c.BaseURL != "" }

// Timeout returns the push request timeout.
func (c LeadDeskConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExportConfig holds the S3 destination for CSV exports.
type ExportConfig struct {
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	Prefix     string `yaml:"prefix"`
	AWSProfile string `yaml:"aws_profile"`
}

// Enabled reports whether a bucket is configured.
func (c ExportConfig) Enabled() bool { return c.S3Bucket != "" }

// LoggingConfig holds log level and PII redaction
type LoggingConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Redact reports whether PII redaction is on. It defaults to true.
func (c LoggingConfig) Redact() bool { return c.RedactPII == nil || *c.RedactPII }

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ShutdownSeconds == 0 {
		cfg.Server.ShutdownSeconds = 10
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.ConnMaxLifetimeMinutes == 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 5
	}
	if cfg.Import.LockKey == "" {
		cfg.Import.LockKey = "prospect-identity"
	}
	if cfg.Import.LockTTLSeconds == 0 {
		cfg.Import.LockTTLSeconds = 60
	}
	if cfg.Import.LockWaitSeconds == 0 {
		cfg.Import.LockWaitSeconds = 5
	}
	if cfg.Import.MaxRows == 0 {
		cfg.Import.MaxRows = 10000
	}
	if cfg.AI.OpenAI.Model == "" {
		cfg.AI.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.AI.OpenAI.BaseURL == "" {
		cfg.AI.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Bedrock.Region == "" {
		cfg.AI.Bedrock.Region = "us-east-1"
	}
	if cfg.AI.Bedrock.ModelID == "" {
		cfg.AI.Bedrock.ModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 30
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = 10
	}
	if cfg.Fetch.MaxBytes == 0 {
		cfg.Fetch.MaxBytes = 2 << 20
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = "ProspectDeskBot/1.0"
	}
	if cfg.Fetch.ProfileTTLHours == 0 {
		cfg.Fetch.ProfileTTLHours = 7 * 24
	}
	if cfg.Fetch.RetryAfterMinutes == 0 {
		cfg.Fetch.RetryAfterMinutes = 60
	}
	if cfg.Fetch.Workers == 0 {
		cfg.Fetch.Workers = 4
	}
	if cfg.LeadDesk.TimeoutSeconds == 0 {
		cfg.LeadDesk.TimeoutSeconds = 15
	}
	if cfg.Export.S3Region == "" {
		cfg.Export.S3Region = "us-west-2"
	}
	if cfg.Export.Prefix == "" {
		cfg.Export.Prefix = "exports/"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("IMPORT_SERIALIZE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Import.Serialize = b
		}
	}
	if v := os.Getenv("AI_PROVIDER"); v != "" {
		cfg.AI.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.OpenAI.APIKey = v
		if cfg.AI.Provider == "" {
			cfg.AI.Provider = "openai"
		}
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.AI.OpenAI.Model = v
	}
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.AI.Bedrock.ModelID = v
	}
	if v := os.Getenv("LEADDESK_BASE_URL"); v != "" {
		cfg.LeadDesk.BaseURL = v
	}
	if v := os.Getenv("LEADDESK_API_TOKEN"); v != "" {
		cfg.LeadDesk.APIToken = v
	}
	if v := os.Getenv("LEADDESK_CLIENT_ID"); v != "" {
		cfg.LeadDesk.ClientID = v
	}
	if v := os.Getenv("LEADDESK_CLIENT_SECRET"); v != "" {
		cfg.LeadDesk.ClientSecret = v
	}
	if v := os.Getenv("LEADDESK_TOKEN_URL"); v != "" {
		cfg.LeadDesk.TokenURL = v
	}
	if v := os.Getenv("EXPORT_S3_BUCKET"); v != "" {
		cfg.Export.S3Bucket = v
	}
	if v := os.Getenv("EXPORT_S3_REGION"); v != "" {
		cfg.Export.S3Region = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return cfg, nil
}
