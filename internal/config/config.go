package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// History backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Distribution webhook
	Webhook WebhookConfig `yaml:"webhook"`

	// Optional summarization step
	Summarizer SummarizerConfig `yaml:"summarizer"`

	// Submission history storage
	History HistoryConfig `yaml:"history"`

	// Database configuration (postgres backend)
	Database DatabaseConfig `yaml:"database"`

	// Event publishing
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WebhookConfig describes the distribution endpoint
type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SummarizerConfig describes the chat-completion endpoint used for enrichment
type SummarizerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"api_key"`
	SystemPrompt string        `yaml:"system_prompt"`
	Temperature  float64       `yaml:"temperature"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
}

// HistoryConfig holds history store settings
type HistoryConfig struct {
	Backend      string        `yaml:"backend"`
	Limit        int           `yaml:"limit"`
	File         string        `yaml:"file"`
	SettingsFile string        `yaml:"settings_file"`
	SQLitePath   string        `yaml:"sqlite_path"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	SSLMode        string        `yaml:"sslmode"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`
	MaxLifetime    time.Duration `yaml:"max_lifetime"`
	MigrationsPath string        `yaml:"migrations_path"`
}

// RabbitMQConfig enables the submission event publisher when URL is set
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "pretty"
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) and
// environment variables. Environment values win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Webhook: WebhookConfig{
			URL:     "https://n8n.servenorobot.com/webhook/social-media-links",
			Timeout: 30 * time.Second,
		},
		Summarizer: SummarizerConfig{
			Enabled:      false,
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You summarize articles for social media distribution. Be concise.",
			Temperature:  0.2,
			MaxTokens:    1000,
			Timeout:      30 * time.Second,
		},
		History: HistoryConfig{
			Backend:      BackendFile,
			Limit:        10,
			File:         "./data/submissions.json",
			SettingsFile: "./data/settings.json",
			SQLitePath:   "./data/content-distributor.db",
			PollInterval: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "postgres",
			Password:       "postgres",
			Name:           "content_distributor",
			SSLMode:        "disable",
			MaxOpenConns:   10,
			MaxIdleConns:   2,
			MaxLifetime:    5 * time.Minute,
			MigrationsPath: "./migrations",
		},
		RabbitMQ: RabbitMQConfig{
			Exchange:   "content_distributor",
			RoutingKey: "submissions",
			QueueName:  "submission_events",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	// Fields absent from the file keep their current values.
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Webhook.URL = getEnv("WEBHOOK_URL", c.Webhook.URL)
	c.Webhook.Timeout = getDurationEnv("WEBHOOK_TIMEOUT", c.Webhook.Timeout)

	c.Summarizer.Enabled = getBoolEnv("SUMMARIZER_ENABLED", c.Summarizer.Enabled)
	c.Summarizer.Endpoint = getEnv("SUMMARIZER_ENDPOINT", c.Summarizer.Endpoint)
	c.Summarizer.Model = getEnv("SUMMARIZER_MODEL", c.Summarizer.Model)
	c.Summarizer.APIKey = getEnv("SUMMARIZER_API_KEY", c.Summarizer.APIKey)
	c.Summarizer.MaxTokens = getIntEnv("SUMMARIZER_MAX_TOKENS", c.Summarizer.MaxTokens)
	c.Summarizer.Timeout = getDurationEnv("SUMMARIZER_TIMEOUT", c.Summarizer.Timeout)

	c.History.Backend = getEnv("HISTORY_BACKEND", c.History.Backend)
	c.History.Limit = getIntEnv("HISTORY_LIMIT", c.History.Limit)
	c.History.File = getEnv("HISTORY_FILE", c.History.File)
	c.History.SettingsFile = getEnv("SETTINGS_FILE", c.History.SettingsFile)
	c.History.SQLitePath = getEnv("SQLITE_PATH", c.History.SQLitePath)
	c.History.PollInterval = getDurationEnv("HISTORY_POLL_INTERVAL", c.History.PollInterval)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getIntEnv("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getIntEnv("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.MaxLifetime = getDurationEnv("DB_MAX_LIFETIME", c.Database.MaxLifetime)
	c.Database.MigrationsPath = getEnv("MIGRATIONS_PATH", c.Database.MigrationsPath)

	c.RabbitMQ.URL = getEnv("RABBITMQ_URL", c.RabbitMQ.URL)
	c.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", c.RabbitMQ.Exchange)
	c.RabbitMQ.RoutingKey = getEnv("RABBITMQ_ROUTING_KEY", c.RabbitMQ.RoutingKey)
	c.RabbitMQ.QueueName = getEnv("RABBITMQ_QUEUE", c.RabbitMQ.QueueName)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateEndpoint("WEBHOOK_URL", c.Webhook.URL); err != nil {
		return err
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive")
	}
	if c.History.PollInterval <= 0 {
		return fmt.Errorf("HISTORY_POLL_INTERVAL must be positive")
	}

	switch c.History.Backend {
	case BackendMemory:
	case BackendFile:
		if c.History.File == "" || c.History.SettingsFile == "" {
			return fmt.Errorf("HISTORY_FILE and SETTINGS_FILE are required for the file backend")
		}
	case BackendSQLite:
		if c.History.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	default:
		return fmt.Errorf("HISTORY_BACKEND must be one of: memory, file, sqlite, postgres")
	}

	if c.Summarizer.Enabled {
		if err := validateEndpoint("SUMMARIZER_ENDPOINT", c.Summarizer.Endpoint); err != nil {
			return err
		}
		if c.Summarizer.Model == "" {
			return fmt.Errorf("SUMMARIZER_MODEL is required when the summarizer is enabled")
		}
	}

	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func validateEndpoint(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", name)
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
