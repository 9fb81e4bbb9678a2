package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fadedpez/cardlab/internal/logging"
	"github.com/fadedpez/cardlab/internal/types"
	"github.com/fadedpez/cardlab/pkg/entities"
	"github.com/joho/godotenv"
)

// Storage types
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// ElasticsearchConfig holds the optional run index settings
type ElasticsearchConfig struct {
	URL         string `env:"URL"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	IndexPrefix string `env:"INDEX_PREFIX" envDefault:"cardlab"`
}

// DiscordConfig holds the optional report webhook
type DiscordConfig struct {
	WebhookID    string `env:"WEBHOOK_ID"`
	WebhookToken string `env:"WEBHOOK_TOKEN"`
}

// Config holds all configuration for the application
type Config struct {
	// Experiment sizes
	Attempts         int   `env:"ATTEMPTS" envDefault:"1000"`
	Experiments      int   `env:"EXPERIMENTS" envDefault:"100"`
	SuitCount        int   `env:"SUIT_COUNT" envDefault:"4"`
	RoyalExperiments int   `env:"ROYAL_EXPERIMENTS" envDefault:"5"`
	RoyalMaxAttempts int   `env:"ROYAL_MAX_ATTEMPTS" envDefault:"10000000"`
	SweepMaxSuits    int   `env:"SWEEP_MAX_SUITS" envDefault:"10"`
	SweepParallel    bool  `env:"SWEEP_PARALLEL" envDefault:"false"`
	Seed             int64 `env:"SEED" envDefault:"0"`

	// Output
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`
	Charts   bool   `env:"CHARTS" envDefault:"true"`

	// Storage
	StorageType   string              `env:"STORAGE_TYPE" envDefault:"memory"`
	DataDir       string              `env:"DATA_DIR" envDefault:"data"`
	Elasticsearch ElasticsearchConfig `envPrefix:"ELASTICSEARCH_"`

	Discord DiscordConfig `envPrefix:"DISCORD_"`

	// Scheduler
	ScheduleInterval   time.Duration `env:"SCHEDULE_INTERVAL" envDefault:"1h"`
	ScheduleExperiment string        `env:"SCHEDULE_EXPERIMENT" envDefault:"fairness"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development" or "production"
}

// Load reads .env if present, then the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if cfg.StorageType == StorageSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// Parse reads and validates the configuration from environment variables only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, types.WrapError(types.ErrConfiguration, "parse env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the configuration before anything runs
func (c *Config) validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"ATTEMPTS", c.Attempts},
		{"EXPERIMENTS", c.Experiments},
		{"SUIT_COUNT", c.SuitCount},
		{"ROYAL_EXPERIMENTS", c.RoyalExperiments},
		{"ROYAL_MAX_ATTEMPTS", c.RoyalMaxAttempts},
		{"SWEEP_MAX_SUITS", c.SweepMaxSuits},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return types.Errorf(types.ErrConfiguration, "%s must be positive, got %d", p.name, p.value)
		}
	}

	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		return types.Errorf(types.ErrConfiguration, "unknown LOG_LEVEL %q", c.LogLevel)
	}
	if c.StorageType != StorageMemory && c.StorageType != StorageSQLite {
		return types.Errorf(types.ErrConfiguration, "unknown STORAGE_TYPE %q", c.StorageType)
	}
	if (c.Discord.WebhookID == "") != (c.Discord.WebhookToken == "") {
		return types.NewError(types.ErrConfiguration, "DISCORD_WEBHOOK_ID and DISCORD_WEBHOOK_TOKEN must be set together")
	}
	if c.ScheduleInterval <= 0 {
		return types.Errorf(types.ErrConfiguration, "SCHEDULE_INTERVAL must be positive, got %s", c.ScheduleInterval)
	}
	if !entities.ExperimentKind(c.ScheduleExperiment).Valid() {
		return types.Errorf(types.ErrConfiguration, "unknown SCHEDULE_EXPERIMENT %q", c.ScheduleExperiment)
	}
	return nil
}

// Level returns the parsed log level
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// SQLitePath is the results database file inside DataDir
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "cardlab.db")
}

// ElasticsearchEnabled reports whether runs should be indexed
func (c *Config) ElasticsearchEnabled() bool {
	return c.Elasticsearch.URL != ""
}

// DiscordEnabled reports whether reports should be posted to a webhook
func (c *Config) DiscordEnabled() bool {
	return c.Discord.WebhookID != ""
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
