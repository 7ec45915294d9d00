// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration. It is built once at process
// start and passed down explicitly; nothing below main reads the environment.
type Config struct {
	DBDriver string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// SQLite file used when DBDriver is "sqlite".
	SQLitePath string

	LLM      LLM
	Backfill Backfill

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// MySQL – used only by cmd/seed.
	MySQLDSN string
}

// LLM configures the description generator.
type LLM struct {
	// Token is the GitHub Models credential. Empty means generation is unavailable.
	Token       string
	Endpoint    string
	Model       string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration
}

// Backfill configures the batch description job.
type Backfill struct {
	// BatchSize caps the candidate set; 0 means all candidates.
	BatchSize int
	Delay     time.Duration
	Cooldown  time.Duration
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg, err := load(newViper())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Parse reads configuration like Load but leaves Validate to the caller.
func Parse() *Config {
	return parse(newViper())
}

func load(v *viper.Viper) (*Config, error) {
	cfg := parse(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(v *viper.Viper) *Config {
	// Defaults
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_USER", "padraic")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "batstats")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "batstats.db")
	v.SetDefault("LLM_ENDPOINT", "https://models.inference.ai.azure.com")
	v.SetDefault("LLM_MODEL", "gpt-4o")
	v.SetDefault("LLM_MAX_TOKENS", 200)
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("BATCH_SIZE", 0)
	v.SetDefault("DELAY_MS", 1000)
	v.SetDefault("RATE_LIMIT_COOLDOWN_MS", 30000)
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DBDriver:    strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBUser:      v.GetString("DB_USER"),
		DBPass:      v.GetString("DB_PASS"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		LLM: LLM{
			Token:       strings.TrimSpace(v.GetString("GITHUB_TOKEN")),
			Endpoint:    v.GetString("LLM_ENDPOINT"),
			Model:       v.GetString("LLM_MODEL"),
			MaxTokens:   v.GetInt64("LLM_MAX_TOKENS"),
			Temperature: v.GetFloat64("LLM_TEMPERATURE"),
			Timeout:     v.GetDuration("LLM_TIMEOUT"),
		},
		Backfill: Backfill{
			BatchSize: v.GetInt("BATCH_SIZE"),
			Delay:     time.Duration(v.GetInt("DELAY_MS")) * time.Millisecond,
			Cooldown:  time.Duration(v.GetInt("RATE_LIMIT_COOLDOWN_MS")) * time.Millisecond,
		},
		Debug:      v.GetBool("DEBUG"),
		Port:       v.GetString("PORT"),
		TLSDomains: splitTrimmed(v.GetString("TLS_DOMAINS")),
		MySQLDSN:   v.GetString("MYSQL_DSN"),
	}

	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// Validate reports the first unusable setting. The LLM token is not checked.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" && c.DBPass == "" {
			return errors.New("DATABASE_URL or DB_PASS must be set")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH must be set")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.Backfill.BatchSize < 0 {
		return errors.New("BATCH_SIZE must not be negative")
	}
	if c.Backfill.Delay < 0 {
		return errors.New("DELAY_MS must not be negative")
	}
	if c.Backfill.Cooldown <= c.Backfill.Delay {
		return errors.New("RATE_LIMIT_COOLDOWN_MS must be longer than DELAY_MS")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("LLM_TIMEOUT must be positive")
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
