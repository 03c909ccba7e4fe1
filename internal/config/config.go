package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string        `mapstructure:"PORT"`
	Env           string        `mapstructure:"ENV"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	EnableDB      bool          `mapstructure:"ENABLE_DB"`
	DatabaseURL   string        `mapstructure:"DATABASE_URL"`
	DBMaxConns    int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns    int32         `mapstructure:"DB_MIN_CONNS"`
	RedisURL      string        `mapstructure:"REDIS_URL"`
	HistoryTTL    time.Duration `mapstructure:"HISTORY_TTL"`
	EnrichURL     string        `mapstructure:"ENRICH_URL"`
	EnrichAPIKey  string        `mapstructure:"ENRICH_API_KEY"`
	EnrichTimeout time.Duration `mapstructure:"ENRICH_TIMEOUT"`
	CORSOrigins   []string      `mapstructure:"CORS_ORIGINS"`
	MaxBodyBytes  int64         `mapstructure:"MAX_BODY_BYTES"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "ENABLE_DB", "DATABASE_URL", "DB_MAX_CONNS",
	"DB_MIN_CONNS", "REDIS_URL", "HISTORY_TTL", "ENRICH_URL", "ENRICH_API_KEY",
	"ENRICH_TIMEOUT", "CORS_ORIGINS", "MAX_BODY_BYTES",
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_DB", false)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("HISTORY_TTL", "24h")
	v.SetDefault("ENRICH_TIMEOUT", "20s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if c.RedisURL != "" {
		if _, err := redis.ParseURL(c.RedisURL); err != nil {
			return fmt.Errorf("REDIS_URL: %w", err)
		}
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
