// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Moderation pipeline settings.
	ClassifierURL        string `mapstructure:"CLASSIFIER_URL"`
	ClassifierTimeoutSec int    `mapstructure:"CLASSIFIER_TIMEOUT_SEC"`
	AutoApproveTeachers  bool   `mapstructure:"AUTO_APPROVE_TEACHERS"`

	// Extra keyword lists merged into the built-in lexicon at startup,
	// comma separated.
	BlocklistExtra string `mapstructure:"MODERATION_BLOCKLIST"`
	EmergencyExtra string `mapstructure:"MODERATION_EMERGENCY"`

	DailyPostCap       int `mapstructure:"DAILY_POST_CAP"`
	TrendingWindowDays int `mapstructure:"TRENDING_WINDOW_DAYS"`

	// Tracing settings.
	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	TracingOTLPEndpoint string  `mapstructure:"TRACING_OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if env != "test" || !errors.As(err, &notFound) {
				return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
			}
		}
	}

	viper.SetDefault("PORT", "8570")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "campus")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("CLASSIFIER_URL", "")
	viper.SetDefault("CLASSIFIER_TIMEOUT_SEC", 8)
	viper.SetDefault("AUTO_APPROVE_TEACHERS", true)
	viper.SetDefault("MODERATION_BLOCKLIST", "")
	viper.SetDefault("MODERATION_EMERGENCY", "")
	viper.SetDefault("DAILY_POST_CAP", 10)
	viper.SetDefault("TRENDING_WINDOW_DAYS", 7)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.ClassifierTimeoutSec < 5 || c.ClassifierTimeoutSec > 10 {
		return fmt.Errorf("CLASSIFIER_TIMEOUT_SEC must be between 5 and 10, got %d", c.ClassifierTimeoutSec)
	}
	if c.DailyPostCap < 1 {
		return errors.New("DAILY_POST_CAP must be positive")
	}
	if c.TrendingWindowDays < 1 {
		return errors.New("TRENDING_WINDOW_DAYS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.ClassifierURL == "" {
			log.Println("WARNING: CLASSIFIER_URL is empty in production; every submission will be scored by the fallback rule engine.")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}

// ClassifierTimeout returns the classifier call deadline as a duration.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.ClassifierTimeoutSec) * time.Second
}

// SplitList parses a comma-separated config value into trimmed entries.
func SplitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
