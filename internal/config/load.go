package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults keep local development zero-config apart from the
	// database URL and JWT secret.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("scheduler.cron_spec", "@every 1m")
	v.SetDefault("scheduler.stale_after_minutes", 15)
	v.SetDefault("scheduler.send_concurrency", 4)
	v.SetDefault("scheduler.send_timeout_seconds", 10)
	v.SetDefault("email.from_email", "no-reply@lettermill.dev")
	v.SetDefault("email.from_name", "Lettermill")
	v.SetDefault("email.public_base_url", "http://localhost:8080")

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; environment variables may carry everything.
	}

	// Environment variables with the LETTERMILL_ prefix override file
	// values, e.g. LETTERMILL_DATABASE_URL, LETTERMILL_AUTH_JWT_SECRET.
	v.SetEnvPrefix("LETTERMILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys for Unmarshal, so bind the ones
	// we read explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"scheduler.cron_spec",
		"scheduler.stale_after_minutes",
		"scheduler.send_concurrency",
		"scheduler.send_timeout_seconds",
		"email.from_email",
		"email.from_name",
		"email.sendgrid_api_key",
		"email.public_base_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
