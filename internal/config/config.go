package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Email     EmailConfig     `mapstructure:"email"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings for the project-scoped API.
type AuthConfig struct {
	// JWTSecret signs and verifies the bearer tokens whose project_id
	// claim resolves a caller to exactly one project.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// SchedulerConfig contains the dispatch scheduler's tuning knobs.
type SchedulerConfig struct {
	// CronSpec is the cron expression driving automatic scheduler passes.
	// The manual trigger endpoint works regardless of this setting.
	CronSpec string `mapstructure:"cron_spec" validate:"required"`

	// StaleAfterMinutes is how long a task may sit in processing before a
	// pass reclaims it back to pending. Guards against tasks orphaned by
	// a crash mid-pass.
	StaleAfterMinutes int `mapstructure:"stale_after_minutes" validate:"required,gt=0"`

	// SendConcurrency bounds the per-campaign worker pool.
	SendConcurrency int `mapstructure:"send_concurrency" validate:"required,gt=0"`

	// SendTimeoutSeconds bounds a single delivery attempt.
	SendTimeoutSeconds int `mapstructure:"send_timeout_seconds" validate:"required,gt=0"`
}

// EmailConfig contains delivery and link-generation settings.
type EmailConfig struct {
	FromEmail string `mapstructure:"from_email" validate:"required,email"`
	FromName  string `mapstructure:"from_name"`

	// SendGridAPIKey enables the SendGrid delivery adapter. When empty,
	// the application falls back to a console sender for development.
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`

	// PublicBaseURL is the externally reachable base URL used when
	// generating unsubscribe and tracking links.
	PublicBaseURL string `mapstructure:"public_base_url" validate:"required,url"`
}
