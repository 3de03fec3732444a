package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
	Webhook  WebhookConfig  `mapstructure:"webhook" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// MailConfig contains the outbound email settings. When SendgridAPIKey is
// empty the server logs messages instead of sending them.
type MailConfig struct {
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromEmail      string `mapstructure:"from_email" validate:"required_with=SendgridAPIKey,omitempty,email"`
	FromName       string `mapstructure:"from_name"`
	// SupportEmail receives failure notices for payment events the
	// platform could not process. Empty disables them.
	SupportEmail string `mapstructure:"support_email" validate:"omitempty,email"`
}

// WebhookConfig contains the payment provider webhook settings.
type WebhookConfig struct {
	// Secret authenticates incoming payment notifications; the provider
	// sends it on every request.
	Secret string `mapstructure:"secret" validate:"required,min=16"`
}
