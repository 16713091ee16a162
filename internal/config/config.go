package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
// The admin token guards catalog management; it is fixed for the process
// lifetime and never generated at runtime.
type AuthConfig struct {
	SessionSecret          string `mapstructure:"session_secret"           validate:"required,min=32"`
	SessionLifetimeMinutes int    `mapstructure:"session_lifetime_minutes" validate:"required,gt=0"`
	AdminToken             string `mapstructure:"admin_token"              validate:"required,min=32"`
	BcryptCost             int    `mapstructure:"bcrypt_cost"              validate:"omitempty,gte=4,lte=31"`
}
