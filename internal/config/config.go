package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config represents the complete service configuration. Values come from
// an optional TOML file with environment overrides for deployment
// specifics and secrets.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Redis   RedisConfig   `toml:"redis"`
	Auth    AuthConfig    `toml:"auth"`
	Email   EmailConfig   `toml:"email"`
	Account AccountPolicy `toml:"account"`
}

// ServerConfig contains HTTP and database settings.
type ServerConfig struct {
	Port        int    `toml:"port"`
	DatabaseURL string `toml:"database_url"`
}

// RedisConfig contains cache connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// AuthConfig contains session token settings.
type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenTTLSeconds int    `toml:"token_ttl_seconds"`
}

// EmailConfig contains delivery settings.
type EmailConfig struct {
	SendgridAPIKey string `toml:"sendgrid_api_key"`
	FromName       string `toml:"from_name"`
	FromAddress    string `toml:"from_address"`
	SandboxMode    bool   `toml:"sandbox_mode"`
}

// AccountPolicy holds the signup and settings policy flags. It is passed
// into services at construction so behavior never depends on ambient
// global state.
type AccountPolicy struct {
	OpenSignup                bool   `toml:"open_signup"`
	EmailConfirmationEmail    bool   `toml:"email_confirmation_email"`
	EmailConfirmationRequired bool   `toml:"email_confirmation_required"`
	AllowUserInitiatedInvites bool   `toml:"allow_user_initiated_invites"`
	DeletionExpungeHours      int    `toml:"deletion_expunge_hours"`
	SignupCodeExpiryHours     int    `toml:"signup_code_expiry_hours"`
	ConfirmationExpiryHours   int    `toml:"confirmation_expiry_hours"`
	DefaultTimezone           string `toml:"default_timezone"`
	DefaultLanguage           string `toml:"default_language"`
	SiteURL                   string `toml:"site_url"`
}

// Default returns the configuration used when no file or env overrides
// are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Auth: AuthConfig{
			TokenTTLSeconds: 3600,
		},
		Email: EmailConfig{
			FromName:    "Accounts",
			FromAddress: "no-reply@localhost",
		},
		Account: AccountPolicy{
			OpenSignup:                true,
			EmailConfirmationEmail:    true,
			EmailConfirmationRequired: false,
			AllowUserInitiatedInvites: false,
			DeletionExpungeHours:      48,
			SignupCodeExpiryHours:     0,
			ConfirmationExpiryHours:   72,
			DefaultTimezone:           "UTC",
			DefaultLanguage:           "en-us",
			SiteURL:                   "http://localhost:8080",
		},
	}
}

// Load reads configuration from a TOML file on top of the defaults.
func Load(filename string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(filename, config); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return config, nil
}

// ApplyEnv overrides deployment specifics and secrets from the
// environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Server.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.Email.SendgridAPIKey = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		c.Account.SiteURL = v
	}
}
