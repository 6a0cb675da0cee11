// Package config loads all application configuration from environment
// variables. The manager is a single-device deployment, so every setting
// has a working default; a bare `dojod` starts with an empty local store
// and the seeded admin credentials.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Local store
	Store StoreConfig

	// HTTP Server
	HTTP HTTPConfig

	// Operator authentication
	Auth AuthConfig

	// Background jobs
	Scheduler SchedulerConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// StoreConfig holds the embedded database settings.
type StoreConfig struct {
	// Path to the database file. The directory is created if missing.
	Path string
}

// HTTPConfig holds the local API server settings.
type HTTPConfig struct {
	Host string
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuthConfig holds the static operator credential.
// There is exactly one operator account per device; this is a kiosk
// deployment, not a user directory.
type AuthConfig struct {
	AdminEmail string
	AdminName  string

	// AdminPasswordHash is the bcrypt hash checked on login. When no hash
	// is configured, Load derives one from ADMIN_PASSWORD (default
	// "admin") so development starts without setup.
	AdminPasswordHash string

	// JWTSecret signs the session tokens handed to the UI.
	JWTSecret string

	// TokenTTL is how long a session token stays valid.
	TokenTTL time.Duration
}

// SchedulerConfig holds background job settings.
type SchedulerConfig struct {
	// Enable/disable the scheduler
	Enabled bool

	// FeeAgingInterval is how often pending fees are swept for aging
	// into OVERDUE.
	FeeAgingInterval time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App:       loadAppConfig(),
		Store:     loadStoreConfig(),
		HTTP:      loadHTTPConfig(),
		Scheduler: loadSchedulerConfig(),
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("auth config: %w", err)
	}
	cfg.Auth = auth

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))

	return AppConfig{
		Name:            getEnv("APP_NAME", "manager-dojo"),
		Environment:     env,
		Debug:           env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
		Version:         getEnv("APP_VERSION", "0.1.0"),
		ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		Path: getEnv("STORE_PATH", "data/dojo.db"),
	}
}

func loadHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:         getEnv("HTTP_HOST", "127.0.0.1"),
		Port:         getEnvInt("HTTP_PORT", 8787),
		ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
	}
}

func loadAuthConfig() (AuthConfig, error) {
	cfg := AuthConfig{
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@tree.com"),
		AdminName:         getEnv("ADMIN_NAME", "Administrador"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          getEnvDuration("AUTH_TOKEN_TTL", 12*time.Hour),
	}

	if cfg.AdminPasswordHash == "" {
		plain := getEnv("ADMIN_PASSWORD", "admin")
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("hash admin password: %w", err)
		}
		cfg.AdminPasswordHash = string(hash)
	}

	if cfg.JWTSecret == "" {
		// Development fallback; production requires an explicit secret.
		cfg.JWTSecret = "dev-only-secret"
	}

	return cfg, nil
}

func loadSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:          getEnvBool("SCHEDULER_ENABLED", true),
		FeeAgingInterval: getEnvDuration("SCHEDULER_FEE_AGING_INTERVAL", 1*time.Hour),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Store.Path == "" {
		errs = append(errs, "STORE_PATH must not be empty")
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, "HTTP_PORT must be 1-65535")
	}

	if c.App.Environment == EnvProduction {
		if os.Getenv("JWT_SECRET") == "" {
			errs = append(errs, "JWT_SECRET is required in production")
		}
		if os.Getenv("ADMIN_PASSWORD_HASH") == "" && os.Getenv("ADMIN_PASSWORD") == "" {
			errs = append(errs, "ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production")
		}
	}

	if c.Scheduler.FeeAgingInterval < time.Minute {
		errs = append(errs, "SCHEDULER_FEE_AGING_INTERVAL must be at least 1m")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
