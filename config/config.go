package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	SERVER_REQUEST_TIMEOUT=15s
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=stockpulse
//	POSTGRES_AUTO_MIGRATE=true
//	CACHE_TTL=5m
//	PROVIDER_RATE_PER_MINUTE=60
//	REFRESH_SCHEDULE="0 30 18 * * MON-FRI"
//	LOG_LEVEL=debug
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Cache    CacheConfig    // HTTP response cache
	Provider ProviderConfig // market data provider limits
	Refresh  RefreshConfig  // scheduled and manual refresh runs
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout     time.Duration // upper bound on a single request
	RateLimitPerMinute int           // per-client requests per minute, 0 disables
	AllowedOrigins     []string      // CORS origins
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - AutoMigrate: apply pending migrations when the API starts.
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
	URL         string
}

// CacheConfig sizes the in-memory response cache.
type CacheConfig struct {
	TTL  time.Duration
	Size int
}

// ProviderConfig throttles and retries calls to the market data provider.
type ProviderConfig struct {
	RatePerMinute int
	MaxRetries    uint64
}

// RefreshConfig controls ingestion runs.
//
// Schedule is a six-field cron expression (with seconds). Empty disables the
// in-process scheduler.
type RefreshConfig struct {
	Schedule     string
	Days         int
	Parallel     int
	Force        bool
	UniverseFile string
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RequestTimeout:     viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
			RateLimitPerMinute: viper.GetInt("SERVER_RATE_LIMIT_PER_MINUTE"),
			AllowedOrigins:     viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Postgres: PostgresConfig{
			Host:        viper.GetString("POSTGRES_HOST"),
			Port:        viper.GetInt("POSTGRES_PORT"),
			User:        viper.GetString("POSTGRES_USER"),
			Password:    viper.GetString("POSTGRES_PASSWORD"),
			DBName:      viper.GetString("POSTGRES_DB"),
			SSLMode:     viper.GetString("POSTGRES_SSLMODE"),
			AutoMigrate: viper.GetBool("POSTGRES_AUTO_MIGRATE"),
		},
		Cache: CacheConfig{
			TTL:  viper.GetDuration("CACHE_TTL"),
			Size: viper.GetInt("CACHE_SIZE"),
		},
		Provider: ProviderConfig{
			RatePerMinute: viper.GetInt("PROVIDER_RATE_PER_MINUTE"),
			MaxRetries:    viper.GetUint64("PROVIDER_MAX_RETRIES"),
		},
		Refresh: RefreshConfig{
			Schedule:     viper.GetString("REFRESH_SCHEDULE"),
			Days:         viper.GetInt("REFRESH_DAYS"),
			Parallel:     viper.GetInt("REFRESH_PARALLEL"),
			Force:        viper.GetBool("REFRESH_FORCE"),
			UniverseFile: viper.GetString("REFRESH_UNIVERSE_FILE"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Pretty: viper.GetBool("LOG_PRETTY"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "15s")
	viper.SetDefault("SERVER_RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "stockpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
	viper.SetDefault("POSTGRES_AUTO_MIGRATE", false)

	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("CACHE_SIZE", 100)

	viper.SetDefault("PROVIDER_RATE_PER_MINUTE", 60)
	viper.SetDefault("PROVIDER_MAX_RETRIES", 3)

	viper.SetDefault("REFRESH_SCHEDULE", "")
	viper.SetDefault("REFRESH_DAYS", 400)
	viper.SetDefault("REFRESH_PARALLEL", 4)
	viper.SetDefault("REFRESH_FORCE", false)
	viper.SetDefault("REFRESH_UNIVERSE_FILE", "")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if AppConfig.Cache.TTL <= 0 {
		missing = append(missing, "CACHE_TTL")
	}
	if AppConfig.Cache.Size <= 0 {
		missing = append(missing, "CACHE_SIZE")
	}
	if AppConfig.Refresh.Days <= 0 {
		missing = append(missing, "REFRESH_DAYS")
	}

	if len(missing) > 0 {
		log.Fatalf("Missing or invalid environment variables: %v\n", missing)
	}
}
