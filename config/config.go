// Package config provides configuration management for the store API.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting:
// every problem is reported at once instead of failing on the first one.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds configuration for the PostgreSQL connection pool.
// Either URL is set (DATABASE_URL) or the individual fields are.
type DatabaseConfig struct {
	URL         string // DATABASE_URL; takes precedence over the fields below
	Host        string // DB_HOST
	Port        int    // DB_PORT
	User        string // DB_USER
	Password    string // DB_PASSWORD
	DBName      string // DB_NAME
	MaxSize     int    // DB_POOL_SIZE, maximum open connections in the pgx pool
	AutoMigrate bool   // AUTO_MIGRATE, run pending migrations when serve starts
}

// DSN returns a postgres:// connection string usable by both pgx and golang-migrate.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret            string        // Secret key for signing JWTs
	AccessTokenDuration  time.Duration // Duration for access tokens
	RefreshTokenDuration time.Duration // Duration for refresh tokens
	AdminUserIDs         []int64       // Users that receive is_admin=true
	LoginRateLimit       float64       // Login attempts per second per client IP
	LoginRateBurst       int
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // Port for the HTTP server
}

// RedisConfig points at the shared Redis used for the blocklist and task queue.
// An empty URL means "run everything in process".
type RedisConfig struct {
	URL string
}

// Enabled reports whether a Redis URL was configured.
func (c *RedisConfig) Enabled() bool { return c.URL != "" }

// QueueConfig configures the background task queue and its workers.
type QueueConfig struct {
	Name        string
	Concurrency int
	RunWorker   bool // start workers inside the API process
}

// MailConfig configures outgoing email.
type MailConfig struct {
	ResendAPIKey string
	From         string
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *DatabaseConfig
	Auth   *AuthConfig
	Server *ServerConfig
	Redis  *RedisConfig
	Queue  *QueueConfig
	Mail   *MailConfig
	Log    *LogConfig
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvFloat(key string, defaultValue float64, errors *[]string) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected number, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return v
}

func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return v
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m", "1h30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// getOptionalEnvIDList parses a comma separated list of integer ids ("1,7,42").
func getOptionalEnvIDList(key string, defaultValue []int64, errors *[]string) []int64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var ids []int64
	for _, part := range strings.Split(valueStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			*errors = append(*errors, fmt.Sprintf("invalid value for %s: '%s' is not an integer id", key, part))
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// clampPoolSize keeps the pool size between 1 and 100.
func clampPoolSize(size int, varName string, errors *[]string) int {
	if size < 1 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) must be at least 1", varName, size))
		return 1
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database Configuration
	dbConfig := &DatabaseConfig{
		URL:         getOptionalEnv("DATABASE_URL", ""),
		Host:        getOptionalEnv("DB_HOST", "localhost"),
		Port:        getOptionalEnvInt("DB_PORT", 5432, &errors),
		MaxSize:     clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE", &errors),
		AutoMigrate: getOptionalEnvBool("DB_AUTO_MIGRATE", true, &errors),
	}
	if dbConfig.URL == "" {
		// Without a URL the discrete settings become mandatory.
		dbConfig.User = getRequiredEnv("DB_USER", &errors)
		dbConfig.Password = getRequiredEnv("DB_PASSWORD", &errors)
		dbConfig.DBName = getRequiredEnv("DB_NAME", &errors)
	}

	// Auth Configuration
	authConfig := &AuthConfig{
		JWTSecret:            getRequiredEnv("JWT_SECRET", &errors),
		AccessTokenDuration:  getOptionalEnvDuration("JWT_ACCESS_TOKEN_DURATION", 15*time.Minute, &errors),
		RefreshTokenDuration: getOptionalEnvDuration("JWT_REFRESH_TOKEN_DURATION", 720*time.Hour, &errors), // 30 days
		AdminUserIDs:         getOptionalEnvIDList("ADMIN_USER_IDS", []int64{1}, &errors),
		LoginRateLimit:       getOptionalEnvFloat("LOGIN_RATE_LIMIT", 1, &errors),
		LoginRateBurst:       getOptionalEnvInt("LOGIN_RATE_BURST", 5, &errors),
	}
	if authConfig.AccessTokenDuration <= 0 || authConfig.RefreshTokenDuration <= 0 {
		errors = append(errors, "token durations must be positive")
	}

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	redisConfig := &RedisConfig{
		URL: getOptionalEnv("REDIS_URL", ""),
	}

	queueConfig := &QueueConfig{
		Name:        getOptionalEnv("QUEUE_NAME", "emails"),
		Concurrency: getOptionalEnvInt("WORKER_CONCURRENCY", 2, &errors),
		RunWorker:   getOptionalEnvBool("RUN_WORKER", true, &errors),
	}
	if queueConfig.Concurrency < 1 {
		errors = append(errors, fmt.Sprintf("WORKER_CONCURRENCY must be at least 1, got %d", queueConfig.Concurrency))
	}

	mailConfig := &MailConfig{
		ResendAPIKey: getOptionalEnv("RESEND_API_KEY", ""),
		From:         getOptionalEnv("MAIL_FROM", "Stores API <no-reply@example.com>"),
	}

	logConfig := &LogConfig{
		Level:  getOptionalEnv("LOG_LEVEL", "info"),
		Format: getOptionalEnv("LOG_FORMAT", "json"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:     dbConfig,
		Auth:   authConfig,
		Server: serverConfig,
		Redis:  redisConfig,
		Queue:  queueConfig,
		Mail:   mailConfig,
		Log:    logConfig,
	}, nil
}
