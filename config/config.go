// Package config provides configuration management for the bookshelf service.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting: every problem found while loading is gathered
// and returned as a single aggregate error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig holds authentication-related configuration.
//
// The service authenticates exactly one user, configured through the
// environment rather than compiled in. Either PasswordHash (a bcrypt digest)
// or Password (hashed at startup) must be set.
type AuthConfig struct {
	Username     string // login username for the single configured user
	Password     string // plaintext password, hashed at startup if no digest is given
	PasswordHash string // bcrypt digest; takes precedence over Password
	FullName     string // profile field, returned nowhere but kept on the user record
	Email        string // profile field

	JWTSecret string // secret key for signing tokens
	Algorithm string // signing algorithm name (HS256, HS384, HS512)

	// AccessTokenDuration is the lifetime of tokens issued at login.
	AccessTokenDuration time.Duration
	// DefaultTokenDuration is the fallback lifetime the issuer applies when
	// a caller requests a token without a usable TTL.
	DefaultTokenDuration time.Duration
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Driver         string // "sqlite3" or "pgx"
	DSN            string // driver-specific data source name
	MaxOpenConns   int
	MigrationsPath string // migration directory override; empty derives from Driver
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // port for the HTTP server
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Auth     *AuthConfig
	Database *DatabaseConfig
	Server   *ServerConfig
}

// getRequiredEnv returns a required environment variable, appending an
// error to the collection if it is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv returns an environment variable or the default value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt parses an optional environment variable as an int,
// falling back to defaultValue and collecting an error on a bad value.
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

// getOptionalEnvDuration parses an optional environment variable as a
// time.Duration string like "30m" or "1h30m".
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

// supportedAlgorithms are the HMAC signing algorithm names the token issuer
// accepts.
var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// supportedDrivers are the database drivers the db package registers.
var supportedDrivers = map[string]bool{
	"sqlite3": true,
	"pgx":     true,
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregate error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Auth configuration
	jwtSecret := getRequiredEnv("JWT_SECRET", &errors)
	algorithm := getOptionalEnv("JWT_ALGORITHM", "HS256")
	if !supportedAlgorithms[algorithm] {
		errors = append(errors, fmt.Sprintf("unsupported value for JWT_ALGORITHM: %s (expected HS256, HS384 or HS512)", algorithm))
	}
	accessTokenDuration := getOptionalEnvDuration("ACCESS_TOKEN_DURATION", 30*time.Minute, &errors)
	defaultTokenDuration := getOptionalEnvDuration("DEFAULT_TOKEN_DURATION", 15*time.Minute, &errors)

	authUsername := getRequiredEnv("AUTH_USERNAME", &errors)
	authPassword := getOptionalEnv("AUTH_PASSWORD", "")
	authPasswordHash := getOptionalEnv("AUTH_PASSWORD_HASH", "")
	if authPassword == "" && authPasswordHash == "" {
		errors = append(errors, "one of AUTH_PASSWORD or AUTH_PASSWORD_HASH must be set")
	}

	authConfig := &AuthConfig{
		Username:             authUsername,
		Password:             authPassword,
		PasswordHash:         authPasswordHash,
		FullName:             getOptionalEnv("AUTH_FULL_NAME", ""),
		Email:                getOptionalEnv("AUTH_EMAIL", ""),
		JWTSecret:            jwtSecret,
		Algorithm:            algorithm,
		AccessTokenDuration:  accessTokenDuration,
		DefaultTokenDuration: defaultTokenDuration,
	}

	// Database configuration
	driver := getOptionalEnv("DATABASE_DRIVER", "sqlite3")
	if !supportedDrivers[driver] {
		errors = append(errors, fmt.Sprintf("unsupported value for DATABASE_DRIVER: %s (expected sqlite3 or pgx)", driver))
	}
	databaseConfig := &DatabaseConfig{
		Driver:         driver,
		DSN:            getOptionalEnv("DATABASE_DSN", "books.db"),
		MaxOpenConns:   getOptionalEnvInt("DATABASE_MAX_OPEN_CONNS", 10, &errors),
		MigrationsPath: getOptionalEnv("MIGRATIONS_PATH", ""),
	}

	// Server configuration
	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Auth:     authConfig,
		Database: databaseConfig,
		Server:   serverConfig,
	}, nil
}
