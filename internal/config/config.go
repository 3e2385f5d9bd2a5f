package config

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the API server and the station job
type Config struct {
	// HTTP server
	Port           string
	AllowedOrigins []string

	// Database
	DBDriver     string
	DatabasePath string
	DatabaseURL  string

	// GO Transit API
	GOAPIBaseURL     string
	OperatorTimezone string
	HTTPTimeout      time.Duration
	FetchTimeout     time.Duration

	// Shared secret for system routes
	AuthToken     string
	AuthTokenFile string
}

// Load reads configuration from environment variables with sensible defaults.
// It fails only when a shared secret file was explicitly configured but cannot be read.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8081"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabasePath: getEnv("SQLITE_DATABASE", "data/gra.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),

		GOAPIBaseURL:     getEnv("GO_API_BASE_URL", "https://secure.gotransit.com/service/EligibilityService.svc"),
		OperatorTimezone: getEnv("OPERATOR_TIMEZONE", "America/Toronto"),
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		FetchTimeout:     time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,

		AuthToken:     os.Getenv("AUTH_TOKEN"),
		AuthTokenFile: getEnv("AUTH_TOKEN_FILE", "auth_token.secret"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = PostgresURL(
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USERNAME", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "gra"),
		)
	}

	if cfg.DBDriver != DriverSQLite && cfg.DBDriver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.AuthToken == "" {
		token, err := ReadAuthTokenFile(cfg.AuthTokenFile)
		if err != nil {
			// The default file is optional; an explicit one is not.
			if os.Getenv("AUTH_TOKEN_FILE") != "" {
				return nil, err
			}
		}
		cfg.AuthToken = token
	}

	return cfg, nil
}

// DataSource returns the driver-specific connection string
func (c *Config) DataSource() string {
	if c.DBDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// PostgresURL builds a postgres:// connection URL
func PostgresURL(host, port, username, password, dbname string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(username, password),
		Host:   host + ":" + port,
		Path:   "/" + dbname,
	}
	return u.String()
}

// ReadAuthTokenFile returns the first line of the token file with surrounding whitespace removed
func ReadAuthTokenFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open auth token file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read auth token file: %w", err)
		}
		return "", nil
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
