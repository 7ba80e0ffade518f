// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers accepted by DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// minSecretLength is the shortest accepted JWT_SECRET, in bytes.
const minSecretLength = 16

type Config struct {
	// HTTP Server
	Port              string
	CORSAllowedOrigin string
	StaticDir         string
	ShutdownTimeout   time.Duration

	// Database
	DBDriver    string
	DBPath      string
	DatabaseURL string

	// Tokens
	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string

	// Validation
	MaxPageLimit     int
	StrictAmountSign bool

	// CLI reports
	Currency string

	// parseErrors holds variables that were set but could not be parsed.
	parseErrors []string
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding ones already set. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment, applying defaults.
// Call Validate before using the result.
func Load() *Config {
	env := &envLoader{}
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		StaticDir:         getEnv("STATIC_DIR", ""),
		ShutdownTimeout:   env.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:      getEnv("DB_PATH", "./data/fintrack.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    env.getDuration("JWT_TTL", time.Hour),
		JWTIssuer: getEnv("JWT_ISSUER", "fintrack"),

		MaxPageLimit:     env.getInt("MAX_PAGE_LIMIT", 100),
		StrictAmountSign: env.getBool("STRICT_AMOUNT_SIGN", false),

		Currency: strings.ToUpper(getEnv("CURRENCY", "BRL")),
	}
	cfg.parseErrors = env.problems
	return cfg
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errors = append(errors, "DB_PATH cannot be empty when using the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using the postgres driver")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid database driver '%s': must be one of [%s %s]", c.DBDriver, DriverSQLite, DriverPostgres))
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	} else if len(c.JWTSecret) < minSecretLength {
		errors = append(errors, fmt.Sprintf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.JWTTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT TTL %v: must be at least 1 minute", c.JWTTTL))
	}
	if c.JWTIssuer == "" {
		errors = append(errors, "JWT_ISSUER cannot be empty")
	}

	if c.MaxPageLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid max page limit %d: must be at least 1", c.MaxPageLimit))
	}
	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envLoader reads typed variables. A value that does not parse falls back to
// the default and is recorded for Validate.
type envLoader struct {
	problems []string
}

func (l *envLoader) fail(key, value, want string) {
	l.problems = append(l.problems, fmt.Sprintf("invalid %s '%s': must be %s", key, value, want))
}

func (l *envLoader) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		l.fail(key, value, "an integer")
		return defaultValue
	}
	return i
}

func (l *envLoader) getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		l.fail(key, value, "true or false")
		return defaultValue
	}
	return b
}

func (l *envLoader) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		l.fail(key, value, "a duration such as 30s or 1h")
		return defaultValue
	}
	return d
}
