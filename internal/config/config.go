package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
	DatabaseMemory   = "memory"
)

type Config struct {
	Port              int
	DatabaseType      string
	DatabaseURL       string
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
	CookieDomain      string
	CookieSecure      bool
	TimeZone          string
}

// Load reads .env when present and then parses flags with environment
// fallback.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()
	return ParseFlags(args)
}

// ParseFlags parses command line flags. Any value not given on the command
// line falls back to its environment variable and then to a default.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("polls", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite or memory)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or sqlite file path")
	fs.StringVar(&cfg.TimeZone, "tz", "", "Time zone used for publication dates")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", DatabasePostgres)
	}
	switch cfg.DatabaseType {
	case DatabasePostgres, DatabaseSQLite, DatabaseMemory:
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		switch cfg.DatabaseType {
		case DatabasePostgres:
			cfg.DatabaseURL = PostgresDSNFromEnv()
		case DatabaseSQLite:
			cfg.DatabaseURL = "polls.db"
		}
	}

	if cfg.TimeZone == "" {
		cfg.TimeZone = envOr("TIME_ZONE", "UTC")
	}
	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return Config{}, fmt.Errorf("invalid TIME_ZONE: %w", err)
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}
	cfg.AdminUsername = envOr("ADMIN_USERNAME", "admin")
	cfg.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	cfg.CookieDomain = os.Getenv("COOKIE_DOMAIN")
	cfg.CookieSecure = envBool("COOKIE_SECURE", false)

	return cfg, nil
}

// Location returns the configured time zone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PostgresDSNFromEnv builds a connection string from the POSTGRES_* variables.
func PostgresDSNFromEnv() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
