package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

const PROD_STRING = "prod"

const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	FixtureSource string
	FixtureDir    string
	DBDSN         string
	SQLitePath    string

	JWTSecret         string
	JWTAccessTokenTTL time.Duration

	InitialFilter    store.StatusSet
	FilterSessionTTL time.Duration

	DashboardURL   string
	CDPURL         string
	SelectorsFile  string
	SettleWindow   time.Duration
	SettleInterval time.Duration
	SearchTerms    []string
	EvidenceDir    string

	LogLevel string
	LogFile  string
}

// Environment is the name the logger uses to pick its output format.
func (c *Config) Environment() string {
	if c.IsProduction {
		return "production"
	}
	return "development"
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{}
	var err error

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	if cfg.ShutdownTimeout, err = getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	// Fixture source (default: JSON files in ./data)
	cfg.FixtureSource = strings.ToLower(getEnv("FIXTURE_SOURCE", SourceJSON))
	cfg.FixtureDir = getEnv("FIXTURE_DIR", "./data")
	cfg.DBDSN = os.Getenv("DB_DSN")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "./data/fixtures.db")
	switch cfg.FixtureSource {
	case SourceJSON, SourceSQLite:
	case SourcePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required when FIXTURE_SOURCE is %s", SourcePostgres)
		}
	default:
		return nil, fmt.Errorf("invalid FIXTURE_SOURCE %q: want json, postgres or sqlite", cfg.FixtureSource)
	}

	// API bearer auth is enabled only when a secret is set.
	cfg.JWTSecret = os.Getenv("API_JWT_SECRET")
	if cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}

	// Applied filter on first load (default: none, every status visible)
	cfg.InitialFilter, err = store.ParseStatusSet(getEnvAsList("INITIAL_FILTER", nil))
	if err != nil {
		return nil, fmt.Errorf("invalid INITIAL_FILTER: %w", err)
	}
	if cfg.FilterSessionTTL, err = getEnvAsDuration("FILTER_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	cfg.DashboardURL = getEnv("DASHBOARD_URL", "http://localhost:3000")
	cfg.CDPURL = getEnv("CDP_URL", "")
	cfg.SelectorsFile = getEnv("SELECTORS_FILE", "")
	if cfg.SettleWindow, err = getEnvAsDuration("SETTLE_WINDOW", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.SettleInterval, err = getEnvAsDuration("SETTLE_INTERVAL", 100*time.Millisecond); err != nil {
		return nil, err
	}
	cfg.SearchTerms = getEnvAsList("SEARCH_TERMS", []string{"Acc", "xyz", "housing"})
	cfg.EvidenceDir = getEnv("EVIDENCE_DIR", "./evidence")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFile = getEnv("LOG_FILE", "logs/verifier.log")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses a duration such as "15m" or "500ms". A bare
// integer is read as seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := strings.TrimSpace(getEnv(key, ""))
	if valStr == "" {
		return defaultValue, nil
	}
	if secs, err := getEnvAsInt(key, 0); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getEnvAsList splits a comma separated variable, dropping blank items.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
