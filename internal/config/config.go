package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

const (
	defaultJWTSecret      = "dev_secret"
	defaultAdminJWTSecret = "admin_dev_secret"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string
	StorageDriver string
	MongoURI      string
	MongoDB       string
	ChangeStreams bool

	JWTSecret        string
	AdminJWTSecret   string
	UserTokenTTL     time.Duration
	ExplorerTokenTTL time.Duration
	AdminTokenTTL    time.Duration

	AddAdminAccessPassword string
	AdminSeedPassword      string

	CORSOrigins       []string
	RefundRedirectURL string
	AdminPollInterval time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "5000"),
		StorageDriver: strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverMongo)),
		MongoURI:      fallback(os.Getenv("MONGO_URI"), strings.TrimSpace(os.Getenv("MONGOURI"))),
		MongoDB:       fallback(os.Getenv("MONGO_DB"), "namma_kodai"),
		ChangeStreams: parseBool(os.Getenv("MONGO_CHANGE_STREAMS")),

		JWTSecret:        fallback(os.Getenv("JWT_SECRET"), defaultJWTSecret),
		AdminJWTSecret:   fallback(os.Getenv("ADMIN_JWT_SECRET"), defaultAdminJWTSecret),
		UserTokenTTL:     7 * 24 * time.Hour,
		ExplorerTokenTTL: 3 * time.Hour,
		AdminTokenTTL:    7 * 24 * time.Hour,

		AddAdminAccessPassword: fallback(os.Getenv("ADD_ADMIN_ACCESS_PASSWORD"), "N3021K"),
		AdminSeedPassword:      fallback(os.Getenv("ADMIN_SEED_PASSWORD"), "3021nk"),

		CORSOrigins:       parseCSV(fallback(os.Getenv("CORS_ORIGINS"), "*")),
		RefundRedirectURL: fallback(os.Getenv("REFUND_REDIRECT_URL"), "https://example.com/refund"),

		LogLevel:  strings.ToLower(fallback(os.Getenv("LOG_LEVEL"), "info")),
		LogFormat: strings.ToLower(fallback(os.Getenv("LOG_FORMAT"), "console")),
	}

	interval, err := parseDuration(os.Getenv("ADMIN_POLL_INTERVAL"), 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("ADMIN_POLL_INTERVAL: %w", err)
	}
	cfg.AdminPollInterval = interval

	switch cfg.StorageDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGO_URI is required when STORAGE_DRIVER=mongo")
		}
	case DriverMemory:
		if cfg.ChangeStreams {
			return Config{}, errors.New("MONGO_CHANGE_STREAMS requires STORAGE_DRIVER=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// DefaultSecrets reports whether either JWT secret was left at its
// development value.
func (c Config) DefaultSecrets() bool {
	return c.JWTSecret == defaultJWTSecret || c.AdminJWTSecret == defaultAdminJWTSecret
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && v
}

// parseDuration accepts Go durations ("15s") or a bare number of seconds.
func parseDuration(input string, def time.Duration) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(input); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
