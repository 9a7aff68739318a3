package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	OdooURL          string
	OdooDB           string
	OdooUser         string
	OdooPassword     string
	OdooTimeoutMs    int
	OdooRateLimitRPS int
	FetchLimit       int

	SnapshotRefreshInterval time.Duration
	SnapshotPreload         []string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		OdooURL:          strings.TrimRight(getEnv("ODOO_URL", "http://localhost:8069"), "/"),
		OdooDB:           getEnv("ODOO_DB", ""),
		OdooUser:         getEnv("ODOO_USER", ""),
		OdooPassword:     getEnv("ODOO_PASSWORD", ""),
		OdooTimeoutMs:    getEnvInt("ODOO_TIMEOUT_MS", 30000),
		OdooRateLimitRPS: getEnvInt("ODOO_RATE_LIMIT_RPS", 10),
		FetchLimit:       getEnvInt("FETCH_LIMIT", 0),

		SnapshotRefreshInterval: getEnvDuration("SNAPSHOT_REFRESH_INTERVAL", 5*time.Minute),
		SnapshotPreload:         getEnvList("SNAPSHOT_PRELOAD"),
	}

	if cfg.FetchLimit < 0 {
		return Config{}, fmt.Errorf("FETCH_LIMIT must not be negative, got %d", cfg.FetchLimit)
	}
	return cfg, nil
}

// IsDevelopment reports whether APP_ENV selects development logging.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// RequireBackend checks the settings the backend client cannot work without.
func (c Config) RequireBackend() error {
	for _, kv := range [][2]string{
		{"ODOO_URL", c.OdooURL},
		{"ODOO_DB", c.OdooDB},
		{"ODOO_USER", c.OdooUser},
		{"ODOO_PASSWORD", c.OdooPassword},
	} {
		if err := c.Require(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
