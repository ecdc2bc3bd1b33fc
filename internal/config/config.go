package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort      string
	DatabaseDSN   string
	JWTSecret     string
	CORSOrigins   string
	LogLevel      string
	Timezone      string // IANA zone that decides what "today" is on the route
	TxMaxRetries  int    // retries on serialization failure before giving up
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=routeledger port=5432 sslmode=disable"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Timezone:      getEnv("TIMEZONE", "Local"),
		TxMaxRetries:  getEnvInt("TX_MAX_RETRIES", 3),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		log.Fatalf("[FATAL] TIMEZONE %q is not a valid IANA zone: %v", cfg.Timezone, err)
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=routeledger port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value")
	}
	if cfg.AdminPassword == "" {
		log.Println("[WARN] ADMIN_PASSWORD is not set, no admin user will be created")
	}

	return cfg
}

// Location returns the configured zone; Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[WARN] %s=%q is not a non-negative integer, using %d", key, v, def)
		return def
	}
	return n
}
