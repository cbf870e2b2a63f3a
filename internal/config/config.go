// Package config reads ShareIt's settings from the environment.
//
// Both binaries call godotenv.Load first, so a local .env file fills in
// anything the real environment leaves unset.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port   int    // PORT: API server listen port
	DBPath string // DB_PATH

	LogLevel  slog.Level // LOG_LEVEL: debug, info, warn, error
	LogFormat string     // LOG_FORMAT: text or json

	// KAFKA_BROKERS is a comma-separated list. Empty means booking events
	// go to the log instead.
	KafkaBrokers []string
	KafkaTopic   string

	GatewayPort int    // GATEWAY_PORT
	ServerURL   string // SERVER_URL: where the gateway forwards to
}

// Load reads the environment, applying defaults for unset keys. Every
// malformed value is reported in one error.
func Load() (Config, error) {
	cfg := Config{
		DBPath:       getenv("DB_PATH", "data/shareit.db"),
		LogFormat:    strings.ToLower(getenv("LOG_FORMAT", "text")),
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "shareit.bookings"),
		ServerURL:    strings.TrimRight(getenv("SERVER_URL", "http://localhost:8080"), "/"),
	}

	var invalid []string

	var err error
	if cfg.Port, err = portFrom("PORT", 8080); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.GatewayPort, err = portFrom("GATEWAY_PORT", 9090); err != nil {
		invalid = append(invalid, err.Error())
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		invalid = append(invalid, fmt.Sprintf("LOG_LEVEL=%q", os.Getenv("LOG_LEVEL")))
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		invalid = append(invalid, fmt.Sprintf("LOG_FORMAT=%q", cfg.LogFormat))
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// Logger builds the process logger: a text handler for development, JSON
// when LOG_FORMAT=json.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func portFrom(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("%s=%q", key, raw)
	}
	return port, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
