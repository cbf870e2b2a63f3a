// Package main is the entry point for the ShareIt API server.
//
// main only reads configuration, builds the logger and the event publisher,
// and starts the server. Everything else lives under internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/shareit/internal/config"
	"github.com/sakif/shareit/internal/events"
	"github.com/sakif/shareit/internal/server"
)

func main() {
	// A missing .env is fine; the real environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)

	if cfg.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// Booking events go to Kafka when brokers are configured, otherwise to
	// the log.
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, 256, logger)
		logger.Info("publishing booking events to kafka",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaTopic),
		)
	} else {
		publisher = events.NewLogPublisher(logger)
		logger.Warn("KAFKA_BROKERS not set, booking events are only logged")
	}
	defer publisher.Close()

	srv, err := server.New(server.Config{Port: cfg.Port, DBPath: cfg.DBPath}, logger, publisher, nil)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		publisher.Close()
		os.Exit(1)
	}
}
