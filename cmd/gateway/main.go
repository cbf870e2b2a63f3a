// Package main is the entry point for the ShareIt gateway, the validating
// proxy in front of the API server.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/shareit/internal/config"
	"github.com/sakif/shareit/internal/gateway"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)

	gw, err := gateway.New(gateway.Config{Port: cfg.GatewayPort, ServerURL: cfg.ServerURL}, logger, nil)
	if err != nil {
		logger.Error("failed to create gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := gw.Start(); err != nil {
		logger.Error("gateway error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
