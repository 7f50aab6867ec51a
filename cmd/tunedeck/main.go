package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sglre6355/tunedeck/internal/bot"
	_ "github.com/sglre6355/tunedeck/internal/modules/info"
	_ "github.com/sglre6355/tunedeck/internal/modules/music_player"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/tunedeck
var version = "dev"

func main() {
	// A .env file is optional; the process environment always wins.
	envErr := godotenv.Load()

	cfg, err := bot.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("starting tunedeck", "version", version)

	if envErr != nil && !os.IsNotExist(envErr) {
		slog.Warn("failed to read .env file", "error", envErr)
	}

	// Create and configure bot
	b := bot.NewBot(cfg)
	if err := b.LoadModules(); err != nil {
		slog.Error("failed to load module config", "error", err)
		os.Exit(1)
	}

	// Start bot
	if err := b.Start(); err != nil {
		slog.Error("failed to start bot", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("received termination signal, shutting down")
	if err := b.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed bot shutdown")
	os.Exit(0)
}
