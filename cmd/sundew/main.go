// Sundew deception server - serves persona-shaped trap endpoints and
// classifies the traffic they attract.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sundew-sh/sundew/pkg/api"
	"github.com/sundew-sh/sundew/pkg/config"
	"github.com/sundew-sh/sundew/pkg/llm"
	"github.com/sundew-sh/sundew/pkg/persona"
	"github.com/sundew-sh/sundew/pkg/session"
	"github.com/sundew-sh/sundew/pkg/storage"
	"github.com/sundew-sh/sundew/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("SUNDEW_CONFIG", "./sundew.yaml"),
		"Path to configuration file")
	flag.Parse()

	// Load .env from the config file's directory so secrets (LLM API keys)
	// can be referenced from the YAML via ${VAR} expansion.
	envPath := filepath.Join(filepath.Dir(*configPath), ".env")
	if err := godotenv.Load(envPath); err == nil {
		log.Printf("Loaded environment from %s", envPath)
	}

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configPath)
	if err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}

	setupLogging(cfg.Logging)
	slog.Info("starting sundew", "version", version.Full(), "addr", cfg.Addr())

	p := persona.Resolve(cfg.Persona)
	slog.Info("loaded persona",
		"company", p.CompanyName,
		"industry", p.Industry,
		"data_theme", p.DataTheme,
		"endpoint_prefix", p.EndpointPrefix)

	dataDir := filepath.Dir(cfg.Storage.Database)

	// Save the generated identity so it can be reused by pointing the persona
	// setting at this file; a later start with "auto" generates a new one.
	if cfg.Persona == "" || cfg.Persona == "auto" {
		if err := persona.SaveToYAML(p, filepath.Join(dataDir, "persona.yaml")); err != nil {
			slog.Warn("failed to persist generated persona", "error", err)
		}
	}

	engine := persona.NewEngine(p, llm.New(cfg.LLM), dataDir)
	if err := engine.Initialize(ctx, cfg.LLM); err != nil {
		log.Fatalf("Failed to initialize template engine: %v", err)
	}

	store, err := storage.Open(cfg.Storage.Database, cfg.Storage.LogFile, cfg.Storage.SessionWindow())
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("error closing storage", "error", err)
		}
	}()

	sessions := session.NewManager(store)

	server := api.NewServer(cfg, p, engine, store, sessions)
	if err := server.ValidateWiring(); err != nil {
		log.Fatalf("Server wiring incomplete: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("graceful shutdown failed", "error", err)
	}
}

// setupLogging configures the process-wide structured logger from the
// logging section of the configuration.
func setupLogging(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Output == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
