package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/leaguewrapped/internal/api/fantasy"
	"github.com/omarshaarawi/leaguewrapped/internal/api/sleeper"
	"github.com/omarshaarawi/leaguewrapped/internal/config"
	"github.com/omarshaarawi/leaguewrapped/internal/mcptools"
	"github.com/omarshaarawi/leaguewrapped/internal/repository/memory"
	"github.com/omarshaarawi/leaguewrapped/internal/service"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Error running MCP server", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	if cfg.MCP.RequireAuth && cfg.MCP.APIKey == "" {
		return errors.New("MCP_API_KEY is required (set it or MCP_REQUIRE_AUTH=false)")
	}

	rules, err := config.LoadScoringRules(cfg.Analysis.ScoringFile)
	if err != nil {
		return err
	}
	settings := cfg.Analysis.Settings()

	sleeperAPI := sleeper.NewAPI(sleeper.NewClient(cfg.Sleeper))
	fantasyAPI := fantasy.NewAPI(sleeperAPI, settings, rules)
	wrappedService := service.NewWrappedService(fantasyAPI, memory.NewRepository(), settings, rules)

	server, tools := mcptools.NewServer(wrappedService, version)
	apiKey := cfg.MCP.APIKey
	if !cfg.MCP.RequireAuth {
		apiKey = ""
	}

	httpServer := &http.Server{
		Addr:    cfg.MCP.Addr,
		Handler: mcptools.NewHandler(server, tools, apiKey),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("MCP HTTP server listening", "addr", cfg.MCP.Addr, "tools", len(tools.Registry()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
