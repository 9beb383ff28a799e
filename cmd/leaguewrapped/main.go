package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/leaguewrapped/internal/api/fantasy"
	"github.com/omarshaarawi/leaguewrapped/internal/api/sleeper"
	"github.com/omarshaarawi/leaguewrapped/internal/bot"
	"github.com/omarshaarawi/leaguewrapped/internal/config"
	"github.com/omarshaarawi/leaguewrapped/internal/publisher"
	"github.com/omarshaarawi/leaguewrapped/internal/repository/memory"
	"github.com/omarshaarawi/leaguewrapped/internal/scheduler"
	"github.com/omarshaarawi/leaguewrapped/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
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
	if cfg.TelegramBot.Token == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	rules, err := config.LoadScoringRules(cfg.Analysis.ScoringFile)
	if err != nil {
		return err
	}
	settings := cfg.Analysis.Settings()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sleeperAPI := sleeper.NewAPI(sleeper.NewClient(cfg.Sleeper))
	fantasyAPI := fantasy.NewAPI(sleeperAPI, settings, rules)

	repo := memory.NewRepository()
	wrappedService := service.NewWrappedService(fantasyAPI, repo, settings, rules)

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		wrappedService.WithPublisher(publisher.NewRedisPublisher(redisClient, cfg.Redis.Stream))
		slog.Info("Publishing reports to Redis", "addr", cfg.Redis.Addr, "stream", cfg.Redis.Stream)
	}

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, wrappedService)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(wrappedService, telegramBot.SendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(":80", nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
