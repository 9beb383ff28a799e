package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const jobTimeout = 5 * time.Minute

// Reporter is the part of the wrapped service the weekly jobs need.
type Reporter interface {
	Refresh(ctx context.Context) (string, error)
	GetLuckReport(ctx context.Context) (string, error)
	GetWrapped(ctx context.Context) (string, error)
	PublishReport(ctx context.Context) error
}

type Scheduler struct {
	s           gocron.Scheduler
	reporter    Reporter
	sendMessage func(string) error
}

func NewScheduler(reporter Reporter, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation("America/Chicago")
	if err != nil {
		slog.Error("Failed to load location", "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		reporter:    reporter,
		sendMessage: sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Refresh after Monday night football - Tuesday 7:30 CDT
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 30, 0))),
		gocron.NewTask(s.refresh),
		gocron.WithName("refresh"),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	// Luck recap - Tuesday 8:00 CDT
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(s.sendLuckRecap),
		gocron.WithName("luck-recap"),
	)
	if err != nil {
		return fmt.Errorf("failed to create luck recap job: %w", err)
	}

	// Wrapped summary - Wednesday 8:00 CDT
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Wednesday), gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(s.sendWrapped),
		gocron.WithName("wrapped"),
	)
	if err != nil {
		return fmt.Errorf("failed to create wrapped job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.reporter.Refresh(ctx); err != nil {
		slog.Error("Failed to refresh snapshot", "error", err)
	}
}

func (s *Scheduler) sendLuckRecap() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.reporter.GetLuckReport(ctx)
	if err != nil {
		slog.Error("Failed to get luck report", "error", err)
		return
	}
	s.sendMessage(report)
}

func (s *Scheduler) sendWrapped() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.reporter.GetWrapped(ctx)
	if err != nil {
		slog.Error("Failed to get wrapped report", "error", err)
		return
	}
	s.sendMessage(report)

	// Log but don't fail - the chat already has the summary
	if err := s.reporter.PublishReport(ctx); err != nil {
		slog.Error("Failed to publish report", "error", err)
	}
}
