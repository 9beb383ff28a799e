package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
	"github.com/omarshaarawi/leaguewrapped/internal/repository/memory"
)

const snapshotTTL = 24 * time.Hour

// SnapshotSource loads a full season of league data.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context) (*models.LeagueData, error)
}

// ReportPublisher pushes a finished report to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, report *analysis.Report) error
}

type WrappedService struct {
	source    SnapshotSource
	repo      *memory.Repository
	settings  analysis.Settings
	rules     analysis.ScoringRules
	publisher ReportPublisher
}

func NewWrappedService(source SnapshotSource, repo *memory.Repository, settings analysis.Settings, rules analysis.ScoringRules) *WrappedService {
	return &WrappedService{source: source, repo: repo, settings: settings, rules: rules}
}

// WithPublisher enables PublishReport. A nil publisher disables it.
func (s *WrappedService) WithPublisher(p ReportPublisher) *WrappedService {
	s.publisher = p
	return s
}

func (s *WrappedService) getSnapshot(ctx context.Context) (*models.LeagueData, error) {
	data, updated := s.repo.GetSnapshot()
	if data == nil || time.Since(updated) > snapshotTTL {
		return s.reload(ctx)
	}
	return data, nil
}

func (s *WrappedService) reload(ctx context.Context) (*models.LeagueData, error) {
	data, err := s.source.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading league snapshot: %w", err)
	}
	changed := s.repo.SaveSnapshot(data)
	slog.Info("Snapshot refreshed", "league", data.LeagueID, "changed", changed)
	return data, nil
}

// Analyzer builds a fresh analyzer over the cached snapshot.
func (s *WrappedService) Analyzer(ctx context.Context) (*analysis.LeagueAnalyzer, error) {
	data, err := s.getSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.NewLeagueAnalyzer(data, s.settings, s.rules)
}

func (s *WrappedService) Report(ctx context.Context) (*analysis.Report, *models.LeagueData, error) {
	analyzer, err := s.Analyzer(ctx)
	if err != nil {
		return nil, nil, err
	}
	report, err := analyzer.Analyze()
	if err != nil {
		return nil, nil, fmt.Errorf("error analyzing league: %w", err)
	}
	return report, analyzer.Data(), nil
}

func (s *WrappedService) Refresh(ctx context.Context) (string, error) {
	data, err := s.reload(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🔄 Reloaded *%s* (%d teams, %d matchups, %d transactions)",
		leagueTitle(data), len(data.Rosters), len(data.Matchups), len(data.Transactions)), nil
}

func (s *WrappedService) GetWrapped(ctx context.Context) (string, error) {
	report, data, err := s.Report(ctx)
	if err != nil {
		return "", err
	}
	return formatWrapped(report, data), nil
}

func (s *WrappedService) GetDraftReport(ctx context.Context) (string, error) {
	analyzer, err := s.Analyzer(ctx)
	if err != nil {
		return "", err
	}
	report, err := analyzer.DraftValue()
	if err != nil {
		return "", fmt.Errorf("error analyzing draft: %w", err)
	}
	return formatDraft(report, analyzer.Data()), nil
}

func (s *WrappedService) GetWaiverReport(ctx context.Context) (string, error) {
	analyzer, err := s.Analyzer(ctx)
	if err != nil {
		return "", err
	}
	report, err := analyzer.WaiverValue()
	if err != nil {
		return "", fmt.Errorf("error analyzing waivers: %w", err)
	}
	return formatWaivers(report, analyzer.Data()), nil
}

func (s *WrappedService) GetTradeReport(ctx context.Context) (string, error) {
	analyzer, err := s.Analyzer(ctx)
	if err != nil {
		return "", err
	}
	report, err := analyzer.TradeValue()
	if err != nil {
		return "", fmt.Errorf("error analyzing trades: %w", err)
	}
	return formatTrades(report, analyzer.Data()), nil
}

func (s *WrappedService) GetInjuryReport(ctx context.Context) (string, error) {
	analyzer, err := s.Analyzer(ctx)
	if err != nil {
		return "", err
	}
	report, err := analyzer.InjuryImpact()
	if err != nil {
		return "", fmt.Errorf("error analyzing injuries: %w", err)
	}
	return formatInjuries(report, analyzer.Data()), nil
}

func (s *WrappedService) GetLuckReport(ctx context.Context) (string, error) {
	analyzer, err := s.Analyzer(ctx)
	if err != nil {
		return "", err
	}
	report, err := analyzer.MatchupLuck()
	if err != nil {
		return "", fmt.Errorf("error analyzing matchup luck: %w", err)
	}
	return formatLuck(report, analyzer.Data()), nil
}

func (s *WrappedService) GetLineupReport(ctx context.Context) (string, error) {
	analyzer, err := s.Analyzer(ctx)
	if err != nil {
		return "", err
	}
	report, err := analyzer.LineupEfficiency()
	if err != nil {
		return "", fmt.Errorf("error analyzing lineups: %w", err)
	}
	return formatLineups(report, analyzer.Data()), nil
}

func (s *WrappedService) GetTeamReport(ctx context.Context, teamName string) (string, error) {
	report, data, err := s.Report(ctx)
	if err != nil {
		return "", err
	}
	teamID, ok := findTeam(data, teamName)
	if !ok {
		return fmt.Sprintf("🔍 No team found matching '%s'.", teamName), nil
	}
	return formatTeam(report, data, teamID), nil
}

// PublishReport sends the full report once per distinct snapshot.
func (s *WrappedService) PublishReport(ctx context.Context) error {
	if s.publisher == nil {
		return nil
	}
	report, data, err := s.Report(ctx)
	if err != nil {
		return err
	}

	fingerprint := data.Fingerprint()
	if s.repo.Published(fingerprint) {
		slog.Info("Report already published for snapshot", "fingerprint", fingerprint)
		return nil
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		return fmt.Errorf("error publishing report: %w", err)
	}
	s.repo.MarkPublished(fingerprint)
	return nil
}
