package fantasy

import (
	"context"
	"log/slog"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/api/sleeper"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type API struct {
	sleeperAPI *sleeper.API
	settings   analysis.Settings
	rules      analysis.ScoringRules
}

func NewAPI(sleeperAPI *sleeper.API, settings analysis.Settings, rules analysis.ScoringRules) *API {
	if settings.SeasonLength <= 0 {
		settings.SeasonLength = analysis.DefaultSettings().SeasonLength
	}
	if len(rules) == 0 {
		rules = analysis.DefaultScoringRules()
	}
	return &API{sleeperAPI: sleeperAPI, settings: settings, rules: rules}
}

func (a *API) LeagueID() string {
	return a.sleeperAPI.LeagueID()
}

// LoadSnapshot fetches the whole regular season and assembles it into one
// LeagueData. Weekly endpoints are fetched in order, one week at a time.
func (a *API) LoadSnapshot(ctx context.Context) (*models.LeagueData, error) {
	league, err := a.sleeperAPI.GetLeague(ctx)
	if err != nil {
		return nil, err
	}
	users, err := a.sleeperAPI.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	rosters, err := a.sleeperAPI.GetRosters(ctx)
	if err != nil {
		return nil, err
	}

	lastWeek := a.lastRegularWeek(league)
	b := newSnapshotBuilder(league, users, rosters, a.rules, lastWeek)

	for week := 1; week <= lastWeek; week++ {
		matchups, err := a.sleeperAPI.GetMatchups(ctx, week)
		if err != nil {
			return nil, err
		}
		b.addMatchups(week, matchups)

		transactions, err := a.sleeperAPI.GetTransactions(ctx, week)
		if err != nil {
			return nil, err
		}
		b.addTransactions(transactions)

		stats, err := a.sleeperAPI.GetWeeklyStats(ctx, league.Season, week)
		if err != nil {
			return nil, err
		}
		b.addWeeklyStats(week, stats)
	}

	if league.DraftID != "" {
		picks, err := a.sleeperAPI.GetDraftPicks(ctx, league.DraftID)
		if err != nil {
			return nil, err
		}
		b.addDraft(picks)
	}

	players, err := a.sleeperAPI.GetPlayers(ctx)
	if err != nil {
		return nil, err
	}

	data := b.build(players)
	data.FetchedAt = time.Now()

	slog.Info("Loaded league snapshot",
		"league", data.LeagueID,
		"season", data.Season,
		"weeks", lastWeek,
		"teams", len(data.Rosters),
		"players", len(data.PlayerStats),
	)
	return data, nil
}

// lastRegularWeek stops at the configured season length, the week before
// the playoffs, or the last scored week, whichever comes first.
func (a *API) lastRegularWeek(league *models.SleeperLeague) int {
	last := a.settings.SeasonLength
	if start := league.Settings.PlayoffWeekStart; start > 1 {
		last = min(last, start-1)
	}
	if scored := league.Settings.LastScoredLeg; scored > 0 {
		last = min(last, scored)
	}
	return last
}
