package sleeper

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) LeagueID() string {
	return a.client.Config.LeagueID
}

func (a *API) GetLeague(ctx context.Context) (*models.SleeperLeague, error) {
	var league models.SleeperLeague
	if err := a.client.Get(ctx, fmt.Sprintf("/league/%s", a.LeagueID()), &league); err != nil {
		return nil, fmt.Errorf("fetching league: %w", err)
	}
	return &league, nil
}

func (a *API) GetUsers(ctx context.Context) ([]models.SleeperUser, error) {
	var users []models.SleeperUser
	if err := a.client.Get(ctx, fmt.Sprintf("/league/%s/users", a.LeagueID()), &users); err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	return users, nil
}

func (a *API) GetRosters(ctx context.Context) ([]models.SleeperRoster, error) {
	var rosters []models.SleeperRoster
	if err := a.client.Get(ctx, fmt.Sprintf("/league/%s/rosters", a.LeagueID()), &rosters); err != nil {
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}
	return rosters, nil
}

func (a *API) GetMatchups(ctx context.Context, week int) ([]models.SleeperMatchup, error) {
	var matchups []models.SleeperMatchup
	if err := a.client.Get(ctx, fmt.Sprintf("/league/%s/matchups/%d", a.LeagueID(), week), &matchups); err != nil {
		return nil, fmt.Errorf("fetching matchups for week %d: %w", week, err)
	}
	return matchups, nil
}

func (a *API) GetTransactions(ctx context.Context, week int) ([]models.SleeperTransaction, error) {
	var transactions []models.SleeperTransaction
	if err := a.client.Get(ctx, fmt.Sprintf("/league/%s/transactions/%d", a.LeagueID(), week), &transactions); err != nil {
		return nil, fmt.Errorf("fetching transactions for week %d: %w", week, err)
	}
	return transactions, nil
}

func (a *API) GetDraftPicks(ctx context.Context, draftID string) ([]models.SleeperDraftPick, error) {
	var picks []models.SleeperDraftPick
	if err := a.client.Get(ctx, fmt.Sprintf("/draft/%s/picks", draftID), &picks); err != nil {
		return nil, fmt.Errorf("fetching draft picks: %w", err)
	}
	return picks, nil
}

func (a *API) GetWeeklyStats(ctx context.Context, season string, week int) (models.WeeklyStats, error) {
	var stats models.WeeklyStats
	if err := a.client.Get(ctx, fmt.Sprintf("/stats/nfl/regular/%s/%d", season, week), &stats); err != nil {
		return nil, fmt.Errorf("fetching stats for week %d: %w", week, err)
	}
	return stats, nil
}

// GetPlayers returns the full NFL player directory keyed by player id. The
// payload is several megabytes, so callers should cache it.
func (a *API) GetPlayers(ctx context.Context) (map[string]models.SleeperPlayer, error) {
	var players map[string]models.SleeperPlayer
	if err := a.client.Get(ctx, "/players/nfl", &players); err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	return players, nil
}
