package analysis

import (
	"sort"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type InjuryDetail struct {
	PlayerID     string  `json:"player_id"`
	InjuryStatus string  `json:"injury_status,omitempty"`
	GamesLost    int     `json:"games_lost"`
	PointsLost   float64 `json:"points_lost"`
	Starter      bool    `json:"starter"`
}

type InjuryTeam struct {
	TeamID          string         `json:"team_id"`
	GamesLost       int            `json:"games_lost"`
	PointsLost      float64        `json:"points_lost"`
	InjuredPlayers  int            `json:"injured_players"`
	StartersInjured int            `json:"starters_injured"`
	DepthImpact     float64        `json:"depth_impact"`
	Injuries        []InjuryDetail `json:"injuries"`
}

type InjuryReport struct {
	Teams     map[string]*InjuryTeam `json:"teams"`
	Dimension Dimension              `json:"dimension"`
}

type InjuryAnalyzer struct {
	owners OwnerIndex
}

func NewInjuryAnalyzer(owners OwnerIndex) *InjuryAnalyzer {
	return &InjuryAnalyzer{owners: owners}
}

// Analyze estimates what each team lost to currently injured players using
// the player's average points per game played. Teams are ranked by points
// lost, so rank 1 had the worst injury luck.
func (a *InjuryAnalyzer) Analyze(data *models.LeagueData) (*InjuryReport, error) {
	rosters := rostersByTeam(data)
	teams := make(map[string]*InjuryTeam, len(rosters))
	for teamID := range rosters {
		teams[teamID] = &InjuryTeam{TeamID: teamID, Injuries: []InjuryDetail{}}
	}

	playerIDs := make([]string, 0, len(data.PlayerStats))
	for playerID := range data.PlayerStats {
		playerIDs = append(playerIDs, playerID)
	}
	sort.Strings(playerIDs)

	for _, playerID := range playerIDs {
		stats := data.PlayerStats[playerID]
		if stats == nil || !stats.IsInjured {
			continue
		}
		teamID, ok := a.owners.Owner(playerID)
		if !ok {
			continue
		}
		team := teams[teamID]

		detail := InjuryDetail{
			PlayerID:     playerID,
			InjuryStatus: stats.InjuryStatus,
			GamesLost:    len(stats.InjuredWeeks),
			PointsLost:   pointsLost(stats),
		}
		for _, starter := range rosters[teamID].Starters {
			if starter == playerID {
				detail.Starter = true
				team.StartersInjured++
				break
			}
		}

		team.InjuredPlayers++
		team.GamesLost += detail.GamesLost
		team.PointsLost += detail.PointsLost
		team.Injuries = append(team.Injuries, detail)
	}

	results := make([]Result, 0, len(teams))
	for teamID, team := range teams {
		if starters := len(rosters[teamID].Starters); starters > 0 {
			team.DepthImpact = float64(team.StartersInjured) / float64(starters)
		}
		sort.SliceStable(team.Injuries, func(i, j int) bool {
			return team.Injuries[i].PointsLost > team.Injuries[j].PointsLost
		})
		results = append(results, Result{
			TeamID: teamID,
			Score:  team.PointsLost,
			Metrics: map[string]float64{
				"gamesLost":       float64(team.GamesLost),
				"pointsLost":      team.PointsLost,
				"injuredPlayers":  float64(team.InjuredPlayers),
				"startersInjured": float64(team.StartersInjured),
				"depthImpact":     team.DepthImpact,
			},
		})
	}

	return &InjuryReport{
		Teams:     teams,
		Dimension: Dimension{Name: DimensionInjuries, Results: Rank(results)},
	}, nil
}

// pointsLost is an average-per-game estimate, not a measured counterfactual.
// A player who never played has no average and loses nothing.
func pointsLost(stats *models.PlayerStats) float64 {
	if stats.GamesPlayed <= 0 {
		return 0
	}
	return stats.TotalPoints / float64(stats.GamesPlayed) * float64(len(stats.InjuredWeeks))
}
