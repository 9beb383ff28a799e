package analysis

import (
	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type Pickup struct {
	PlayerID  string  `json:"player_id"`
	Week      int     `json:"week"`
	Points    float64 `json:"points"`
	FAABSpent float64 `json:"faab_spent"`
}

type WaiverTeam struct {
	TeamID            string   `json:"team_id"`
	TotalWaiverPoints float64  `json:"total_waiver_points"`
	PickupCount       int      `json:"pickup_count"`
	MissingStats      int      `json:"missing_stats"`
	StarterPickups    int      `json:"starter_pickups"`
	FAABSpent         float64  `json:"faab_spent"`
	FAABEfficiency    float64  `json:"faab_efficiency"`
	BestPickups       []Pickup `json:"best_pickups"`
}

type WaiverReport struct {
	Teams     map[string]*WaiverTeam `json:"teams"`
	Dimension Dimension              `json:"dimension"`
}

type WaiverAnalyzer struct {
	values *ValueModel
}

func NewWaiverAnalyzer(values *ValueModel) *WaiverAnalyzer {
	return &WaiverAnalyzer{values: values}
}

// Analyze credits each completed waiver add with the points the player scored
// from the pickup week through season end.
func (a *WaiverAnalyzer) Analyze(data *models.LeagueData) (*WaiverReport, error) {
	settings := a.values.Settings()

	teams := make(map[string]*WaiverTeam, len(data.Rosters))
	best := make(map[string]*TopK[Pickup], len(data.Rosters))
	for _, r := range data.Rosters {
		teams[r.TeamID] = &WaiverTeam{TeamID: r.TeamID}
		best[r.TeamID] = NewTopK(settings.TopK, pickupKey, true)
	}

	for _, tx := range data.Transactions {
		if tx.Type != models.TransactionWaiver || tx.Status != models.StatusComplete {
			continue
		}
		team, ok := teams[tx.TeamID]
		if !ok {
			return nil, malformed(tx.TeamID, 0, "waiver %s by unknown team", tx.ID)
		}

		week := a.values.TransactionWeek(tx)
		team.FAABSpent += tx.FAABSpent
		perPlayerFAAB := 0.0
		if len(tx.Adds) > 0 {
			perPlayerFAAB = tx.FAABSpent / float64(len(tx.Adds))
		}

		for _, playerID := range tx.Adds {
			team.PickupCount++
			stats, ok := data.PlayerStats[playerID]
			if !ok || stats == nil {
				team.MissingStats++
				continue
			}

			pickup := Pickup{
				PlayerID:  playerID,
				Week:      week,
				Points:    a.values.pointsFromWeek(stats, week),
				FAABSpent: perPlayerFAAB,
			}
			team.TotalWaiverPoints += pickup.Points
			best[tx.TeamID].Insert(pickup)

			if startedEnough(stats, week, settings) {
				team.StarterPickups++
			}
		}
	}

	results := make([]Result, 0, len(teams))
	for teamID, team := range teams {
		team.BestPickups = best[teamID].Items()
		if team.FAABSpent > 0 {
			team.FAABEfficiency = team.TotalWaiverPoints / team.FAABSpent
		}
		results = append(results, Result{
			TeamID: teamID,
			Score:  team.TotalWaiverPoints,
			Metrics: map[string]float64{
				"totalWaiverPoints": team.TotalWaiverPoints,
				"pickupCount":       float64(team.PickupCount),
				"missingStats":      float64(team.MissingStats),
				"starterPickups":    float64(team.StarterPickups),
				"faabSpent":         team.FAABSpent,
				"faabEfficiency":    team.FAABEfficiency,
			},
		})
	}

	return &WaiverReport{
		Teams:     teams,
		Dimension: Dimension{Name: DimensionWaivers, Results: Rank(results)},
	}, nil
}

func pickupKey(p Pickup) float64 {
	return p.Points
}
