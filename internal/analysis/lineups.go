package analysis

import (
	"slices"
	"sort"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

var flexEligibility = map[string][]string{
	"FLEX":       {"RB", "WR", "TE"},
	"SUPER_FLEX": {"QB", "RB", "WR", "TE"},
	"REC_FLEX":   {"WR", "TE"},
	"WRRB_FLEX":  {"RB", "WR"},
	"IDP_FLEX":   {"DL", "LB", "DB"},
}

var benchSlots = map[string]bool{"BN": true, "IR": true, "TAXI": true}

type LineupWeek struct {
	Week          int     `json:"week"`
	ActualPoints  float64 `json:"actual_points"`
	OptimalPoints float64 `json:"optimal_points"`
	PointsOnBench float64 `json:"points_on_bench"`
}

type LineupTeam struct {
	TeamID            string       `json:"team_id"`
	ActualPoints      float64      `json:"actual_points"`
	OptimalPoints     float64      `json:"optimal_points"`
	PointsLeftOnBench float64      `json:"points_left_on_bench"`
	Efficiency        float64      `json:"efficiency"`
	WeeksAnalyzed     int          `json:"weeks_analyzed"`
	PerfectWeeks      int          `json:"perfect_weeks"`
	WorstWeeks        []LineupWeek `json:"worst_weeks"`
}

type LineupReport struct {
	Teams     map[string]*LineupTeam `json:"teams"`
	Dimension Dimension              `json:"dimension"`
}

type LineupAnalyzer struct {
	settings Settings
}

func NewLineupAnalyzer(settings Settings) *LineupAnalyzer {
	return &LineupAnalyzer{settings: settings.withDefaults()}
}

// Analyze compares each started lineup with the best lineup the team could
// have set from the same roster that week. Weeks without per-player points
// are skipped.
func (a *LineupAnalyzer) Analyze(data *models.LeagueData) (*LineupReport, error) {
	teams := make(map[string]*LineupTeam, len(data.Rosters))
	worst := make(map[string]*TopK[LineupWeek], len(data.Rosters))
	for _, r := range data.Rosters {
		teams[r.TeamID] = &LineupTeam{TeamID: r.TeamID}
		worst[r.TeamID] = NewTopK(a.settings.TopK, benchKey, true)
	}

	slots := orderedSlots(data.RosterSlots)
	for _, m := range data.Matchups {
		team, ok := teams[m.TeamID]
		if !ok {
			return nil, malformed(m.TeamID, m.Week, "matchup for unknown team")
		}
		if len(m.PlayerPoints) == 0 || len(m.Starters) == 0 {
			continue
		}

		lw := LineupWeek{Week: m.Week}
		for _, starter := range m.Starters {
			lw.ActualPoints += m.PlayerPoints[starter]
		}
		lw.OptimalPoints = optimalLineup(m, slots, data.PlayerStats)
		if lw.OptimalPoints <= 0 {
			continue
		}
		if lw.OptimalPoints < lw.ActualPoints {
			lw.OptimalPoints = lw.ActualPoints
		}
		lw.PointsOnBench = lw.OptimalPoints - lw.ActualPoints

		team.WeeksAnalyzed++
		team.ActualPoints += lw.ActualPoints
		team.OptimalPoints += lw.OptimalPoints
		team.PointsLeftOnBench += lw.PointsOnBench
		if lw.PointsOnBench < 1e-9 {
			team.PerfectWeeks++
		}
		worst[m.TeamID].Insert(lw)
	}

	results := make([]Result, 0, len(teams))
	for teamID, team := range teams {
		team.WorstWeeks = worst[teamID].Items()
		if team.OptimalPoints > 0 {
			team.Efficiency = team.ActualPoints / team.OptimalPoints
		}
		results = append(results, Result{
			TeamID: teamID,
			Score:  team.Efficiency,
			Metrics: map[string]float64{
				"efficiency":        team.Efficiency,
				"pointsLeftOnBench": team.PointsLeftOnBench,
				"actualPoints":      team.ActualPoints,
				"optimalPoints":     team.OptimalPoints,
				"weeksAnalyzed":     float64(team.WeeksAnalyzed),
				"perfectWeeks":      float64(team.PerfectWeeks),
			},
		})
	}

	return &LineupReport{
		Teams:     teams,
		Dimension: Dimension{Name: DimensionLineups, Results: Rank(results)},
	}, nil
}

func benchKey(w LineupWeek) float64 {
	return w.PointsOnBench
}

// orderedSlots drops bench slots and puts the most restrictive slots first so
// flex spots are filled from what remains.
func orderedSlots(rosterSlots []string) []string {
	slots := make([]string, 0, len(rosterSlots))
	for _, s := range rosterSlots {
		if !benchSlots[s] {
			slots = append(slots, s)
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return len(eligiblePositions(slots[i])) < len(eligiblePositions(slots[j]))
	})
	return slots
}

func eligiblePositions(slot string) []string {
	if positions, ok := flexEligibility[slot]; ok {
		return positions
	}
	return []string{slot}
}

// optimalLineup fills each slot greedily with the highest-scoring unused
// eligible player. Without slot configuration it takes the top N scorers,
// where N is the number of starters.
func optimalLineup(m models.Matchup, slots []string, playerStats map[string]*models.PlayerStats) float64 {
	players := append([]string(nil), m.Players...)
	if len(players) == 0 {
		players = append(players, m.Starters...)
	}
	sort.SliceStable(players, func(i, j int) bool {
		return m.PlayerPoints[players[i]] > m.PlayerPoints[players[j]]
	})

	var total float64
	if len(slots) == 0 {
		for i := 0; i < min(len(m.Starters), len(players)); i++ {
			total += m.PlayerPoints[players[i]]
		}
		return total
	}

	used := make(map[string]bool, len(players))
	for _, slot := range slots {
		eligible := eligiblePositions(slot)
		for _, playerID := range players {
			if used[playerID] {
				continue
			}
			stats := playerStats[playerID]
			if stats == nil || !slices.Contains(eligible, stats.Position) {
				continue
			}
			used[playerID] = true
			total += m.PlayerPoints[playerID]
			break
		}
	}
	return total
}
