package analysis

import (
	"slices"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type PickValue struct {
	PlayerID          string  `json:"player_id"`
	Round             int     `json:"round"`
	Slot              int     `json:"slot"`
	ExpectedPoints    float64 `json:"expected_points"`
	ActualPoints      float64 `json:"actual_points"`
	ValueOverExpected float64 `json:"value_over_expected"`
}

type DraftTeam struct {
	TeamID                 string      `json:"team_id"`
	TotalValueOverExpected float64     `json:"total_value_over_expected"`
	PicksAnalyzed          int         `json:"picks_analyzed"`
	MissingStats           int         `json:"missing_stats"`
	RetainedPicks          int         `json:"retained_picks"`
	SuccessfulStarters     int         `json:"successful_starters"`
	BestPicks              []PickValue `json:"best_picks"`
	WorstPicks             []PickValue `json:"worst_picks"`
}

type DraftReport struct {
	Teams     map[string]*DraftTeam `json:"teams"`
	Dimension Dimension             `json:"dimension"`
}

type DraftAnalyzer struct {
	values *ValueModel
}

func NewDraftAnalyzer(values *ValueModel) *DraftAnalyzer {
	return &DraftAnalyzer{values: values}
}

// Analyze scores every pick against its draft-slot expectation. Picks for
// players without stats are counted but kept out of the totals and lists.
func (a *DraftAnalyzer) Analyze(data *models.LeagueData) (*DraftReport, error) {
	settings := a.values.Settings()
	rosters := rostersByTeam(data)

	teams := make(map[string]*DraftTeam, len(rosters))
	best := make(map[string]*TopK[PickValue], len(rosters))
	worst := make(map[string]*TopK[PickValue], len(rosters))
	for teamID := range rosters {
		teams[teamID] = &DraftTeam{TeamID: teamID}
		best[teamID] = NewTopK(settings.TopK, pickKey, true)
		worst[teamID] = NewTopK(settings.TopK, pickKey, false)
	}

	for _, pick := range data.Draft {
		team, ok := teams[pick.TeamID]
		if !ok {
			return nil, malformed(pick.TeamID, 0, "draft pick %d.%d by unknown team", pick.Round, pick.Slot)
		}
		stats, ok := data.PlayerStats[pick.PlayerID]
		if !ok || stats == nil {
			team.MissingStats++
			continue
		}

		expected := a.values.ExpectedDraftValue(pick.Round, pick.Slot)
		actual := a.values.SeasonPoints(stats)
		pv := PickValue{
			PlayerID:          pick.PlayerID,
			Round:             pick.Round,
			Slot:              pick.Slot,
			ExpectedPoints:    expected,
			ActualPoints:      actual,
			ValueOverExpected: actual - expected,
		}

		team.PicksAnalyzed++
		team.TotalValueOverExpected += pv.ValueOverExpected
		best[pick.TeamID].Insert(pv)
		worst[pick.TeamID].Insert(pv)

		if slices.Contains(rosters[pick.TeamID].Players, pick.PlayerID) {
			team.RetainedPicks++
		}
		if startedEnough(stats, 1, settings) {
			team.SuccessfulStarters++
		}
	}

	results := make([]Result, 0, len(teams))
	for teamID, team := range teams {
		team.BestPicks = best[teamID].Items()
		team.WorstPicks = worst[teamID].Items()
		results = append(results, Result{
			TeamID: teamID,
			Score:  team.TotalValueOverExpected,
			Metrics: map[string]float64{
				"totalValueOverExpected": team.TotalValueOverExpected,
				"picksAnalyzed":          float64(team.PicksAnalyzed),
				"missingStats":           float64(team.MissingStats),
				"retainedPicks":          float64(team.RetainedPicks),
				"successfulStarters":     float64(team.SuccessfulStarters),
			},
		})
	}

	return &DraftReport{
		Teams:     teams,
		Dimension: Dimension{Name: DimensionDraft, Results: Rank(results)},
	}, nil
}

func pickKey(p PickValue) float64 {
	return p.ValueOverExpected
}

// startedEnough reports whether the player started in at least the starter
// threshold share of weeks from week `from` onward.
func startedEnough(stats *models.PlayerStats, from int, settings Settings) bool {
	last := min(len(stats.WeeklyPoints), settings.SeasonLength)
	weeks := last - from + 1
	if weeks <= 0 {
		return false
	}
	started := 0
	for _, w := range stats.StartingWeeks {
		if w >= from && w <= last {
			started++
		}
	}
	return float64(started)/float64(weeks) >= settings.StarterThreshold
}

func rostersByTeam(data *models.LeagueData) map[string]models.Roster {
	rosters := make(map[string]models.Roster, len(data.Rosters))
	for _, r := range data.Rosters {
		rosters[r.TeamID] = r
	}
	return rosters
}
