package analysis

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
	"github.com/omarshaarawi/leaguewrapped/internal/stats"
)

// WeekOutcome is a concrete lucky win or unlucky loss.
type WeekOutcome struct {
	Week           int     `json:"week"`
	Points         float64 `json:"points"`
	OpponentPoints float64 `json:"opponent_points"`
	MedianScore    float64 `json:"median_score"`
}

// WeekScore marks a season high or low.
type WeekScore struct {
	Week           int     `json:"week"`
	Points         float64 `json:"points"`
	Opponent       string  `json:"opponent"`
	OpponentPoints float64 `json:"opponent_points"`
}

type LuckTeam struct {
	TeamID           string        `json:"team_id"`
	ExpectedWins     float64       `json:"expected_wins"`
	ActualWins       int           `json:"actual_wins"`
	LuckRating       float64       `json:"luck_rating"`
	WeeksCounted     int           `json:"weeks_counted"`
	ScheduleStrength float64       `json:"schedule_strength"`
	CloseGames       int           `json:"close_games"`
	CloseWins        int           `json:"close_wins"`
	CloseGameRecord  float64       `json:"close_game_record"`
	LuckyWins        []WeekOutcome `json:"lucky_wins"`
	UnluckyLosses    []WeekOutcome `json:"unlucky_losses"`
	HighWeek         *WeekScore    `json:"high_week,omitempty"`
	LowWeek          *WeekScore    `json:"low_week,omitempty"`
}

type LuckReport struct {
	Teams        map[string]*LuckTeam `json:"teams"`
	SkippedWeeks []int                `json:"skipped_weeks"`
	Dimension    Dimension            `json:"dimension"`
}

type MatchupLuckAnalyzer struct {
	settings Settings
}

func NewMatchupLuckAnalyzer(settings Settings) *MatchupLuckAnalyzer {
	return &MatchupLuckAnalyzer{settings: settings.withDefaults()}
}

// weekCohort is every team's score for one week plus the summary statistics
// the luck model needs.
type weekCohort struct {
	week   int
	rows   []models.Matchup
	scores []float64
	mean   float64
	stdDev float64
	median float64
}

func newWeekCohort(week int, rows []models.Matchup) (*weekCohort, error) {
	c := &weekCohort{week: week, rows: rows, scores: make([]float64, len(rows))}
	for i, m := range rows {
		c.scores[i] = m.Points
	}
	if len(c.scores) < 2 {
		return c, fmt.Errorf("week %d has %d scores: %w", week, len(c.scores), ErrInsufficientData)
	}

	var err error
	if c.mean, err = stats.Mean(c.scores); err != nil {
		return c, fmt.Errorf("week %d mean: %w", week, ErrInsufficientData)
	}
	if c.stdDev, err = stats.StandardDeviation(c.scores); err != nil {
		return c, fmt.Errorf("week %d standard deviation: %w", week, ErrInsufficientData)
	}
	if c.median, err = stats.Median(c.scores); err != nil {
		return c, fmt.Errorf("week %d median: %w", week, ErrInsufficientData)
	}
	if c.stdDev == 0 {
		return c, fmt.Errorf("week %d scores are all equal: %w", week, ErrInsufficientData)
	}
	return c, nil
}

// WinProbability is the chance a normally distributed opponent drawn from the
// cohort scores less than points. It fails with ErrInsufficientData when the
// cohort has fewer than two scores or no spread.
func WinProbability(points float64, cohort []float64) (float64, error) {
	c, err := newWeekCohort(0, cohortRows(cohort))
	if err != nil {
		return 0, err
	}
	return c.winProbability(points), nil
}

func (c *weekCohort) winProbability(points float64) float64 {
	return stats.NormalCDF((points - c.mean) / c.stdDev)
}

func cohortRows(scores []float64) []models.Matchup {
	rows := make([]models.Matchup, len(scores))
	for i, s := range scores {
		rows[i].Points = s
	}
	return rows
}

// Analyze compares each team's actual wins with the wins its weekly scores
// would predict. Weeks whose cohort can't support the normal model are
// logged and left out of the luck accumulations for every team.
func (a *MatchupLuckAnalyzer) Analyze(data *models.LeagueData) (*LuckReport, error) {
	teams := make(map[string]*LuckTeam, len(data.Rosters))
	opponentTotals := make(map[string]float64, len(data.Rosters))
	games := make(map[string]int, len(data.Rosters))
	for _, r := range data.Rosters {
		teams[r.TeamID] = &LuckTeam{
			TeamID:        r.TeamID,
			LuckyWins:     []WeekOutcome{},
			UnluckyLosses: []WeekOutcome{},
		}
	}

	byWeek := make(map[int][]models.Matchup)
	for _, m := range data.Matchups {
		if _, ok := teams[m.TeamID]; !ok {
			return nil, malformed(m.TeamID, m.Week, "matchup for unknown team")
		}
		byWeek[m.Week] = append(byWeek[m.Week], m)
	}
	weeks := make([]int, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	report := &LuckReport{Teams: teams, SkippedWeeks: []int{}}
	for _, week := range weeks {
		rows := byWeek[week]

		for _, m := range rows {
			team := teams[m.TeamID]
			opponentTotals[m.TeamID] += m.OpponentPoints
			games[m.TeamID]++
			if m.Margin() <= a.settings.CloseGameThreshold {
				team.CloseGames++
				if m.Won() {
					team.CloseWins++
				}
			}
			trackExtremes(team, m)
		}

		cohort, err := newWeekCohort(week, rows)
		if err != nil {
			slog.Warn("Skipping week in luck model", "week", week, "cohort", len(rows), "error", err)
			report.SkippedWeeks = append(report.SkippedWeeks, week)
			continue
		}

		for _, m := range rows {
			team := teams[m.TeamID]
			team.WeeksCounted++
			team.ExpectedWins += cohort.winProbability(m.Points)

			outcome := WeekOutcome{
				Week:           week,
				Points:         m.Points,
				OpponentPoints: m.OpponentPoints,
				MedianScore:    cohort.median,
			}
			switch {
			case m.Won():
				team.ActualWins++
				if m.Points < cohort.median {
					team.LuckyWins = append(team.LuckyWins, outcome)
				}
			case m.Lost():
				if m.Points > cohort.median {
					team.UnluckyLosses = append(team.UnluckyLosses, outcome)
				}
			}
		}
	}

	results := make([]Result, 0, len(teams))
	for teamID, team := range teams {
		team.LuckRating = float64(team.ActualWins) - team.ExpectedWins
		if games[teamID] > 0 {
			team.ScheduleStrength = opponentTotals[teamID] / float64(games[teamID])
		}
		if team.CloseGames > 0 {
			team.CloseGameRecord = float64(team.CloseWins) / float64(team.CloseGames)
		}
		results = append(results, Result{
			TeamID: teamID,
			Score:  team.LuckRating,
			Metrics: map[string]float64{
				"expectedWins":     team.ExpectedWins,
				"actualWins":       float64(team.ActualWins),
				"luckRating":       team.LuckRating,
				"weeksCounted":     float64(team.WeeksCounted),
				"scheduleStrength": team.ScheduleStrength,
				"closeGames":       float64(team.CloseGames),
				"closeWins":        float64(team.CloseWins),
				"closeGameRecord":  team.CloseGameRecord,
				"luckyWins":        float64(len(team.LuckyWins)),
				"unluckyLosses":    float64(len(team.UnluckyLosses)),
			},
		})
	}

	report.Dimension = Dimension{Name: DimensionLuck, Results: Rank(results)}
	return report, nil
}

func trackExtremes(team *LuckTeam, m models.Matchup) {
	score := &WeekScore{Week: m.Week, Points: m.Points, Opponent: m.Opponent, OpponentPoints: m.OpponentPoints}
	if team.HighWeek == nil || m.Points > team.HighWeek.Points {
		team.HighWeek = score
	}
	if team.LowWeek == nil || m.Points < team.LowWeek.Points {
		team.LowWeek = score
	}
}
