package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

var seasonStart = time.Date(2024, time.September, 5, 0, 0, 0, 0, time.UTC)

func testSettings() Settings {
	s := DefaultSettings()
	s.SeasonStart = seasonStart
	return s
}

// weekTime returns a timestamp one day into the given week.
func weekTime(week int) time.Time {
	return seasonStart.Add(time.Duration(week-1)*7*24*time.Hour + 24*time.Hour)
}

// playerWithWeeks builds a stat line whose total matches its weekly points.
func playerWithWeeks(id string, weekly ...float64) *models.PlayerStats {
	p := &models.PlayerStats{PlayerID: id, WeeklyPoints: weekly}
	for _, pts := range weekly {
		p.TotalPoints += pts
		if pts > 0 {
			p.GamesPlayed++
		}
	}
	return p
}

// flatSeason gives a player the same score in each of n weeks.
func flatSeason(id string, n int, pts float64) *models.PlayerStats {
	weekly := make([]float64, n)
	for i := range weekly {
		weekly[i] = pts
	}
	return playerWithWeeks(id, weekly...)
}

// pairing returns both symmetric rows for one head-to-head game.
func pairing(week int, a string, aPts float64, b string, bPts float64) []models.Matchup {
	return []models.Matchup{
		{Week: week, TeamID: a, Points: aPts, Opponent: b, OpponentPoints: bPts},
		{Week: week, TeamID: b, Points: bPts, Opponent: a, OpponentPoints: aPts},
	}
}

func league(rosters ...models.Roster) *models.LeagueData {
	return &models.LeagueData{
		LeagueID:    "L1",
		Season:      "2024",
		Rosters:     rosters,
		PlayerStats: map[string]*models.PlayerStats{},
	}
}

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}
