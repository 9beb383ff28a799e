package analysis

import "sort"

// Result is one team's score in one dimension.
type Result struct {
	TeamID  string             `json:"team_id"`
	Score   float64            `json:"score"`
	Metrics map[string]float64 `json:"metrics"`
	Rank    int                `json:"rank"`
}

// Rank sorts results by score descending, breaking ties by team id, and
// assigns 1-based ranks.
func Rank(results []Result) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].TeamID < results[j].TeamID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// Dimension is one ranked analysis, ready for display.
type Dimension struct {
	Name    string   `json:"name"`
	Results []Result `json:"results"`
}

// ByTeam returns the result for teamID, if any.
func (d Dimension) ByTeam(teamID string) (Result, bool) {
	for _, r := range d.Results {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return Result{}, false
}

func (d Dimension) Leader() (Result, bool) {
	if len(d.Results) == 0 {
		return Result{}, false
	}
	return d.Results[0], true
}

func (d Dimension) Trailer() (Result, bool) {
	if len(d.Results) == 0 {
		return Result{}, false
	}
	return d.Results[len(d.Results)-1], true
}
