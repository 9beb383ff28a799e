package analysis

import (
	"sort"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type DraftValueMode string

const (
	// DraftValueLinear decays the baseline by a fixed amount per overall pick.
	DraftValueLinear DraftValueMode = "linear"
	// DraftValueRoundTable looks up expected points by round with a floor.
	DraftValueRoundTable DraftValueMode = "rounds"
)

// SeasonStart returns the NFL kickoff for a season year: the Thursday after
// Labor Day, the first Monday of September.
func SeasonStart(year int) time.Time {
	sep1 := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	toMonday := (int(time.Monday) - int(sep1.Weekday()) + 7) % 7
	return sep1.AddDate(0, 0, toMonday+3)
}

// Settings are the tunable constants of the engine. A zero SeasonStart means
// the kickoff of the snapshot's season.
type Settings struct {
	SeasonLength       int
	CloseGameThreshold float64
	StarterThreshold   float64
	TopK               int
	DraftValueMode     DraftValueMode
	DraftBaseline      float64
	DraftDecay         float64
	PicksPerRound      int
	SeasonStart        time.Time
	WeekLength         time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		SeasonLength:       17,
		CloseGameThreshold: 5,
		StarterThreshold:   0.5,
		TopK:               3,
		DraftValueMode:     DraftValueLinear,
		DraftBaseline:      200,
		DraftDecay:         10,
		PicksPerRound:      12,
		WeekLength:         7 * 24 * time.Hour,
	}
}

// withDefaults fills unset values so a partially populated Settings still
// works. Thresholds of 0 are valid and only negative ones are replaced. A zero
// SeasonStart is left for the caller to derive from the league season.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.SeasonLength <= 0 {
		s.SeasonLength = d.SeasonLength
	}
	if s.CloseGameThreshold < 0 {
		s.CloseGameThreshold = d.CloseGameThreshold
	}
	if s.StarterThreshold < 0 {
		s.StarterThreshold = d.StarterThreshold
	}
	if s.TopK <= 0 {
		s.TopK = d.TopK
	}
	if s.DraftValueMode == "" {
		s.DraftValueMode = d.DraftValueMode
	}
	if s.DraftBaseline == 0 && s.DraftDecay == 0 {
		s.DraftBaseline, s.DraftDecay = d.DraftBaseline, d.DraftDecay
	}
	if s.PicksPerRound <= 0 {
		s.PicksPerRound = d.PicksPerRound
	}
	if s.WeekLength <= 0 {
		s.WeekLength = d.WeekLength
	}
	return s
}

// ScoringRules maps a stat category to its fantasy point weight.
type ScoringRules map[string]float64

// DefaultScoringRules takes Sleeper's precomputed PPR total as-is.
func DefaultScoringRules() ScoringRules {
	return ScoringRules{"pts_ppr": 1}
}

// Apply sums weight*value over the categories present in both.
func (r ScoringRules) Apply(line models.StatLine) float64 {
	categories := make([]string, 0, len(r))
	for category := range r {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var points float64
	for _, category := range categories {
		points += r[category] * line[category]
	}
	return points
}
