package analysis

import (
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

var expectedPointsByRound = map[int]float64{
	1: 200, 2: 180, 3: 160, 4: 140, 5: 120,
	6: 100, 7: 80, 8: 60, 9: 40, 10: 30,
}

const roundTableFloor = 20

// ValueModel turns stat lines and draft positions into comparable point values.
type ValueModel struct {
	settings Settings
	rules    ScoringRules
}

func NewValueModel(settings Settings, rules ScoringRules) *ValueModel {
	if len(rules) == 0 {
		rules = DefaultScoringRules()
	}
	return &ValueModel{settings: settings.withDefaults(), rules: rules}
}

// ExpectedDraftValue is non-increasing in both round and slot.
func (v *ValueModel) ExpectedDraftValue(round, slot int) float64 {
	if v.settings.DraftValueMode == DraftValueRoundTable {
		return RoundTableDraftValue(round)
	}
	overall := (round-1)*v.settings.PicksPerRound + slot
	return v.settings.DraftBaseline - float64(overall)*v.settings.DraftDecay
}

// RoundTableDraftValue returns the per-round expected points, or the floor
// for rounds past the table.
func RoundTableDraftValue(round int) float64 {
	if round < 1 {
		round = 1
	}
	if pts, ok := expectedPointsByRound[round]; ok {
		return pts
	}
	return roundTableFloor
}

// Score applies the league's scoring rules to one stat line.
func (v *ValueModel) Score(line models.StatLine) float64 {
	if len(line) == 0 {
		return 0
	}
	return v.rules.Apply(line)
}

// SeasonPoints is the player's scored total over the regular season. A
// player with no recorded stats produced zero.
func (v *ValueModel) SeasonPoints(p *models.PlayerStats) float64 {
	if p == nil {
		return 0
	}
	var total float64
	for week := 1; week <= min(len(p.WeeklyPoints), v.settings.SeasonLength); week++ {
		total += p.WeeklyPoints[week-1]
	}
	return total
}

// WeekOf maps a timestamp to a 1-based week clamped to [1, SeasonLength].
func (v *ValueModel) WeekOf(ts time.Time) int {
	elapsed := ts.Sub(v.settings.SeasonStart)
	week := 1
	if elapsed > 0 {
		week = int(elapsed/v.settings.WeekLength) + 1
	}
	return max(1, min(week, v.settings.SeasonLength))
}

// TransactionWeek prefers the week recorded on the transaction and falls
// back to its timestamp.
func (v *ValueModel) TransactionWeek(tx models.Transaction) int {
	if tx.Week >= 1 {
		return min(tx.Week, v.settings.SeasonLength)
	}
	return v.WeekOf(tx.Timestamp)
}

// PointsSince sums weekly points from the week containing ts through season end.
func (v *ValueModel) PointsSince(p *models.PlayerStats, ts time.Time) float64 {
	if p == nil {
		return 0
	}
	return v.pointsFromWeek(p, v.WeekOf(ts))
}

func (v *ValueModel) pointsFromWeek(p *models.PlayerStats, from int) float64 {
	var total float64
	for week := from; week <= min(len(p.WeeklyPoints), v.settings.SeasonLength); week++ {
		total += p.WeeklyPoints[week-1]
	}
	return total
}

func (v *ValueModel) Settings() Settings {
	return v.settings
}
