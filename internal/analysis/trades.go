package analysis

import (
	"math"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

// MutualBenefitRatio is the share of what each side gave up that it must get back.
const MutualBenefitRatio = 0.8

// OwnerIndex maps a player id to the team currently rostering it.
type OwnerIndex map[string]string

func NewOwnerIndex(rosters []models.Roster) OwnerIndex {
	owners := make(OwnerIndex)
	for _, r := range rosters {
		for _, playerID := range r.Players {
			owners[playerID] = r.TeamID
		}
	}
	return owners
}

func (o OwnerIndex) Owner(playerID string) (string, bool) {
	teamID, ok := o[playerID]
	return teamID, ok
}

type TradeDetail struct {
	TradeID            string   `json:"trade_id"`
	Week               int      `json:"week"`
	Given              []string `json:"given"`
	Received           []string `json:"received"`
	PointsGiven        float64  `json:"points_given"`
	PointsReceived     float64  `json:"points_received"`
	Differential       float64  `json:"differential"`
	MutuallyBeneficial bool     `json:"mutually_beneficial"`
}

type TradeTeam struct {
	TeamID             string        `json:"team_id"`
	TotalDifferential  float64       `json:"total_differential"`
	TradeCount         int           `json:"trade_count"`
	TradesWon          int           `json:"trades_won"`
	MutuallyBeneficial int           `json:"mutually_beneficial"`
	Trades             []TradeDetail `json:"trades"`
}

type TradeReport struct {
	Teams     map[string]*TradeTeam `json:"teams"`
	Dimension Dimension             `json:"dimension"`
}

type TradeAnalyzer struct {
	values *ValueModel
	owners OwnerIndex
}

func NewTradeAnalyzer(values *ValueModel, owners OwnerIndex) *TradeAnalyzer {
	return &TradeAnalyzer{values: values, owners: owners}
}

// Analyze values each side of every completed trade by the points its players
// scored from the trade week onward.
func (a *TradeAnalyzer) Analyze(data *models.LeagueData) (*TradeReport, error) {
	teams := make(map[string]*TradeTeam, len(data.Rosters))
	for _, r := range data.Rosters {
		teams[r.TeamID] = &TradeTeam{TeamID: r.TeamID, Trades: []TradeDetail{}}
	}

	for _, tx := range data.Transactions {
		if tx.Type != models.TransactionTrade || tx.Status != models.StatusComplete {
			continue
		}
		if len(tx.Sides) < 2 {
			return nil, malformed(tx.TeamID, 0, "trade %s has %d sides", tx.ID, len(tx.Sides))
		}

		week := a.values.TransactionWeek(tx)
		for _, side := range tx.Sides {
			teamID, err := a.resolveSide(tx, side)
			if err != nil {
				return nil, err
			}
			team, ok := teams[teamID]
			if !ok {
				return nil, malformed(teamID, 0, "trade %s side belongs to unknown team", tx.ID)
			}

			detail := TradeDetail{
				TradeID:        tx.ID,
				Week:           week,
				Given:          side.Given,
				Received:       side.Received,
				PointsGiven:    a.sumPoints(data, side.Given, week),
				PointsReceived: a.sumPoints(data, side.Received, week),
			}
			detail.Differential = detail.PointsReceived - detail.PointsGiven
			detail.MutuallyBeneficial = MutuallyBeneficial(detail.PointsGiven, detail.PointsReceived)

			team.TradeCount++
			team.TotalDifferential += detail.Differential
			if detail.Differential > 0 {
				team.TradesWon++
			}
			if detail.MutuallyBeneficial {
				team.MutuallyBeneficial++
			}
			team.Trades = append(team.Trades, detail)
		}
	}

	results := make([]Result, 0, len(teams))
	for teamID, team := range teams {
		results = append(results, Result{
			TeamID: teamID,
			Score:  team.TotalDifferential,
			Metrics: map[string]float64{
				"totalDifferential":  team.TotalDifferential,
				"tradeCount":         float64(team.TradeCount),
				"tradesWon":          float64(team.TradesWon),
				"mutuallyBeneficial": float64(team.MutuallyBeneficial),
			},
		})
	}

	return &TradeReport{
		Teams:     teams,
		Dimension: Dimension{Name: DimensionTrades, Results: Rank(results)},
	}, nil
}

// resolveSide falls back to the current owner of the side's received players
// when the upstream data left the side's team blank.
func (a *TradeAnalyzer) resolveSide(tx models.Transaction, side models.TradeSide) (string, error) {
	if side.TeamID != "" {
		return side.TeamID, nil
	}
	for _, playerID := range side.Received {
		if owner, ok := a.owners.Owner(playerID); ok {
			return owner, nil
		}
	}
	return "", malformed("", 0, "trade %s has a side with no resolvable team", tx.ID)
}

func (a *TradeAnalyzer) sumPoints(data *models.LeagueData, players []string, week int) float64 {
	var total float64
	for _, playerID := range players {
		if stats, ok := data.PlayerStats[playerID]; ok && stats != nil {
			total += a.values.pointsFromWeek(stats, week)
		}
	}
	return total
}

// MutuallyBeneficial reports whether each side got back at least
// MutualBenefitRatio of what it gave. A side with zero points on either end
// never qualifies.
func MutuallyBeneficial(given, received float64) bool {
	if given <= 0 || received <= 0 {
		return false
	}
	return math.Min(given/received, received/given) >= MutualBenefitRatio
}
