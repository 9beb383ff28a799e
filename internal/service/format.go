package service

import (
	"fmt"
	"strings"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

var dimensionTitles = map[string]string{
	analysis.DimensionDraft:    "🎯 Draft",
	analysis.DimensionLineups:  "🧠 Lineups",
	analysis.DimensionTrades:   "🤝 Trades",
	analysis.DimensionWaivers:  "📈 Waivers",
	analysis.DimensionInjuries: "🚑 Injuries",
	analysis.DimensionLuck:     "🍀 Luck",
}

func leagueTitle(data *models.LeagueData) string {
	if data.Name != "" {
		return data.Name
	}
	return "League " + data.LeagueID
}

func playerName(data *models.LeagueData, playerID string) string {
	if p, ok := data.PlayerStats[playerID]; ok && p != nil && p.Name != "" {
		return p.Name
	}
	return playerID
}

func playerNames(data *models.LeagueData, playerIDs []string) string {
	if len(playerIDs) == 0 {
		return "nothing"
	}
	names := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		names[i] = playerName(data, id)
	}
	return strings.Join(names, ", ")
}

func formatWrapped(report *analysis.Report, data *models.LeagueData) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎁 *%s %s Wrapped*\n\n", leagueTitle(data), data.Season))

	sb.WriteString("🏆 *Awards*\n")
	for _, a := range report.Awards {
		sb.WriteString(fmt.Sprintf("%s: *%s* (%s %.2f)\n", a.Title, data.TeamName(a.TeamID), a.Metric, a.Value))
	}

	sb.WriteString("\n📊 *Leaders*\n")
	for _, dim := range report.Dimensions() {
		leader, ok := dim.Leader()
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: *%s* (%.2f)\n", dimensionTitles[dim.Name], data.TeamName(leader.TeamID), leader.Score))
	}

	if skipped := report.Luck.SkippedWeeks; len(skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\n_Luck model skipped weeks %v_\n", skipped))
	}
	return sb.String()
}

func formatDraft(report *analysis.DraftReport, data *models.LeagueData) string {
	var sb strings.Builder
	sb.WriteString("🎯 *Draft Value Over Expected*\n\n")
	for _, r := range report.Dimension.Results {
		team := report.Teams[r.TeamID]
		sb.WriteString(fmt.Sprintf("%d. *%s*: %+.1f pts (%d picks, %d still rostered)\n",
			r.Rank, data.TeamName(r.TeamID), team.TotalValueOverExpected, team.PicksAnalyzed, team.RetainedPicks))
		if len(team.BestPicks) > 0 {
			best := team.BestPicks[0]
			sb.WriteString(fmt.Sprintf("   Steal: %s (R%d.%02d, %+.1f)\n", playerName(data, best.PlayerID), best.Round, best.Slot, best.ValueOverExpected))
		}
		if len(team.WorstPicks) > 0 && team.PicksAnalyzed > 1 {
			worst := team.WorstPicks[0]
			sb.WriteString(fmt.Sprintf("   Bust: %s (R%d.%02d, %+.1f)\n", playerName(data, worst.PlayerID), worst.Round, worst.Slot, worst.ValueOverExpected))
		}
	}
	return sb.String()
}

func formatWaivers(report *analysis.WaiverReport, data *models.LeagueData) string {
	var sb strings.Builder
	sb.WriteString("📈 *Waiver Wire Value*\n\n")
	for _, r := range report.Dimension.Results {
		team := report.Teams[r.TeamID]
		sb.WriteString(fmt.Sprintf("%d. *%s*: %.1f pts from %d pickups\n",
			r.Rank, data.TeamName(r.TeamID), team.TotalWaiverPoints, team.PickupCount))
		if team.FAABSpent > 0 {
			sb.WriteString(fmt.Sprintf("   FAAB: $%.0f (%.2f pts/$)\n", team.FAABSpent, team.FAABEfficiency))
		}
		if len(team.BestPickups) > 0 {
			best := team.BestPickups[0]
			sb.WriteString(fmt.Sprintf("   Best add: %s (week %d, %.1f pts)\n", playerName(data, best.PlayerID), best.Week, best.Points))
		}
	}
	return sb.String()
}

func formatTrades(report *analysis.TradeReport, data *models.LeagueData) string {
	var sb strings.Builder
	sb.WriteString("🤝 *Trade Results*\n\n")
	for _, r := range report.Dimension.Results {
		team := report.Teams[r.TeamID]
		if team.TradeCount == 0 {
			sb.WriteString(fmt.Sprintf("%d. *%s*: no trades\n", r.Rank, data.TeamName(r.TeamID)))
			continue
		}
		sb.WriteString(fmt.Sprintf("%d. *%s*: %+.1f pts (%d trades, %d won)\n",
			r.Rank, data.TeamName(r.TeamID), team.TotalDifferential, team.TradeCount, team.TradesWon))
		for _, t := range team.Trades {
			marker := ""
			if t.MutuallyBeneficial {
				marker = " 🤝"
			}
			sb.WriteString(fmt.Sprintf("   Week %d: got %s for %s (%+.1f)%s\n",
				t.Week, playerNames(data, t.Received), playerNames(data, t.Given), t.Differential, marker))
		}
	}
	return sb.String()
}

func formatInjuries(report *analysis.InjuryReport, data *models.LeagueData) string {
	var sb strings.Builder
	sb.WriteString("🚑 *Injury Impact*\n\n")
	for _, r := range report.Dimension.Results {
		team := report.Teams[r.TeamID]
		sb.WriteString(fmt.Sprintf("%d. *%s*: %.1f pts lost over %d games\n",
			r.Rank, data.TeamName(r.TeamID), team.PointsLost, team.GamesLost))
		for _, injury := range team.Injuries {
			if injury.PointsLost <= 0 {
				continue
			}
			starter := ""
			if injury.Starter {
				starter = " (starter)"
			}
			sb.WriteString(fmt.Sprintf("   • %s %s%s - %.1f pts\n", playerName(data, injury.PlayerID), injury.InjuryStatus, starter, injury.PointsLost))
		}
	}
	return sb.String()
}

func formatLuck(report *analysis.LuckReport, data *models.LeagueData) string {
	var sb strings.Builder
	sb.WriteString("🍀 *Matchup Luck*\n\n")
	for _, r := range report.Dimension.Results {
		team := report.Teams[r.TeamID]
		sb.WriteString(fmt.Sprintf("%d. *%s*: %+.2f (%d wins vs %.2f expected)\n",
			r.Rank, data.TeamName(r.TeamID), team.LuckRating, team.ActualWins, team.ExpectedWins))
		if len(team.LuckyWins) > 0 || len(team.UnluckyLosses) > 0 {
			sb.WriteString(fmt.Sprintf("   Lucky wins: %d, unlucky losses: %d\n", len(team.LuckyWins), len(team.UnluckyLosses)))
		}
		if team.CloseGames > 0 {
			sb.WriteString(fmt.Sprintf("   Close games: %d-%d\n", team.CloseWins, team.CloseGames-team.CloseWins))
		}
	}
	if len(report.SkippedWeeks) > 0 {
		sb.WriteString(fmt.Sprintf("\n_Skipped weeks without enough spread: %v_\n", report.SkippedWeeks))
	}
	return sb.String()
}

func formatLineups(report *analysis.LineupReport, data *models.LeagueData) string {
	var sb strings.Builder
	sb.WriteString("🧠 *Lineup Efficiency*\n\n")
	for _, r := range report.Dimension.Results {
		team := report.Teams[r.TeamID]
		if team.WeeksAnalyzed == 0 {
			sb.WriteString(fmt.Sprintf("%d. *%s*: no lineup data\n", r.Rank, data.TeamName(r.TeamID)))
			continue
		}
		sb.WriteString(fmt.Sprintf("%d. *%s*: %.1f%% (%.1f pts left on bench)\n",
			r.Rank, data.TeamName(r.TeamID), team.Efficiency*100, team.PointsLeftOnBench))
		if len(team.WorstWeeks) > 0 && team.WorstWeeks[0].PointsOnBench > 0 {
			worst := team.WorstWeeks[0]
			sb.WriteString(fmt.Sprintf("   Worst: week %d, %.1f of %.1f possible\n", worst.Week, worst.ActualPoints, worst.OptimalPoints))
		}
	}
	return sb.String()
}

func formatTeam(report *analysis.Report, data *models.LeagueData, teamID string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s Wrapped*\n\n", data.TeamName(teamID)))

	teams := len(data.Rosters)
	for _, dim := range report.Dimensions() {
		r, ok := dim.ByTeam(teamID)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: #%d of %d (%.2f)\n", dimensionTitles[dim.Name], r.Rank, teams, r.Score))
	}

	if luck := report.Luck.Teams[teamID]; luck != nil {
		if luck.HighWeek != nil {
			sb.WriteString(fmt.Sprintf("\n🔥 Best week: %d, %.2f vs %s\n", luck.HighWeek.Week, luck.HighWeek.Points, data.TeamName(luck.HighWeek.Opponent)))
		}
		if luck.LowWeek != nil {
			sb.WriteString(fmt.Sprintf("🧊 Worst week: %d, %.2f vs %s\n", luck.LowWeek.Week, luck.LowWeek.Points, data.TeamName(luck.LowWeek.Opponent)))
		}
		sb.WriteString(fmt.Sprintf("📅 Opponents averaged %.2f\n", luck.ScheduleStrength))
	}

	for _, a := range report.Awards {
		if a.TeamID == teamID {
			sb.WriteString(fmt.Sprintf("🏆 %s\n", a.Title))
		}
	}
	return sb.String()
}
