package fantasy

import (
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

var injuredStatuses = map[string]bool{"Out": true, "IR": true, "PUP": true}

// snapshotBuilder accumulates the per-week Sleeper payloads.
type snapshotBuilder struct {
	data     *models.LeagueData
	rules    analysis.ScoringRules
	lastWeek int

	weeklyStats map[int]models.WeeklyStats
	rostered    map[int]map[string]bool
	starting    map[string][]int
	referenced  map[string]bool
}

func newSnapshotBuilder(league *models.SleeperLeague, users []models.SleeperUser, rosters []models.SleeperRoster, rules analysis.ScoringRules, lastWeek int) *snapshotBuilder {
	b := &snapshotBuilder{
		data: &models.LeagueData{
			LeagueID:    league.LeagueID,
			Name:        league.Name,
			Season:      league.Season,
			RosterSlots: league.RosterPositions,
			TeamNames:   teamNames(users, rosters),
			Rosters:     make([]models.Roster, 0, len(rosters)),
			PlayerStats: make(map[string]*models.PlayerStats),
		},
		rules:       rules,
		lastWeek:    lastWeek,
		weeklyStats: make(map[int]models.WeeklyStats),
		rostered:    make(map[int]map[string]bool),
		starting:    make(map[string][]int),
		referenced:  make(map[string]bool),
	}

	for _, r := range rosters {
		b.data.Rosters = append(b.data.Rosters, models.Roster{
			TeamID:   teamID(r.RosterID),
			Players:  r.Players,
			Starters: filterEmpty(r.Starters),
		})
		b.reference(r.Players...)
	}
	return b
}

func teamID(rosterID int) string {
	return strconv.Itoa(rosterID)
}

func teamNames(users []models.SleeperUser, rosters []models.SleeperRoster) map[string]string {
	byOwner := make(map[string]string, len(users))
	for _, u := range users {
		name := u.Metadata.TeamName
		if name == "" {
			name = u.DisplayName
		}
		byOwner[u.UserID] = name
	}

	names := make(map[string]string, len(rosters))
	for _, r := range rosters {
		if name, ok := byOwner[r.OwnerID]; ok && name != "" {
			names[teamID(r.RosterID)] = name
		}
	}
	return names
}

func (b *snapshotBuilder) reference(playerIDs ...string) {
	for _, id := range playerIDs {
		if id != "" && id != "0" {
			b.referenced[id] = true
		}
	}
}

// addMatchups pairs the rows that share a matchup id. Rows without an
// opponent are byes and are dropped.
func (b *snapshotBuilder) addMatchups(week int, rows []models.SleeperMatchup) {
	rostered := make(map[string]bool)
	groups := make(map[int][]models.SleeperMatchup)
	for _, row := range rows {
		for _, p := range row.Players {
			rostered[p] = true
		}
		for _, p := range row.Starters {
			if p != "" && p != "0" {
				b.starting[p] = append(b.starting[p], week)
			}
		}
		b.reference(row.Players...)
		if row.MatchupID == 0 {
			continue
		}
		groups[row.MatchupID] = append(groups[row.MatchupID], row)
	}
	b.rostered[week] = rostered

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		pair := groups[id]
		if len(pair) != 2 {
			slog.Warn("Skipping matchup without exactly two teams", "week", week, "matchup", id, "rows", len(pair))
			continue
		}
		home, away := pair[0], pair[1]
		b.data.Matchups = append(b.data.Matchups,
			matchupRow(week, home, away),
			matchupRow(week, away, home),
		)
	}
}

func matchupRow(week int, team, opponent models.SleeperMatchup) models.Matchup {
	return models.Matchup{
		Week:           week,
		TeamID:         teamID(team.RosterID),
		Points:         team.Points,
		Opponent:       teamID(opponent.RosterID),
		OpponentPoints: opponent.Points,
		Starters:       filterEmpty(team.Starters),
		Players:        team.Players,
		PlayerPoints:   team.PlayersPoint,
	}
}

// Sleeper fills empty starter slots with "0".
func filterEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && id != "0" {
			out = append(out, id)
		}
	}
	return out
}

func (b *snapshotBuilder) addTransactions(transactions []models.SleeperTransaction) {
	for _, tx := range transactions {
		converted, ok := convertTransaction(tx)
		if !ok {
			continue
		}
		b.reference(converted.Adds...)
		b.reference(converted.Drops...)
		b.data.Transactions = append(b.data.Transactions, converted)
	}
}

// convertTransaction maps waiver and free agent adds to waiver transactions
// and splits trades into one side per roster. Other types are dropped.
func convertTransaction(tx models.SleeperTransaction) (models.Transaction, bool) {
	out := models.Transaction{
		ID:        tx.TransactionID,
		Status:    tx.Status,
		Adds:      sortedKeys(tx.Adds, -1),
		Drops:     sortedKeys(tx.Drops, -1),
		Timestamp: time.UnixMilli(tx.Created).UTC(),
		Week:      tx.Leg,
	}

	switch tx.Type {
	case "waiver", "free_agent":
		out.Type = models.TransactionWaiver
		if len(tx.RosterIDs) > 0 {
			out.TeamID = teamID(tx.RosterIDs[0])
		}
		if tx.Settings != nil {
			out.FAABSpent = float64(tx.Settings.WaiverBid)
		}
	case "trade":
		out.Type = models.TransactionTrade
		for _, rosterID := range tx.RosterIDs {
			out.Sides = append(out.Sides, models.TradeSide{
				TeamID:   teamID(rosterID),
				Given:    sortedKeys(tx.Drops, rosterID),
				Received: sortedKeys(tx.Adds, rosterID),
			})
		}
	default:
		return models.Transaction{}, false
	}
	return out, true
}

// sortedKeys returns the player ids mapped to rosterID, or all of them when
// rosterID is negative.
func sortedKeys(m map[string]int, rosterID int) []string {
	keys := make([]string, 0, len(m))
	for playerID, owner := range m {
		if rosterID < 0 || owner == rosterID {
			keys = append(keys, playerID)
		}
	}
	sort.Strings(keys)
	return keys
}

func (b *snapshotBuilder) addWeeklyStats(week int, stats models.WeeklyStats) {
	b.weeklyStats[week] = stats
}

// addDraft records each pick's position within its round. Sleeper's
// draft_slot is the team's seat, which in a snake draft runs backwards in
// even rounds, so the position comes from the overall pick number.
func (b *snapshotBuilder) addDraft(picks []models.SleeperDraftPick) {
	teams := len(b.data.Rosters)
	for _, pick := range picks {
		if pick.PlayerID == "" {
			continue
		}
		slot := pick.DraftSlot
		if pick.PickNo > 0 && teams > 0 {
			slot = (pick.PickNo-1)%teams + 1
		}
		b.data.Draft = append(b.data.Draft, models.DraftPick{
			TeamID:   teamID(pick.RosterID),
			PlayerID: pick.PlayerID,
			Round:    pick.Round,
			Slot:     slot,
		})
		b.reference(pick.PlayerID)
	}
}

// build scores every referenced player's weeks and attaches directory data.
// Players with no stat line in any week get no entry, so the analyzers treat
// them as missing rather than as zero production.
func (b *snapshotBuilder) build(players map[string]models.SleeperPlayer) *models.LeagueData {
	for playerID := range b.referenced {
		if !b.hasStats(playerID) {
			continue
		}
		stats := &models.PlayerStats{
			PlayerID:      playerID,
			WeeklyPoints:  make([]float64, b.lastWeek),
			StartingWeeks: b.starting[playerID],
		}
		if p, ok := players[playerID]; ok {
			stats.Name = p.FullName
			if stats.Name == "" {
				stats.Name = p.FirstName + " " + p.LastName
			}
			stats.Position = p.Position
			stats.InjuryStatus = p.InjuryStatus
			stats.IsInjured = injuredStatuses[p.InjuryStatus]
		}

		for week := 1; week <= b.lastWeek; week++ {
			line, ok := b.weeklyStats[week][playerID]
			played := ok && gamePlayed(line)
			if ok {
				stats.WeeklyPoints[week-1] = b.rules.Apply(line)
			}
			if played {
				stats.GamesPlayed++
			}
			if stats.IsInjured && !played && b.rostered[week][playerID] {
				stats.InjuredWeeks = append(stats.InjuredWeeks, week)
			}
		}
		stats.TotalPoints = stats.SumWeeklyPoints()
		b.data.PlayerStats[playerID] = stats
	}
	return b.data
}

func (b *snapshotBuilder) hasStats(playerID string) bool {
	for _, stats := range b.weeklyStats {
		if _, ok := stats[playerID]; ok {
			return true
		}
	}
	return false
}

func gamePlayed(line models.StatLine) bool {
	if gp, ok := line["gp"]; ok {
		return gp > 0
	}
	return len(line) > 0
}
