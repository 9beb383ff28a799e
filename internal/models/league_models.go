package models

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/segmentio/fasthash/jody"
)

// LeagueData is one season's fully materialized snapshot. It is read-only to
// every analyzer.
type LeagueData struct {
	LeagueID     string                  `json:"league_id"`
	Name         string                  `json:"name"`
	Season       string                  `json:"season"`
	RosterSlots  []string                `json:"roster_slots,omitempty"`
	TeamNames    map[string]string       `json:"team_names,omitempty"`
	Rosters      []Roster                `json:"rosters"`
	Matchups     []Matchup               `json:"matchups"`
	Draft        []DraftPick             `json:"draft"`
	Transactions []Transaction           `json:"transactions"`
	PlayerStats  map[string]*PlayerStats `json:"player_stats"`
	FetchedAt    time.Time               `json:"fetched_at"`
}

type Roster struct {
	TeamID   string   `json:"team_id"`
	Players  []string `json:"players"`
	Starters []string `json:"starters"`
}

// StatLine maps a stat category (pass_yd, rec, pts_ppr, ...) to its value.
type StatLine map[string]float64

// PlayerStats holds a player's season. WeeklyPoints[i] is week i+1.
type PlayerStats struct {
	PlayerID      string    `json:"player_id"`
	Name          string    `json:"name,omitempty"`
	Position      string    `json:"position,omitempty"`
	WeeklyPoints  []float64 `json:"weekly_points"`
	GamesPlayed   int       `json:"games_played"`
	TotalPoints   float64   `json:"total_points"`
	IsInjured     bool      `json:"is_injured"`
	InjuryStatus  string    `json:"injury_status,omitempty"`
	InjuredWeeks  []int     `json:"injured_weeks,omitempty"`
	StartingWeeks []int     `json:"starting_weeks,omitempty"`
}

// PointsInWeek returns 0 for weeks outside the recorded range.
func (p *PlayerStats) PointsInWeek(week int) float64 {
	if p == nil || week < 1 || week > len(p.WeeklyPoints) {
		return 0
	}
	return p.WeeklyPoints[week-1]
}

func (p *PlayerStats) SumWeeklyPoints() float64 {
	var total float64
	for _, pts := range p.WeeklyPoints {
		total += pts
	}
	return total
}

type DraftPick struct {
	TeamID   string `json:"team_id"`
	PlayerID string `json:"player_id"`
	Round    int    `json:"round"`
	Slot     int    `json:"slot"`
}

type TransactionType string

const (
	TransactionWaiver TransactionType = "waiver"
	TransactionTrade  TransactionType = "trade"

	StatusComplete = "complete"
)

// Transaction is a completed or pending roster move. Week is the scoring
// week reported by the source; when zero it is derived from Timestamp.
type Transaction struct {
	ID        string          `json:"id"`
	Type      TransactionType `json:"type"`
	Status    string          `json:"status"`
	TeamID    string          `json:"team_id,omitempty"`
	Adds      []string        `json:"adds,omitempty"`
	Drops     []string        `json:"drops,omitempty"`
	FAABSpent float64         `json:"faab_spent,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Week      int             `json:"week,omitempty"`
	Sides     []TradeSide     `json:"sides,omitempty"`
}

type TradeSide struct {
	TeamID   string   `json:"team_id"`
	Given    []string `json:"given"`
	Received []string `json:"received"`
}

// Matchup is one team's row for one week. Starters, Players and
// PlayerPoints are optional lineup detail.
type Matchup struct {
	Week           int                `json:"week"`
	TeamID         string             `json:"team_id"`
	Points         float64            `json:"points"`
	Opponent       string             `json:"opponent"`
	OpponentPoints float64            `json:"opponent_points"`
	Starters       []string           `json:"starters,omitempty"`
	Players        []string           `json:"players,omitempty"`
	PlayerPoints   map[string]float64 `json:"player_points,omitempty"`
}

func (m Matchup) Won() bool {
	return m.Points > m.OpponentPoints
}

func (m Matchup) Lost() bool {
	return m.Points < m.OpponentPoints
}

func (m Matchup) Margin() float64 {
	return math.Abs(m.Points - m.OpponentPoints)
}

// TeamIDs returns roster team identifiers in sorted order.
func (d *LeagueData) TeamIDs() []string {
	ids := make([]string, 0, len(d.Rosters))
	for _, r := range d.Rosters {
		ids = append(ids, r.TeamID)
	}
	sort.Strings(ids)
	return ids
}

func (d *LeagueData) TeamName(teamID string) string {
	if name, ok := d.TeamNames[teamID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Team %s", teamID)
}

// Fingerprint hashes the parts of the snapshot that change between refreshes,
// so a caller can tell whether a new fetch produced different data.
func (d *LeagueData) Fingerprint() uint64 {
	hash := jody.HashString64(d.LeagueID)
	hash = jody.AddString64(hash, d.Season)

	for _, teamID := range d.TeamIDs() {
		hash = jody.AddString64(hash, teamID)
	}
	for _, r := range d.Rosters {
		players := append([]string(nil), r.Players...)
		sort.Strings(players)
		for _, p := range players {
			hash = jody.AddString64(hash, p)
		}
	}
	for _, m := range d.Matchups {
		hash = jody.AddString64(hash, fmt.Sprintf("%d:%s:%.2f", m.Week, m.TeamID, m.Points))
	}
	for _, t := range d.Transactions {
		hash = jody.AddString64(hash, t.ID+t.Status)
	}
	for _, pick := range d.Draft {
		hash = jody.AddString64(hash, pick.PlayerID)
	}
	return hash
}
