package models

// Wire types for the Sleeper v1 API.

type SleeperLeague struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	Status          string             `json:"status"`
	DraftID         string             `json:"draft_id"`
	TotalRosters    int                `json:"total_rosters"`
	RosterPositions []string           `json:"roster_positions"`
	Settings        LeagueSettings     `json:"settings"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
}

type LeagueSettings struct {
	PlayoffWeekStart int `json:"playoff_week_start"`
	LastScoredLeg    int `json:"last_scored_leg"`
	WaiverBudget     int `json:"waiver_budget"`
}

type SleeperUser struct {
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Metadata    UserMetadata `json:"metadata"`
}

type UserMetadata struct {
	TeamName string `json:"team_name"`
}

type SleeperRoster struct {
	RosterID int      `json:"roster_id"`
	OwnerID  string   `json:"owner_id"`
	Players  []string `json:"players"`
	Starters []string `json:"starters"`
	Reserve  []string `json:"reserve"`
}

type SleeperMatchup struct {
	RosterID     int                `json:"roster_id"`
	MatchupID    int                `json:"matchup_id"`
	Points       float64            `json:"points"`
	Starters     []string           `json:"starters"`
	Players      []string           `json:"players"`
	PlayersPoint map[string]float64 `json:"players_points"`
}

type SleeperTransaction struct {
	TransactionID string               `json:"transaction_id"`
	Type          string               `json:"type"`
	Status        string               `json:"status"`
	RosterIDs     []int                `json:"roster_ids"`
	Adds          map[string]int       `json:"adds"`
	Drops         map[string]int       `json:"drops"`
	Created       int64                `json:"created"`
	Leg           int                  `json:"leg"`
	Settings      *TransactionSettings `json:"settings"`
}

type TransactionSettings struct {
	WaiverBid int `json:"waiver_bid"`
}

type SleeperDraftPick struct {
	Round     int    `json:"round"`
	DraftSlot int    `json:"draft_slot"`
	PickNo    int    `json:"pick_no"`
	PlayerID  string `json:"player_id"`
	PickedBy  string `json:"picked_by"`
	RosterID  int    `json:"roster_id"`
}

type SleeperPlayer struct {
	PlayerID     string `json:"player_id"`
	FullName     string `json:"full_name"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Position     string `json:"position"`
	Team         string `json:"team"`
	Status       string `json:"status"`
	InjuryStatus string `json:"injury_status"`
}

// WeeklyStats is the /stats/nfl/regular/{season}/{week} payload keyed by player id.
type WeeklyStats map[string]StatLine
