package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

const (
	DimensionDraft    = "draft"
	DimensionLineups  = "lineups"
	DimensionTrades   = "trades"
	DimensionWaivers  = "waivers"
	DimensionInjuries = "injuries"
	DimensionLuck     = "luck"
)

const totalPointsTolerance = 0.01

// LeagueAnalyzer owns one season's snapshot and exposes an entry point per
// analysis dimension. It holds no state between calls, so every call
// recomputes from the snapshot.
type LeagueAnalyzer struct {
	data     *models.LeagueData
	settings Settings
	values   *ValueModel
	owners   OwnerIndex
}

// NewLeagueAnalyzer validates the snapshot and builds the shared indexes.
// Structural problems are returned as *SnapshotError.
func NewLeagueAnalyzer(data *models.LeagueData, settings Settings, rules ScoringRules) (*LeagueAnalyzer, error) {
	if data == nil {
		return nil, malformed("", 0, "no league data")
	}
	settings = settings.withDefaults()
	if settings.SeasonStart.IsZero() {
		settings.SeasonStart = seasonStartFor(data)
	}
	if err := validate(data, settings); err != nil {
		return nil, err
	}
	return &LeagueAnalyzer{
		data:     data,
		settings: settings,
		values:   NewValueModel(settings, rules),
		owners:   NewOwnerIndex(data.Rosters),
	}, nil
}

// seasonStartFor uses the snapshot's season year, or the season in progress
// when the fetch happened if the year is missing.
func seasonStartFor(data *models.LeagueData) time.Time {
	if year, err := strconv.Atoi(data.Season); err == nil {
		return SeasonStart(year)
	}
	ref := data.FetchedAt
	if ref.IsZero() {
		ref = time.Now()
	}
	year := ref.Year()
	if ref.Month() < time.March {
		year--
	}
	slog.Warn("Snapshot has no season year, assuming kickoff", "season", data.Season, "year", year)
	return SeasonStart(year)
}

func (l *LeagueAnalyzer) Data() *models.LeagueData {
	return l.data
}

func (l *LeagueAnalyzer) Values() *ValueModel {
	return l.values
}

func (l *LeagueAnalyzer) DraftValue() (*DraftReport, error) {
	return NewDraftAnalyzer(l.values).Analyze(l.data)
}

func (l *LeagueAnalyzer) WaiverValue() (*WaiverReport, error) {
	return NewWaiverAnalyzer(l.values).Analyze(l.data)
}

func (l *LeagueAnalyzer) TradeValue() (*TradeReport, error) {
	return NewTradeAnalyzer(l.values, l.owners).Analyze(l.data)
}

func (l *LeagueAnalyzer) InjuryImpact() (*InjuryReport, error) {
	return NewInjuryAnalyzer(l.owners).Analyze(l.data)
}

func (l *LeagueAnalyzer) MatchupLuck() (*LuckReport, error) {
	return NewMatchupLuckAnalyzer(l.settings).Analyze(l.data)
}

func (l *LeagueAnalyzer) LineupEfficiency() (*LineupReport, error) {
	return NewLineupAnalyzer(l.settings).Analyze(l.data)
}

type Award struct {
	Title  string  `json:"title"`
	TeamID string  `json:"team_id"`
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
}

// Report is the full season recap across every dimension.
type Report struct {
	LeagueID    string        `json:"league_id"`
	Season      string        `json:"season"`
	GeneratedAt time.Time     `json:"generated_at"`
	Draft       *DraftReport  `json:"draft"`
	Lineups     *LineupReport `json:"lineups"`
	Trades      *TradeReport  `json:"trades"`
	Waivers     *WaiverReport `json:"waivers"`
	Injuries    *InjuryReport `json:"injuries"`
	Luck        *LuckReport   `json:"luck"`
	Awards      []Award       `json:"awards"`
}

func (r *Report) Dimensions() []Dimension {
	return []Dimension{
		r.Draft.Dimension,
		r.Lineups.Dimension,
		r.Trades.Dimension,
		r.Waivers.Dimension,
		r.Injuries.Dimension,
		r.Luck.Dimension,
	}
}

// Analyze runs every dimension. The analyzers only read the snapshot, so
// they run concurrently.
func (l *LeagueAnalyzer) Analyze() (*Report, error) {
	report := &Report{
		LeagueID:    l.data.LeagueID,
		Season:      l.data.Season,
		GeneratedAt: time.Now().UTC(),
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s analysis: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	run(DimensionDraft, func() (err error) { report.Draft, err = l.DraftValue(); return })
	run(DimensionLineups, func() (err error) { report.Lineups, err = l.LineupEfficiency(); return })
	run(DimensionTrades, func() (err error) { report.Trades, err = l.TradeValue(); return })
	run(DimensionWaivers, func() (err error) { report.Waivers, err = l.WaiverValue(); return })
	run(DimensionInjuries, func() (err error) { report.Injuries, err = l.InjuryImpact(); return })
	run(DimensionLuck, func() (err error) { report.Luck, err = l.MatchupLuck(); return })
	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	report.Awards = awards(report)
	return report, nil
}

func awards(r *Report) []Award {
	var out []Award
	add := func(title, metric string, res Result, ok bool) {
		if ok {
			out = append(out, Award{Title: title, TeamID: res.TeamID, Metric: metric, Value: res.Score})
		}
	}

	res, ok := r.Draft.Dimension.Leader()
	add("Best Drafter", "value over expected", res, ok)
	res, ok = r.Lineups.Dimension.Leader()
	add("Best Decision Maker", "lineup efficiency", res, ok)
	res, ok = r.Trades.Dimension.Leader()
	add("Best Trader", "trade point differential", res, ok)
	res, ok = r.Waivers.Dimension.Leader()
	add("Best In-Season Manager", "waiver points", res, ok)
	res, ok = r.Injuries.Dimension.Leader()
	add("Worst Injury Luck", "points lost to injury", res, ok)
	res, ok = r.Luck.Dimension.Trailer()
	add("Worst Matchup Luck", "luck rating", res, ok)
	return out
}

func validate(data *models.LeagueData, settings Settings) error {
	teams := make(map[string]bool, len(data.Rosters))
	for _, r := range data.Rosters {
		if r.TeamID == "" {
			return malformed("", 0, "roster without team id")
		}
		if teams[r.TeamID] {
			return malformed(r.TeamID, 0, "duplicate roster")
		}
		teams[r.TeamID] = true

		players := make(map[string]bool, len(r.Players))
		for _, p := range r.Players {
			players[p] = true
		}
		for _, s := range r.Starters {
			if !players[s] {
				return malformed(r.TeamID, 0, "starter %s not on roster", s)
			}
		}
	}

	if err := validateMatchups(data.Matchups, teams, settings); err != nil {
		return err
	}

	type draftSlot struct{ round, slot int }
	seen := make(map[draftSlot]bool, len(data.Draft))
	for _, pick := range data.Draft {
		if pick.Round < 1 || pick.Slot < 1 {
			return malformed(pick.TeamID, 0, "draft pick %d.%d out of range", pick.Round, pick.Slot)
		}
		key := draftSlot{pick.Round, pick.Slot}
		if seen[key] {
			return malformed(pick.TeamID, 0, "duplicate draft pick %d.%d", pick.Round, pick.Slot)
		}
		seen[key] = true
	}

	for playerID, stats := range data.PlayerStats {
		if stats == nil {
			continue
		}
		if math.Abs(stats.SumWeeklyPoints()-stats.TotalPoints) > totalPointsTolerance {
			return malformed("", 0, "player %s total points %.2f do not match weekly sum %.2f",
				playerID, stats.TotalPoints, stats.SumWeeklyPoints())
		}
	}
	return nil
}

func validateMatchups(matchups []models.Matchup, teams map[string]bool, settings Settings) error {
	type teamWeek struct {
		week int
		team string
	}
	rows := make(map[teamWeek]models.Matchup, len(matchups))
	weeks := make(map[int]bool)
	for _, m := range matchups {
		if !teams[m.TeamID] {
			return malformed(m.TeamID, m.Week, "matchup for unknown team")
		}
		if m.Week < 1 || m.Week > settings.SeasonLength {
			return malformed(m.TeamID, m.Week, "week outside 1..%d", settings.SeasonLength)
		}
		if m.Opponent == m.TeamID {
			return malformed(m.TeamID, m.Week, "matchup paired with itself")
		}
		weeks[m.Week] = true
		key := teamWeek{m.Week, m.TeamID}
		if _, dup := rows[key]; dup {
			return malformed(m.TeamID, m.Week, "duplicate matchup row")
		}
		rows[key] = m
	}

	for key, m := range rows {
		opp, ok := rows[teamWeek{key.week, m.Opponent}]
		if !ok {
			return malformed(m.TeamID, m.Week, "opponent %s has no matchup row", m.Opponent)
		}
		if opp.Opponent != m.TeamID || opp.Points != m.OpponentPoints || opp.OpponentPoints != m.Points {
			return malformed(m.TeamID, m.Week, "matchup with %s is not symmetric", m.Opponent)
		}
	}

	// A week with any rows must have one for every team.
	for week := range weeks {
		for team := range teams {
			if _, ok := rows[teamWeek{week, team}]; !ok {
				return malformed(team, week, "no matchup row")
			}
		}
	}
	return nil
}
