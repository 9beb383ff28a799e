package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

func testSnapshot() *models.LeagueData {
	season := func(pts float64) *models.PlayerStats {
		p := &models.PlayerStats{WeeklyPoints: make([]float64, 17), GamesPlayed: 17, TotalPoints: pts * 17}
		for i := range p.WeeklyPoints {
			p.WeeklyPoints[i] = pts
		}
		return p
	}
	return &models.LeagueData{
		LeagueID:  "L1",
		Name:      "Test League",
		Season:    "2024",
		TeamNames: map[string]string{"1": "Alpha", "2": "Bravo"},
		Rosters: []models.Roster{
			{TeamID: "1", Players: []string{"p1"}, Starters: []string{"p1"}},
			{TeamID: "2", Players: []string{"p2"}, Starters: []string{"p2"}},
		},
		Matchups: []models.Matchup{
			{Week: 1, TeamID: "1", Points: 120, Opponent: "2", OpponentPoints: 95},
			{Week: 1, TeamID: "2", Points: 95, Opponent: "1", OpponentPoints: 120},
		},
		Draft: []models.DraftPick{
			{TeamID: "1", PlayerID: "p1", Round: 1, Slot: 1},
			{TeamID: "2", PlayerID: "p2", Round: 1, Slot: 2},
		},
		PlayerStats: map[string]*models.PlayerStats{"p1": season(15), "p2": season(8)},
	}
}

func writeSnapshot(t *testing.T, data *models.LeagueData) string {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func runApp(t *testing.T, args ...string) error {
	t.Helper()
	app := newApp()
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	return app.Run(append([]string{"wrapped"}, args...))
}

func TestAnalyze_JSON(t *testing.T) {
	snapshot := writeSnapshot(t, testSnapshot())
	out := filepath.Join(t.TempDir(), "report.json")

	if err := runApp(t, "analyze", "-s", snapshot, "-f", "json", "-o", out); err != nil {
		t.Fatalf("analyze error: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var report analysis.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if report.LeagueID != "L1" {
		t.Errorf("LeagueID = %q, want L1", report.LeagueID)
	}
	if len(report.Awards) == 0 {
		t.Error("Awards is empty")
	}
	if leader, ok := report.Draft.Dimension.Leader(); !ok || leader.TeamID != "1" {
		t.Errorf("draft leader = %+v, want team 1", leader)
	}
}

func TestAnalyze_WaiverWeekFollowsSeason(t *testing.T) {
	data := testSnapshot()
	data.Season = "2025"
	data.PlayerStats["p3"] = &models.PlayerStats{WeeklyPoints: make([]float64, 17)}
	data.Transactions = []models.Transaction{{
		ID:        "w1",
		Type:      models.TransactionWaiver,
		Status:    models.StatusComplete,
		TeamID:    "2",
		Adds:      []string{"p3"},
		Timestamp: time.Date(2025, time.September, 20, 12, 0, 0, 0, time.UTC),
	}}
	snapshot := writeSnapshot(t, data)

	for _, extra := range [][]string{nil, {"--season-start", "2025-09-04"}} {
		out := filepath.Join(t.TempDir(), "report.json")
		args := append([]string{"analyze", "-s", snapshot, "-f", "json", "-o", out}, extra...)
		if err := runApp(t, args...); err != nil {
			t.Fatalf("analyze %v error: %v", extra, err)
		}
		raw, _ := os.ReadFile(out)
		var report analysis.Report
		if err := json.Unmarshal(raw, &report); err != nil {
			t.Fatalf("unmarshal report: %v", err)
		}
		pickups := report.Waivers.Teams["2"].BestPickups
		if len(pickups) != 1 || pickups[0].Week != 3 {
			t.Errorf("analyze %v pickups = %+v, want one in week 3", extra, pickups)
		}
	}
}

func TestAnalyze_YAMLAndText(t *testing.T) {
	snapshot := writeSnapshot(t, testSnapshot())
	dir := t.TempDir()

	yamlOut := filepath.Join(dir, "report.yaml")
	if err := runApp(t, "analyze", "-s", snapshot, "-o", yamlOut); err != nil {
		t.Fatalf("analyze yaml error: %v", err)
	}
	raw, _ := os.ReadFile(yamlOut)
	if !strings.Contains(string(raw), "league_id: L1") {
		t.Errorf("yaml output missing league_id:\n%s", raw)
	}

	textOut := filepath.Join(dir, "report.txt")
	if err := runApp(t, "analyze", "-s", snapshot, "-f", "text", "-o", textOut); err != nil {
		t.Fatalf("analyze text error: %v", err)
	}
	raw, _ = os.ReadFile(textOut)
	if !strings.Contains(string(raw), "Test League 2024 Wrapped") {
		t.Errorf("text output missing title:\n%s", raw)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	snapshot := writeSnapshot(t, testSnapshot())
	out := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name string
		args []string
	}{
		{"no source", []string{"analyze", "-o", out}},
		{"unknown format", []string{"analyze", "-s", snapshot, "-f", "xml", "-o", out}},
		{"unknown draft mode", []string{"analyze", "-s", snapshot, "--draft-mode", "auction", "-o", out}},
		{"bad season start", []string{"analyze", "-s", snapshot, "--season-start", "Sept 4", "-o", out}},
		{"missing snapshot", []string{"analyze", "-s", filepath.Join(t.TempDir(), "nope.json"), "-o", out}},
		{"fetch without league", []string{"fetch", "-o", out}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LEAGUE_ID", "")
			if err := runApp(t, tt.args...); err == nil {
				t.Error("error = nil, want failure")
			}
		})
	}
}

func TestAnalyze_MalformedSnapshot(t *testing.T) {
	data := testSnapshot()
	data.Matchups = data.Matchups[:1]
	snapshot := writeSnapshot(t, data)

	err := runApp(t, "analyze", "-s", snapshot, "-f", "json", "-o", filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("error = nil, want malformed snapshot")
	}
}

func TestWriteReport(t *testing.T) {
	report := &analysis.Report{LeagueID: "L9", Season: "2023"}

	var buf bytes.Buffer
	if err := writeReport(&buf, report, formatYAML); err != nil {
		t.Fatalf("yaml error: %v", err)
	}
	if !strings.Contains(buf.String(), "season: \"2023\"") {
		t.Errorf("yaml = %s, want quoted season", buf.String())
	}

	buf.Reset()
	if err := writeReport(&buf, report, formatJSON); err != nil {
		t.Fatalf("json error: %v", err)
	}
	if !strings.Contains(buf.String(), `"league_id": "L9"`) {
		t.Errorf("json = %s, want league_id", buf.String())
	}

	if err := writeReport(&buf, report, "csv"); err == nil {
		t.Error("csv error = nil, want unknown format")
	}
}
