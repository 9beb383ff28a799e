package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("LEAGUE_ID", "123456")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if cfg.Sleeper.LeagueID != "123456" {
		t.Errorf("LeagueID = %q, want 123456", cfg.Sleeper.LeagueID)
	}
	s := cfg.Analysis.Settings()
	if s.SeasonLength != 17 || s.TopK != 3 || s.CloseGameThreshold != 5 {
		t.Errorf("settings = %+v, want defaults", s)
	}
	if s.WeekLength != 7*24*time.Hour {
		t.Errorf("WeekLength = %v, want 168h", s.WeekLength)
	}
	if !s.SeasonStart.IsZero() {
		t.Errorf("SeasonStart = %v, want unset", s.SeasonStart)
	}
	if s.DraftValueMode != analysis.DraftValueLinear {
		t.Errorf("DraftValueMode = %q, want linear", s.DraftValueMode)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty", cfg.Redis.Addr)
	}
	if cfg.MCP.Addr != ":8080" || !cfg.MCP.RequireAuth {
		t.Errorf("MCP = %+v, want :8080 with auth required", cfg.MCP)
	}
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("LEAGUE_ID", "1")
	t.Setenv("SEASON_LENGTH", "14")
	t.Setenv("DRAFT_VALUE_MODE", "rounds")
	t.Setenv("SEASON_START", "2025-09-04T00:00:00Z")
	t.Setenv("WEEK_LENGTH", "72h")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	s := cfg.Analysis.Settings()
	if s.SeasonLength != 14 {
		t.Errorf("SeasonLength = %d, want 14", s.SeasonLength)
	}
	if s.DraftValueMode != analysis.DraftValueRoundTable {
		t.Errorf("DraftValueMode = %q, want rounds", s.DraftValueMode)
	}
	if s.SeasonStart.Year() != 2025 {
		t.Errorf("SeasonStart = %v, want 2025", s.SeasonStart)
	}
	if s.WeekLength != 72*time.Hour {
		t.Errorf("WeekLength = %v, want 72h", s.WeekLength)
	}
}

func TestNew_MissingLeague(t *testing.T) {
	t.Setenv("LEAGUE_ID", "")
	os.Unsetenv("LEAGUE_ID")

	if _, err := New(); err == nil {
		t.Error("New succeeded without LEAGUE_ID")
	}
}

func TestLoadScoringRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	content := "rec: 0.5\nrec_yd: 0.1\nrec_td: 6\npass_td: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	rules, err := LoadScoringRules(path)
	if err != nil {
		t.Fatalf("LoadScoringRules error: %v", err)
	}
	if len(rules) != 4 || rules["rec"] != 0.5 || rules["pass_td"] != 4 {
		t.Errorf("rules = %v, want the four configured weights", rules)
	}
}

func TestLoadScoringRules_Default(t *testing.T) {
	rules, err := LoadScoringRules("")
	if err != nil {
		t.Fatalf("LoadScoringRules error: %v", err)
	}
	if rules["pts_ppr"] != 1 {
		t.Errorf("rules = %v, want PPR default", rules)
	}
}

func TestLoadScoringRules_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.WriteFile(bad, []byte("rec: [1, 2"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	for _, path := range []string{empty, bad, filepath.Join(dir, "missing.yaml")} {
		if _, err := LoadScoringRules(path); err == nil {
			t.Errorf("LoadScoringRules(%s) succeeded, want error", filepath.Base(path))
		}
	}
}
