package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
)

type fakeSource struct {
	data *models.LeagueData
	err  error
}

func (f *fakeSource) Analyzer(ctx context.Context) (*analysis.LeagueAnalyzer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return analysis.NewLeagueAnalyzer(f.data, analysis.DefaultSettings(), nil)
}

func twoTeamLeague() *models.LeagueData {
	weekly := func(pts float64) *models.PlayerStats {
		p := &models.PlayerStats{WeeklyPoints: make([]float64, 17)}
		for i := range p.WeeklyPoints {
			p.WeeklyPoints[i] = pts
		}
		p.GamesPlayed = 17
		p.TotalPoints = pts * 17
		return p
	}
	return &models.LeagueData{
		LeagueID:  "L1",
		Season:    "2024",
		TeamNames: map[string]string{"1": "Alpha", "2": "Bravo"},
		Rosters: []models.Roster{
			{TeamID: "1", Players: []string{"p1"}, Starters: []string{"p1"}},
			{TeamID: "2", Players: []string{"p2"}, Starters: []string{"p2"}},
		},
		Matchups: []models.Matchup{
			{Week: 1, TeamID: "1", Points: 110, Opponent: "2", OpponentPoints: 90},
			{Week: 1, TeamID: "2", Points: 90, Opponent: "1", OpponentPoints: 110},
		},
		Draft: []models.DraftPick{
			{TeamID: "1", PlayerID: "p1", Round: 1, Slot: 1},
			{TeamID: "2", PlayerID: "p2", Round: 1, Slot: 2},
		},
		PlayerStats: map[string]*models.PlayerStats{
			"p1": weekly(14),
			"p2": weekly(9),
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("result content = %+v, want one item", res)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func TestTools_DimensionHandlers(t *testing.T) {
	_, tools := NewServer(&fakeSource{data: twoTeamLeague()}, "test")
	ctx := context.Background()

	handlers := map[string]mcp.ToolHandlerFor[TeamArgs, any]{
		"draft_value":       tools.DraftValue,
		"waiver_value":      tools.WaiverValue,
		"trade_value":       tools.TradeValue,
		"injury_impact":     tools.InjuryImpact,
		"matchup_luck":      tools.MatchupLuck,
		"lineup_efficiency": tools.LineupEfficiency,
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			res, _, err := handler(ctx, nil, TeamArgs{})
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if res.IsError {
				t.Fatalf("IsError = true: %s", resultText(t, res))
			}
			var body struct {
				Dimension analysis.Dimension `json:"dimension"`
			}
			if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(body.Dimension.Results) != 2 {
				t.Errorf("results = %d, want 2", len(body.Dimension.Results))
			}
		})
	}
}

func TestTools_TeamFilter(t *testing.T) {
	_, tools := NewServer(&fakeSource{data: twoTeamLeague()}, "test")
	ctx := context.Background()

	res, _, _ := tools.DraftValue(ctx, nil, TeamArgs{TeamID: "1"})
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	var body struct {
		Result analysis.Result `json:"result"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Result.TeamID != "1" || body.Result.Rank != 1 {
		t.Errorf("result = %+v, want team 1 ranked 1", body.Result)
	}

	res, _, _ = tools.DraftValue(ctx, nil, TeamArgs{TeamID: "99"})
	if !res.IsError {
		t.Error("unknown team IsError = false, want true")
	}
}

func TestTools_WrappedReport(t *testing.T) {
	_, tools := NewServer(&fakeSource{data: twoTeamLeague()}, "test")
	ctx := context.Background()

	res, _, _ := tools.WrappedReport(ctx, nil, TeamArgs{})
	var report analysis.Report
	if err := json.Unmarshal([]byte(resultText(t, res)), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.LeagueID != "L1" || len(report.Awards) == 0 {
		t.Errorf("report = %s/%d awards, want L1 with awards", report.LeagueID, len(report.Awards))
	}

	res, _, _ = tools.WrappedReport(ctx, nil, TeamArgs{TeamID: "2"})
	var team map[string]json.RawMessage
	if err := json.Unmarshal([]byte(resultText(t, res)), &team); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{analysis.DimensionDraft, analysis.DimensionLuck, "awards"} {
		if _, ok := team[key]; !ok {
			t.Errorf("team view missing %q", key)
		}
	}

	res, _, _ = tools.WrappedReport(ctx, nil, TeamArgs{TeamID: "99"})
	if !res.IsError {
		t.Error("unknown team IsError = false, want true")
	}
}

func TestTools_SourceError(t *testing.T) {
	_, tools := NewServer(&fakeSource{err: errors.New("sleeper down")}, "test")

	res, _, err := tools.MatchupLuck(context.Background(), nil, TeamArgs{})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("IsError = false, want true")
	}
	if got := resultText(t, res); got != "error: sleeper down" {
		t.Errorf("text = %q, want %q", got, "error: sleeper down")
	}
}

func TestNewServer_ListTools(t *testing.T) {
	server, tools := NewServer(&fakeSource{data: twoTeamLeague()}, "test")
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	list, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(list.Tools) != len(tools.Registry()) || len(list.Tools) != 7 {
		t.Errorf("tools = %d, registry = %d, want 7", len(list.Tools), len(tools.Registry()))
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "matchup_luck",
		Arguments: map[string]any{"team_id": "1"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Errorf("IsError = true: %s", resultText(t, res))
	}
}

func TestNewHandler_Auth(t *testing.T) {
	server, tools := NewServer(&fakeSource{data: twoTeamLeague()}, "test")
	handler := NewHandler(server, tools, "secret")

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"no key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"api key", "X-API-Key", "secret", http.StatusOK},
		{"bearer", "Authorization", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tools", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tools", nil)
	req.Header.Set("X-API-Key", "secret")
	handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "wrapped_report") {
		t.Errorf("/tools body missing wrapped_report: %s", rec.Body.String())
	}
}

func TestNewHandler_OpenWithoutKey(t *testing.T) {
	server, tools := NewServer(&fakeSource{data: twoTeamLeague()}, "test")
	handler := NewHandler(server, tools, "")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
