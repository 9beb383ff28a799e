package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
	"github.com/omarshaarawi/leaguewrapped/internal/repository/memory"
)

type fakeSource struct {
	data  *models.LeagueData
	err   error
	loads int
}

func (f *fakeSource) LoadSnapshot(context.Context) (*models.LeagueData, error) {
	f.loads++
	return f.data, f.err
}

type fakePublisher struct {
	reports []*analysis.Report
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, report *analysis.Report) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, report)
	return nil
}

func testLeague() *models.LeagueData {
	flat := func(id, name string, pts float64) *models.PlayerStats {
		p := &models.PlayerStats{PlayerID: id, Name: name, WeeklyPoints: make([]float64, 17)}
		for i := range p.WeeklyPoints {
			p.WeeklyPoints[i] = pts
		}
		p.TotalPoints = pts * 17
		p.GamesPlayed = 17
		return p
	}
	return &models.LeagueData{
		LeagueID: "L1",
		Name:     "Office League",
		Season:   "2024",
		TeamNames: map[string]string{
			"1": "Gridiron Gang",
			"2": "Taco Tuesday",
			"3": "Fourth and Long",
			"4": "Hail Marys",
		},
		Rosters: []models.Roster{
			{TeamID: "1", Players: []string{"a"}},
			{TeamID: "2", Players: []string{"b"}},
			{TeamID: "3", Players: []string{"c"}},
			{TeamID: "4", Players: []string{"d"}},
		},
		Matchups: []models.Matchup{
			{Week: 1, TeamID: "1", Points: 120, Opponent: "2", OpponentPoints: 95},
			{Week: 1, TeamID: "2", Points: 95, Opponent: "1", OpponentPoints: 120},
			{Week: 1, TeamID: "3", Points: 101, Opponent: "4", OpponentPoints: 99},
			{Week: 1, TeamID: "4", Points: 99, Opponent: "3", OpponentPoints: 101},
		},
		Draft: []models.DraftPick{
			{TeamID: "1", PlayerID: "a", Round: 1, Slot: 1},
			{TeamID: "2", PlayerID: "b", Round: 1, Slot: 2},
		},
		PlayerStats: map[string]*models.PlayerStats{
			"a": flat("a", "Ace Runner", 14),
			"b": flat("b", "Bo Catch", 9),
			"c": flat("c", "Cal Arm", 18),
			"d": flat("d", "Dee Kick", 7),
		},
	}
}

func newTestService(source *fakeSource) *WrappedService {
	return NewWrappedService(source, memory.NewRepository(), analysis.DefaultSettings(), nil)
}

func TestWrappedService_CachesSnapshot(t *testing.T) {
	source := &fakeSource{data: testLeague()}
	svc := newTestService(source)
	ctx := context.Background()

	if _, err := svc.GetLuckReport(ctx); err != nil {
		t.Fatalf("GetLuckReport error: %v", err)
	}
	if _, err := svc.GetDraftReport(ctx); err != nil {
		t.Fatalf("GetDraftReport error: %v", err)
	}
	if source.loads != 1 {
		t.Errorf("loads = %d, want 1", source.loads)
	}

	msg, err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if source.loads != 2 {
		t.Errorf("loads after refresh = %d, want 2", source.loads)
	}
	if !strings.Contains(msg, "Office League") || !strings.Contains(msg, "4 teams") {
		t.Errorf("refresh message = %q", msg)
	}
}

func TestWrappedService_SourceError(t *testing.T) {
	svc := newTestService(&fakeSource{err: errors.New("upstream down")})
	if _, err := svc.GetWrapped(context.Background()); err == nil {
		t.Error("GetWrapped succeeded with failing source")
	}
}

func TestWrappedService_MalformedSnapshot(t *testing.T) {
	data := testLeague()
	data.Matchups = data.Matchups[1:]
	svc := newTestService(&fakeSource{data: data})

	_, err := svc.GetLuckReport(context.Background())
	if !errors.Is(err, analysis.ErrMalformedSnapshot) {
		t.Errorf("error = %v, want ErrMalformedSnapshot", err)
	}
}

func TestWrappedService_Reports(t *testing.T) {
	svc := newTestService(&fakeSource{data: testLeague()})
	ctx := context.Background()

	tests := []struct {
		name string
		get  func(context.Context) (string, error)
		want []string
	}{
		{"wrapped", svc.GetWrapped, []string{"Office League 2024 Wrapped", "Best Drafter", "Gridiron Gang"}},
		{"draft", svc.GetDraftReport, []string{"Draft Value", "Ace Runner"}},
		{"waivers", svc.GetWaiverReport, []string{"Waiver Wire", "0 pickups"}},
		{"trades", svc.GetTradeReport, []string{"Trade Results", "no trades"}},
		{"injuries", svc.GetInjuryReport, []string{"Injury Impact"}},
		{"luck", svc.GetLuckReport, []string{"Matchup Luck", "Taco Tuesday"}},
		{"lineups", svc.GetLineupReport, []string{"Lineup Efficiency", "no lineup data"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get(ctx)
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestWrappedService_GetTeamReport(t *testing.T) {
	svc := newTestService(&fakeSource{data: testLeague()})
	ctx := context.Background()

	got, err := svc.GetTeamReport(ctx, "taco tusday")
	if err != nil {
		t.Fatalf("GetTeamReport error: %v", err)
	}
	if !strings.Contains(got, "Taco Tuesday Wrapped") {
		t.Errorf("team report = %q, want Taco Tuesday", got)
	}

	got, err = svc.GetTeamReport(ctx, "zzzzzz")
	if err != nil {
		t.Fatalf("GetTeamReport error: %v", err)
	}
	if !strings.Contains(got, "No team found") {
		t.Errorf("unknown team report = %q", got)
	}
}

func TestFindTeam(t *testing.T) {
	data := testLeague()
	tests := []struct {
		query string
		want  string
		ok    bool
	}{
		{"Hail Marys", "4", true},
		{"hail marys", "4", true},
		{"Gridiron Gng", "1", true},
		{"4th", "", false},
		{"fourth", "3", true},
		{"3", "3", true},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := findTeam(data, tt.query)
			if ok != tt.ok || got != tt.want {
				t.Errorf("findTeam(%q) = %q, %v, want %q, %v", tt.query, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWrappedService_PublishReportOncePerSnapshot(t *testing.T) {
	source := &fakeSource{data: testLeague()}
	pub := &fakePublisher{}
	svc := newTestService(source).WithPublisher(pub)
	ctx := context.Background()

	if err := svc.PublishReport(ctx); err != nil {
		t.Fatalf("PublishReport error: %v", err)
	}
	if err := svc.PublishReport(ctx); err != nil {
		t.Fatalf("PublishReport error: %v", err)
	}
	if len(pub.reports) != 1 {
		t.Fatalf("published %d reports, want 1", len(pub.reports))
	}

	changed := testLeague()
	changed.Matchups[0].Points, changed.Matchups[1].OpponentPoints = 130, 130
	source.data = changed
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if err := svc.PublishReport(ctx); err != nil {
		t.Fatalf("PublishReport error: %v", err)
	}
	if len(pub.reports) != 2 {
		t.Errorf("published %d reports after change, want 2", len(pub.reports))
	}
}

func TestWrappedService_PublishFailureNotRecorded(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	svc := newTestService(&fakeSource{data: testLeague()}).WithPublisher(pub)
	ctx := context.Background()

	if err := svc.PublishReport(ctx); err == nil {
		t.Fatal("PublishReport succeeded with failing publisher")
	}
	pub.err = nil
	if err := svc.PublishReport(ctx); err != nil {
		t.Fatalf("PublishReport error: %v", err)
	}
	if len(pub.reports) != 1 {
		t.Errorf("published %d reports, want 1 after recovery", len(pub.reports))
	}
}

func TestWrappedService_NoPublisher(t *testing.T) {
	source := &fakeSource{data: testLeague()}
	if err := newTestService(source).PublishReport(context.Background()); err != nil {
		t.Errorf("PublishReport error: %v", err)
	}
	if source.loads != 0 {
		t.Errorf("loads = %d, want 0 without a publisher", source.loads)
	}
}
