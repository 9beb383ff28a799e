package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
)

func testReport() *analysis.Report {
	return &analysis.Report{
		LeagueID:    "L1",
		Season:      "2024",
		GeneratedAt: time.Date(2024, time.December, 18, 8, 0, 0, 0, time.UTC),
		Awards: []analysis.Award{
			{Title: "Best Drafter", TeamID: "3", Metric: "value over expected", Value: 112.5},
		},
	}
}

func TestStreamValues(t *testing.T) {
	values, err := streamValues(testReport())
	if err != nil {
		t.Fatalf("streamValues error: %v", err)
	}

	if values["league_id"] != "L1" || values["season"] != "2024" {
		t.Errorf("values = %v, want league L1 season 2024", values)
	}
	if values["generated_at"] != "2024-12-18T08:00:00Z" {
		t.Errorf("generated_at = %v", values["generated_at"])
	}

	var decoded analysis.Report
	if err := json.Unmarshal([]byte(values["data"].(string)), &decoded); err != nil {
		t.Fatalf("data is not a report: %v", err)
	}
	if len(decoded.Awards) != 1 || decoded.Awards[0].TeamID != "3" {
		t.Errorf("decoded awards = %+v", decoded.Awards)
	}
}
