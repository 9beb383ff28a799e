// Package mcptools exposes the league analyzers as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
)

// AnalyzerSource hands out an analyzer over the current snapshot.
type AnalyzerSource interface {
	Analyzer(ctx context.Context) (*analysis.LeagueAnalyzer, error)
}

type TeamArgs struct {
	TeamID string `json:"team_id,omitempty" jsonschema:"Roster id to return (optional, default all teams)"`
}

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Tools struct {
	source   AnalyzerSource
	registry []ToolInfo
}

// NewServer registers every analysis tool on a fresh MCP server.
func NewServer(source AnalyzerSource, version string) (*mcp.Server, *Tools) {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "league-wrapped",
			Version: version,
		},
		nil,
	)

	t := &Tools{source: source}
	t.add(server, &mcp.Tool{
		Name:        "draft_value",
		Description: "Season points over draft-slot expectation for every pick, ranked by team",
	}, t.DraftValue)
	t.add(server, &mcp.Tool{
		Name:        "waiver_value",
		Description: "Points scored by waiver and free agent pickups after the pickup week",
	}, t.WaiverValue)
	t.add(server, &mcp.Tool{
		Name:        "trade_value",
		Description: "Points received minus points given for each completed trade",
	}, t.TradeValue)
	t.add(server, &mcp.Tool{
		Name:        "injury_impact",
		Description: "Estimated points lost to injured players; rank 1 had the worst luck",
	}, t.InjuryImpact)
	t.add(server, &mcp.Tool{
		Name:        "matchup_luck",
		Description: "Actual wins minus expected wins from each week's score distribution",
	}, t.MatchupLuck)
	t.add(server, &mcp.Tool{
		Name:        "lineup_efficiency",
		Description: "Started points as a share of the best possible lineup each week",
	}, t.LineupEfficiency)
	t.add(server, &mcp.Tool{
		Name:        "wrapped_report",
		Description: "Every dimension plus season awards",
	}, t.WrappedReport)

	return server, t
}

func (t *Tools) add(server *mcp.Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[TeamArgs, any]) {
	t.registry = append(t.registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func (t *Tools) Registry() []ToolInfo {
	return t.registry
}

func (t *Tools) DraftValue(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	analyzer, err := t.source.Analyzer(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	report, err := analyzer.DraftValue()
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(teamView(report, report.Teams, report.Dimension, args.TeamID))
}

func (t *Tools) WaiverValue(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	analyzer, err := t.source.Analyzer(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	report, err := analyzer.WaiverValue()
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(teamView(report, report.Teams, report.Dimension, args.TeamID))
}

func (t *Tools) TradeValue(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	analyzer, err := t.source.Analyzer(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	report, err := analyzer.TradeValue()
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(teamView(report, report.Teams, report.Dimension, args.TeamID))
}

func (t *Tools) InjuryImpact(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	analyzer, err := t.source.Analyzer(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	report, err := analyzer.InjuryImpact()
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(teamView(report, report.Teams, report.Dimension, args.TeamID))
}

func (t *Tools) MatchupLuck(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	analyzer, err := t.source.Analyzer(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	report, err := analyzer.MatchupLuck()
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(teamView(report, report.Teams, report.Dimension, args.TeamID))
}

func (t *Tools) LineupEfficiency(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	analyzer, err := t.source.Analyzer(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	report, err := analyzer.LineupEfficiency()
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(teamView(report, report.Teams, report.Dimension, args.TeamID))
}

func (t *Tools) WrappedReport(ctx context.Context, _ *mcp.CallToolRequest, args TeamArgs) (*mcp.CallToolResult, any, error) {
	analyzer, err := t.source.Analyzer(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	report, err := analyzer.Analyze()
	if err != nil {
		return toolError(err), nil, nil
	}
	if args.TeamID == "" {
		return toolJSON(json.MarshalIndent(report, "", "  "))
	}

	out := map[string]any{"team_id": args.TeamID}
	found := false
	for _, dim := range report.Dimensions() {
		if r, ok := dim.ByTeam(args.TeamID); ok {
			out[dim.Name] = r
			found = true
		}
	}
	if !found {
		return toolError(fmt.Errorf("team not found: %s", args.TeamID)), nil, nil
	}
	var awards []analysis.Award
	for _, a := range report.Awards {
		if a.TeamID == args.TeamID {
			awards = append(awards, a)
		}
	}
	out["awards"] = awards
	return toolJSON(json.MarshalIndent(out, "", "  "))
}

// teamView narrows a dimension report to one team when teamID is set.
func teamView[T any](report any, teams map[string]*T, dim analysis.Dimension, teamID string) ([]byte, error) {
	if teamID == "" {
		return json.MarshalIndent(report, "", "  ")
	}
	team, ok := teams[teamID]
	if !ok {
		return nil, fmt.Errorf("team not found: %s", teamID)
	}
	result, _ := dim.ByTeam(teamID)
	return json.MarshalIndent(map[string]any{"team": team, "result": result}, "", "  ")
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
