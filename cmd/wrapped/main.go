package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
	"github.com/omarshaarawi/leaguewrapped/internal/api/fantasy"
	"github.com/omarshaarawi/leaguewrapped/internal/api/sleeper"
	"github.com/omarshaarawi/leaguewrapped/internal/config"
	"github.com/omarshaarawi/leaguewrapped/internal/models"
	"github.com/omarshaarawi/leaguewrapped/internal/repository/memory"
	"github.com/omarshaarawi/leaguewrapped/internal/service"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	snapshotFlag     = "snapshot"
	leagueFlag       = "league"
	seasonFlag       = "season"
	scoringFlag      = "scoring"
	formatFlag       = "format"
	outputFlag       = "output"
	seasonLengthFlag = "season-length"
	closeGameFlag    = "close-game"
	topKFlag         = "top-k"
	draftModeFlag    = "draft-mode"
	seasonStartFlag  = "season-start"
	stdoutCLIName    = "-"

	formatYAML = "yaml"
	formatJSON = "json"
	formatText = "text"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

// snapshotFile serves a previously fetched snapshot from disk.
type snapshotFile struct {
	path string
}

func (f snapshotFile) LoadSnapshot(ctx context.Context) (*models.LeagueData, error) {
	return loadSnapshotFile(f.path)
}

func loadSnapshotFile(path string) (*models.LeagueData, error) {
	var r io.Reader = os.Stdin
	if path != stdoutCLIName {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	var data models.LeagueData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding snapshot: %w", err)
	}
	return &data, nil
}

// writeReport encodes report as yaml or json. YAML keys follow the json tags.
func writeReport(w io.Writer, report *analysis.Report, format string) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding report: %w", err)
	}

	switch format {
	case formatJSON:
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case formatYAML:
		var tree map[string]any
		if err := json.Unmarshal(raw, &tree); err != nil {
			return err
		}
		yamlEncoder := yaml.NewEncoder(w)
		yamlEncoder.SetIndent(2)
		if err := yamlEncoder.Encode(tree); err != nil {
			return fmt.Errorf("encoding to YAML failed: %w", err)
		}
		if err := yamlEncoder.Close(); err != nil {
			return fmt.Errorf("encoding to YAML failed on close: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func settingsFromFlags(cCtx *cli.Context) (analysis.Settings, error) {
	settings := analysis.DefaultSettings()
	settings.SeasonLength = cCtx.Int(seasonLengthFlag)
	settings.CloseGameThreshold = cCtx.Float64(closeGameFlag)
	settings.TopK = cCtx.Int(topKFlag)

	if start := cCtx.String(seasonStartFlag); start != "" {
		t, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return settings, fmt.Errorf("invalid --%s: %w", seasonStartFlag, err)
		}
		settings.SeasonStart = t
	}

	switch mode := analysis.DraftValueMode(cCtx.String(draftModeFlag)); mode {
	case analysis.DraftValueLinear, analysis.DraftValueRoundTable:
		settings.DraftValueMode = mode
	default:
		return settings, fmt.Errorf("unknown draft mode: %s", mode)
	}
	return settings, nil
}

func outputWriter(location string) (io.WriteCloser, error) {
	if location == stdoutCLIName {
		return nopCloser{os.Stdout}, nil
	}
	return os.OpenFile(location, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func analyzeAction(cCtx *cli.Context) error {
	settings, err := settingsFromFlags(cCtx)
	if err != nil {
		return err
	}
	rules, err := config.LoadScoringRules(cCtx.String(scoringFlag))
	if err != nil {
		return err
	}

	var source service.SnapshotSource
	switch {
	case cCtx.String(snapshotFlag) != "":
		source = snapshotFile{path: cCtx.String(snapshotFlag)}
	case cCtx.String(leagueFlag) != "":
		source = sleeperSource(cCtx, settings, rules)
	default:
		return fmt.Errorf("one of --%s or --%s is required", snapshotFlag, leagueFlag)
	}

	svc := service.NewWrappedService(source, memory.NewRepository(), settings, rules)
	out, err := outputWriter(cCtx.String(outputFlag))
	if err != nil {
		return err
	}
	defer out.Close()

	format := strings.ToLower(cCtx.String(formatFlag))
	if format == formatText {
		text, err := svc.GetWrapped(cCtx.Context)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, text)
		return err
	}

	report, _, err := svc.Report(cCtx.Context)
	if err != nil {
		return err
	}
	return writeReport(out, report, format)
}

func fetchAction(cCtx *cli.Context) error {
	settings, err := settingsFromFlags(cCtx)
	if err != nil {
		return err
	}
	rules, err := config.LoadScoringRules(cCtx.String(scoringFlag))
	if err != nil {
		return err
	}

	data, err := sleeperSource(cCtx, settings, rules).LoadSnapshot(cCtx.Context)
	if err != nil {
		return err
	}

	out, err := outputWriter(cCtx.String(outputFlag))
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func sleeperSource(cCtx *cli.Context, settings analysis.Settings, rules analysis.ScoringRules) *fantasy.API {
	client := sleeper.NewClient(config.Sleeper{
		LeagueID: cCtx.String(leagueFlag),
		Season:   cCtx.String(seasonFlag),
	})
	return fantasy.NewAPI(sleeper.NewAPI(client), settings, rules)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Error running wrapped", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	analysisFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  scoringFlag,
			Usage: "YAML file mapping stat categories to points (default PPR)",
		},
		&cli.IntFlag{
			Name:  seasonLengthFlag,
			Usage: "Number of regular season weeks",
			Value: 17,
		},
		&cli.Float64Flag{
			Name:  closeGameFlag,
			Usage: "Margin at or under which a game counts as close",
			Value: 5,
		},
		&cli.IntFlag{
			Name:  topKFlag,
			Usage: "Length of best and worst lists",
			Value: 3,
		},
		&cli.StringFlag{
			Name:  seasonStartFlag,
			Usage: "Kickoff date (YYYY-MM-DD) for mapping transactions to weeks (default: the season's kickoff)",
		},
		&cli.StringFlag{
			Name:  draftModeFlag,
			Usage: "Expected draft value model: linear or rounds",
			Value: string(analysis.DraftValueLinear),
		},
	}
	sleeperFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    leagueFlag,
			Aliases: []string{"l"},
			Usage:   "Sleeper league id to fetch",
			EnvVars: []string{"LEAGUE_ID"},
		},
		&cli.StringFlag{
			Name:    seasonFlag,
			Usage:   "NFL season for weekly stats",
			Value:   "2024",
			EnvVars: []string{"SEASON"},
		},
	}
	outputFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    outputFlag,
			Aliases: []string{"o"},
			Usage:   "Where to write the result. Can be a file path or \"-\" (for stdout).",
			Value:   stdoutCLIName,
		},
	}

	return &cli.App{
		Name:    "wrapped",
		Usage:   "Season recap for a Sleeper fantasy football league",
		Version: semanticVersion,
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Analyze a saved snapshot or a live league",
				Flags: concat(analysisFlags, sleeperFlags, outputFlags, []cli.Flag{
					&cli.StringFlag{
						Name:    snapshotFlag,
						Aliases: []string{"s"},
						Usage:   "Snapshot JSON written by fetch, or \"-\" for stdin",
					},
					&cli.StringFlag{
						Name:    formatFlag,
						Aliases: []string{"f"},
						Usage:   "Output format: yaml, json or text",
						Value:   formatYAML,
					},
				}),
				Action: analyzeAction,
			},
			{
				Name:   "fetch",
				Usage:  "Download a league season from Sleeper into a snapshot file",
				Flags:  concat(analysisFlags, sleeperFlags, outputFlags),
				Before: requireLeague,
				Action: fetchAction,
			},
		},
	}
}

func requireLeague(cCtx *cli.Context) error {
	if cCtx.String(leagueFlag) == "" {
		return fmt.Errorf("--%s or LEAGUE_ID is required", leagueFlag)
	}
	return nil
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}
