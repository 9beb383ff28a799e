package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/omarshaarawi/leaguewrapped/internal/analysis"
)

type Config struct {
	Sleeper     Sleeper
	TelegramBot TelegramBot
	Analysis    Analysis
	Redis       Redis
	MCP         MCP
}

type Sleeper struct {
	LeagueID string `envconfig:"LEAGUE_ID" required:"true"`
	Season   string `envconfig:"SEASON" default:"2024"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

// Analysis tunes the engine. An unset SEASON_START means kickoff of the
// league's season.
type Analysis struct {
	SeasonLength       int           `envconfig:"SEASON_LENGTH" default:"17"`
	CloseGameThreshold float64       `envconfig:"CLOSE_GAME_THRESHOLD" default:"5"`
	StarterThreshold   float64       `envconfig:"STARTER_THRESHOLD" default:"0.5"`
	TopK               int           `envconfig:"TOP_K" default:"3"`
	DraftValueMode     string        `envconfig:"DRAFT_VALUE_MODE" default:"linear"`
	DraftBaseline      float64       `envconfig:"DRAFT_BASELINE" default:"200"`
	DraftDecay         float64       `envconfig:"DRAFT_DECAY" default:"10"`
	PicksPerRound      int           `envconfig:"PICKS_PER_ROUND" default:"12"`
	SeasonStart        time.Time     `envconfig:"SEASON_START"`
	WeekLength         time.Duration `envconfig:"WEEK_LENGTH" default:"168h"`
	ScoringFile        string        `envconfig:"SCORING_FILE"`
}

// Redis is optional. An empty address disables report publishing.
type Redis struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	Stream   string `envconfig:"REDIS_STREAM" default:"leaguewrapped:reports"`
}

type MCP struct {
	Addr        string `envconfig:"MCP_ADDR" default:":8080"`
	APIKey      string `envconfig:"MCP_API_KEY"`
	RequireAuth bool   `envconfig:"MCP_REQUIRE_AUTH" default:"true"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Settings converts the environment values into engine settings.
func (a Analysis) Settings() analysis.Settings {
	return analysis.Settings{
		SeasonLength:       a.SeasonLength,
		CloseGameThreshold: a.CloseGameThreshold,
		StarterThreshold:   a.StarterThreshold,
		TopK:               a.TopK,
		DraftValueMode:     analysis.DraftValueMode(a.DraftValueMode),
		DraftBaseline:      a.DraftBaseline,
		DraftDecay:         a.DraftDecay,
		PicksPerRound:      a.PicksPerRound,
		SeasonStart:        a.SeasonStart,
		WeekLength:         a.WeekLength,
	}
}
