package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WrappedService renders each report as Telegram markdown.
type WrappedService interface {
	GetWrapped(ctx context.Context) (string, error)
	GetDraftReport(ctx context.Context) (string, error)
	GetWaiverReport(ctx context.Context) (string, error)
	GetTradeReport(ctx context.Context) (string, error)
	GetInjuryReport(ctx context.Context) (string, error)
	GetLuckReport(ctx context.Context) (string, error)
	GetLineupReport(ctx context.Context) (string, error)
	GetTeamReport(ctx context.Context, teamName string) (string, error)
	Refresh(ctx context.Context) (string, error)
}

const helpText = "Available commands:\n" +
	"/wrapped - Season awards and leaders\n" +
	"/draft - Draft value over expected\n" +
	"/waivers - Waiver wire value\n" +
	"/trades - Trade winners and losers\n" +
	"/injuries - Points lost to injury\n" +
	"/luck - Matchup luck vs expected wins\n" +
	"/lineups - Lineup efficiency\n" +
	"/team <team> - One team's season\n" +
	"/refresh - Reload league data"

type Handler struct {
	service WrappedService
}

func NewHandler(service WrappedService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = tgbotapi.ModeMarkdown

	switch command {
	case "start":
		msg.Text = "Welcome to League Wrapped! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "wrapped":
		text, err := h.service.GetWrapped(ctx)
		h.reply(&msg, "wrapped report", text, err)
	case "draft":
		text, err := h.service.GetDraftReport(ctx)
		h.reply(&msg, "draft report", text, err)
	case "waivers":
		text, err := h.service.GetWaiverReport(ctx)
		h.reply(&msg, "waiver report", text, err)
	case "trades":
		text, err := h.service.GetTradeReport(ctx)
		h.reply(&msg, "trade report", text, err)
	case "injuries":
		text, err := h.service.GetInjuryReport(ctx)
		h.reply(&msg, "injury report", text, err)
	case "luck":
		text, err := h.service.GetLuckReport(ctx)
		h.reply(&msg, "luck report", text, err)
	case "lineups":
		text, err := h.service.GetLineupReport(ctx)
		h.reply(&msg, "lineup report", text, err)
	case "team":
		h.handleTeam(ctx, &msg, args)
	case "refresh":
		text, err := h.service.Refresh(ctx)
		h.reply(&msg, "league data", text, err)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, what, text string, err error) {
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching %s: %v", what, err)
		msg.ParseMode = ""
		return
	}
	msg.Text = text
}

func (h *Handler) handleTeam(ctx context.Context, msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a team name. Usage: /team <team name>"
		return
	}
	result, err := h.service.GetTeamReport(ctx, args)
	h.reply(msg, "team report", result, err)
}
