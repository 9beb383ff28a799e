package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is Telegram's per-message text limit. Counting bytes keeps
// chunks under it for any text.
const maxMessageLength = 4096

type TelegramBot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, service WrappedService) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}

	return &TelegramBot{
		api:     api,
		handler: NewHandler(service),
		chatID:  chatID,
	}, nil
}

func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.api.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			reply := t.handler.HandleCommand(ctx, update)
			if err := t.send(reply); err != nil {
				slog.Error("Error replying to command", "command", update.Message.Command(), "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// SendMessage posts markdown text to the configured league chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return errors.New("chat ID not set")
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return t.send(msg)
}

// send delivers msg in chunks that fit the length limit. A chunk rejected as
// bad markdown, usually from an underscore in a team name, goes out as plain text.
func (t *TelegramBot) send(msg tgbotapi.MessageConfig) error {
	for _, chunk := range splitMessage(msg.Text, maxMessageLength) {
		part := msg
		part.Text = chunk

		_, err := t.api.Send(part)
		if err != nil && part.ParseMode != "" && strings.Contains(err.Error(), "can't parse entities") {
			slog.Warn("Markdown rejected, resending as plain text", "error", err)
			part.ParseMode = ""
			_, err = t.api.Send(part)
		}
		if err != nil {
			return fmt.Errorf("error sending message: %w", err)
		}
	}
	return nil
}

// splitMessage cuts text at line breaks into chunks of at most limit bytes.
// A single line longer than limit is cut at a rune boundary.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}
