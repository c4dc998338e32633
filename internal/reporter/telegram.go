package reporter

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"go-jobscout-automation/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	return newTelegramNotifier(token, chatID, tgbotapi.APIEndpoint)
}

func newTelegramNotifier(token string, chatID int64, endpoint string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{})
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramNotifier) Notify(_ context.Context, s models.RunSummary) error {
	return t.SendMessage(FormatTelegram(s))
}

func FormatTelegram(s models.RunSummary) string {
	icon := "✅"
	if s.Status != models.RunSuccess {
		icon = "⚠️"
	}
	return fmt.Sprintf(
		"%s <b>JobScout run %s</b>\n"+
			"📊 Total: %d\n"+
			"🌍 Remote: %d · Hybrid: %d · Offline: %d\n"+
			"💼 LinkedIn: %d · Indeed: %d · Bayt: %d\n"+
			"⏱ %.2fs\n"+
			"<code>%s</code>",
		icon, html.EscapeString(string(s.Status)),
		s.Total,
		s.ByWorkMode[models.WorkModeRemote], s.ByWorkMode[models.WorkModeHybrid], s.ByWorkMode[models.WorkModeOffline],
		s.BySource[models.SourceLinkedIn], s.BySource[models.SourceIndeed], s.BySource[models.SourceBayt],
		s.DurationSeconds(),
		html.EscapeString(s.RunID),
	)
}
