package notify

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/telebot.v3"

	"github.com/campuscard/card_backend/internal/models"
)

// Telegram sends anomaly alerts to a fixed ops chat. It is optional: a nil
// *Telegram is a no-op, so the controllers never check wiring.
type Telegram struct {
	bot  *telebot.Bot
	chat telebot.ChatID
	log  *zap.Logger
}

// NewTelegram builds the alert sender. chatID is the raw Telegram chat id
// as configured in TELEGRAM_CHAT_ID.
func NewTelegram(token, chatID string, logger *zap.Logger) (*Telegram, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("notify: invalid chat id %q: %w", chatID, err)
	}
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("notify: telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chat: telebot.ChatID(id), log: logger}, nil
}

// AnomalyDetected fires an alert for a newly written anomaly row. Sending
// runs on its own goroutine so the request path never waits on Telegram.
func (t *Telegram) AnomalyDetected(a models.Anomaly) {
	if t == nil {
		return
	}
	msg := fmt.Sprintf("⚠️ %s anomaly (%s/%s) at %s\n%s",
		a.Severity, a.Type, a.Source, a.Timestamp.UTC().Format(time.RFC3339), a.Details)
	go func() {
		if _, err := t.bot.Send(t.chat, msg); err != nil {
			t.log.Warn("telegram alert failed", zap.Error(err))
		}
	}()
}
