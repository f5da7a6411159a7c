// Package alert delivers operational warnings to a Telegram chat. It backs
// the TelegramHandler slog handler, so notification-delivery failures and
// other WARN+ records reach operators even though requests succeed.
package alert

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"clubconnect/lib/sl"
)

type Bot struct {
	api    *tgbotapi.Bot
	chatId int64
	log    *slog.Logger
}

func New(apiKey string, chatId int64, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &Bot{
		api:    api,
		chatId: chatId,
		log:    logger.With(sl.Module("alert")),
	}, nil
}

// Send posts the message to the operations chat. Failures are logged to the
// base logger only; alerting must never recurse into itself.
func (b *Bot) Send(msg string) {
	_, err := b.api.SendMessage(b.chatId, msg, &tgbotapi.SendMessageOpts{
		ParseMode: "Markdown",
	})
	if err != nil {
		b.log.Error("sending alert", sl.Err(err))
	}
}
