// internal/infra/telegram/client.go
package telegram

import (
	domainTelegram "reportify_notifier/internal/domain/telegram"

	"gopkg.in/telebot.v3"
)

// maxMessageLength is Telegram's limit for one text message.
const maxMessageLength = 4096

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

var _ domainTelegram.Client = (*TelebotAdapter)(nil)

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a plain text message to the specified chat.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string) error {
	recipient := &telebot.Chat{ID: recipientChatID}
	_, err := tba.bot.Send(recipient, clip(text), &telebot.SendOptions{DisableWebPagePreview: true})
	return err
}

// clip keeps text within Telegram's message limit, cutting on a rune boundary.
func clip(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return string(runes[:maxMessageLength-1]) + "…"
}
