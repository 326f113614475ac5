package telegram

// Client defines an interface for sending plain messages via a Telegram bot.
// This keeps the alerting logic independent of the bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string) error
}
