// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"

	"reportify_notifier/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	adminService *app.AdminService,
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if adminService.IsAdmin(senderID) {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Halo, Admin %s! Bot notifikasi Reportify siap. Gunakan /help untuk daftar perintah.", c.Sender().FirstName))
		}

		logCtx.Info("User is unknown")
		return c.Send("Halo! Bot ini hanya untuk admin Reportify. Laporan sesi kelas dikirim ke orang tua melalui WhatsApp atau email.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if !adminService.IsAdmin(senderID) {
			logCtx.Info("User is unknown, sending restricted help.")
			return c.Send("Tidak ada perintah yang tersedia untuk Anda.")
		}
		return c.Send(adminHelpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}

func adminHelpText() string {
	var helpText strings.Builder
	helpText.WriteString("Perintah Admin:\n\n")
	helpText.WriteString("`/sweep`\n - Jalankan sweep notifikasi sekarang.\n\n")
	helpText.WriteString("`/send_report <id_jadwal> <YYYY-MM-DD>`\n - Kirim laporan sesi satu jadwal ke orang tua.\n\n")
	helpText.WriteString("`/preview <id_jadwal> <YYYY-MM-DD>`\n - Lihat pesan tanpa mengirim.\n\n")
	helpText.WriteString("`/help`\n - Tampilkan pesan ini.")
	return helpText.String()
}
