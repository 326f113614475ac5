package app

import (
	"errors"
	"fmt"
	"strings"

	domainTelegram "reportify_notifier/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// SweepAlerter pushes sweep problems to the admin Telegram chat.
// A nil client disables alerting.
type SweepAlerter struct {
	client      domainTelegram.Client
	adminChatID int64
	logger      *logrus.Entry
}

func NewSweepAlerter(client domainTelegram.Client, adminChatID int64, logger *logrus.Entry) *SweepAlerter {
	return &SweepAlerter{client: client, adminChatID: adminChatID, logger: logger}
}

// Notify sends one alert for a failed sweep or for schedules that need attention.
// It stays silent for clean sweeps and for ErrSweepInProgress.
func (a *SweepAlerter) Notify(report *SweepReport, sweepErr error) {
	if a == nil || a.client == nil || a.adminChatID == 0 {
		return
	}
	text := alertText(report, sweepErr)
	if text == "" {
		return
	}
	if err := a.client.SendMessage(a.adminChatID, text); err != nil {
		a.logger.WithError(err).Error("Failed to send sweep alert")
	}
}

func alertText(report *SweepReport, sweepErr error) string {
	if sweepErr != nil {
		if errors.Is(sweepErr, ErrSweepInProgress) {
			return ""
		}
		return fmt.Sprintf("⚠️ Sweep notifikasi gagal: %v", sweepErr)
	}
	if report == nil {
		return ""
	}
	attention := report.NeedsAttention()
	if len(attention) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ %d jadwal perlu dicek (sweep %s, %s):\n", len(attention), report.SweepID, report.Date)
	for _, o := range attention {
		fmt.Fprintf(&b, "• Jadwal #%d %s %s [%s]", o.ScheduleID, o.SubjectName, o.ClassName, o.State)
		if o.Error != "" {
			fmt.Fprintf(&b, ": %s", o.Error)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
