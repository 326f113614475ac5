package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reportify_notifier/internal/app"
	idb "reportify_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	msgUnauthorized = "Error: Anda tidak memiliki akses untuk perintah ini."
	commandTimeout  = 5 * time.Minute
)

// RegisterAdminHandlers registers the manual notification commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, baseLogger *logrus.Entry) {
	b.Handle("/sweep", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/sweep",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		// No deadline: a sweep that has started a schedule must finish and mark it.
		report, err := adminService.TriggerSweep(ctx, c.Sender().ID)
		if err != nil {
			return c.Send(errorReply(handlerLogger, err))
		}
		handlerLogger.WithField("sweep_id", report.SweepID).Info("Manual sweep finished")
		return c.Send(clip(formatSweep(report)))
	})

	b.Handle("/send_report", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/send_report",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgUnauthorized)
		}
		scheduleID, date, err := parseReportArgs(c.Args())
		if err != nil {
			return c.Send("Format salah. Gunakan: /send_report <id_jadwal> <YYYY-MM-DD>")
		}
		handlerLogger = handlerLogger.WithFields(logrus.Fields{"schedule_id": scheduleID, "date": date})

		cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		outcome, err := adminService.SendReport(cmdCtx, c.Sender().ID, scheduleID, date)
		if err != nil {
			return c.Send(errorReply(handlerLogger, err))
		}
		handlerLogger.WithField("state", outcome.State).Info("Report sent on demand")
		return c.Send(clip(formatOutcome(outcome)))
	})

	b.Handle("/preview", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/preview",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgUnauthorized)
		}
		scheduleID, date, err := parseReportArgs(c.Args())
		if err != nil {
			return c.Send("Format salah. Gunakan: /preview <id_jadwal> <YYYY-MM-DD>")
		}

		cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		preview, err := adminService.PreviewReport(cmdCtx, c.Sender().ID, scheduleID, date)
		if err != nil {
			return c.Send(errorReply(handlerLogger, err))
		}
		return c.Send(clip(formatPreview(preview)))
	})
}

// parseReportArgs parses "<schedule_id> <YYYY-MM-DD>".
func parseReportArgs(args []string) (int64, string, error) {
	if len(args) != 2 {
		return 0, "", fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	scheduleID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || scheduleID <= 0 {
		return 0, "", fmt.Errorf("invalid schedule id %q", args[0])
	}
	if _, err := time.Parse(app.DateLayout, args[1]); err != nil {
		return 0, "", fmt.Errorf("invalid date %q", args[1])
	}
	return scheduleID, args[1], nil
}

func errorReply(log *logrus.Entry, err error) string {
	logWithError := log.WithError(err)
	switch {
	case errors.Is(err, app.ErrAdminNotAuthorized):
		logWithError.Warn("Unauthorized access attempt")
		return msgUnauthorized
	case errors.Is(err, app.ErrSweepInProgress):
		logWithError.Warn("Sweep already running")
		return "Sweep sedang berjalan, coba lagi nanti."
	case errors.Is(err, idb.ErrScheduleNotFound):
		return "Jadwal tidak ditemukan."
	case errors.Is(err, idb.ErrTeachingAssignmentNotFound):
		return "Data pengajaran untuk jadwal ini tidak ditemukan."
	default:
		logWithError.Error("Command failed")
		return fmt.Sprintf("Terjadi kesalahan: %s", err.Error())
	}
}

func formatSweep(r *app.SweepReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sweep %s (%s)\n", r.SweepID, r.Date)
	fmt.Fprintf(&b, "Jadwal menunggu: %d, diproses: %d\n", r.Pending, len(r.Schedules))
	for i := range r.Schedules {
		o := &r.Schedules[i]
		fmt.Fprintf(&b, "• #%d %s: %d terkirim, %d gagal [%s]\n", o.ScheduleID, o.TimeSlot, o.Sent(), o.Failed(), o.State)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatOutcome(o *app.ScheduleOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Jadwal #%d %s %s (%s)\n", o.ScheduleID, o.SubjectName, o.ClassName, o.Date)
	fmt.Fprintf(&b, "Siswa: %d, terkirim: %d, gagal: %d [%s]\n", o.Students, o.Sent(), o.Failed(), o.State)
	for _, d := range o.Deliveries {
		if d.Status == app.DeliverySent {
			continue
		}
		fmt.Fprintf(&b, "• %s (%s): %s", d.StudentName, d.Recipient, d.Status)
		if n := len(d.Attempts); n > 0 && d.Attempts[n-1].Error != "" {
			fmt.Fprintf(&b, " - %s", d.Attempts[n-1].Error)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatPreview(p *app.SessionPreview) string {
	if len(p.Items) == 0 {
		return fmt.Sprintf("Jadwal #%d (%s): kelas tidak memiliki siswa.", p.ScheduleID, p.Date)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pratinjau jadwal #%d (%s), %d siswa.\n\n", p.ScheduleID, p.Date, len(p.Items))
	b.WriteString(p.Items[0].Message)
	return b.String()
}
