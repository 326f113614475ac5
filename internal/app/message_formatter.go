package app

import (
	"fmt"
	"strings"
	"time"

	"reportify_notifier/internal/domain/delivery"
	"reportify_notifier/internal/domain/report"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/id"
)

const (
	noAssignmentsText   = "Tidak ada tugas"
	noAnnouncementsText = "Tidak ada pengumuman"
)

// MessageFormatter renders a SessionSummary into the report text sent to parents.
// Output depends only on its input.
type MessageFormatter struct {
	schoolName string
	locale     locales.Translator
}

func NewMessageFormatter(schoolName string) *MessageFormatter {
	return &MessageFormatter{
		schoolName: strings.TrimSpace(schoolName),
		locale:     id.New(),
	}
}

// Format builds the message for one student.
func (f *MessageFormatter) Format(s report.SessionSummary) delivery.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Yth. Bapak/Ibu Orang Tua/Wali dari %s,\n\n", s.Student.Name)
	b.WriteString("Berikut laporan sesi kelas hari ini:\n\n")
	fmt.Fprintf(&b, "📅 Tanggal: %s\n", f.longDate(s.Date))
	fmt.Fprintf(&b, "📚 Mata Pelajaran: %s\n", s.SubjectName)
	fmt.Fprintf(&b, "👨‍🏫 Guru: %s\n", s.TeacherName)
	fmt.Fprintf(&b, "🏫 Kelas: %s\n", s.ClassName)
	fmt.Fprintf(&b, "⏰ Jam: %s\n\n", s.TimeSlot)

	fmt.Fprintf(&b, "✅ Kehadiran: %s", s.Attendance.Label())
	if note := strings.TrimSpace(s.AttendanceNote); note != "" {
		fmt.Fprintf(&b, " (%s)", note)
	}
	b.WriteString("\n\n")

	b.WriteString("📝 Tugas:\n")
	if len(s.Assignments) == 0 {
		b.WriteString(noAssignmentsText + "\n")
	}
	for i, p := range s.Assignments {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Assignment.Title)
		if p.Assignment.Description.Valid && strings.TrimSpace(p.Assignment.Description.String) != "" {
			fmt.Fprintf(&b, "   %s\n", strings.TrimSpace(p.Assignment.Description.String))
		}
		fmt.Fprintf(&b, "   Batas waktu: %s\n", f.shortDate(p.Assignment.Deadline))
		fmt.Fprintf(&b, "   Status: %s", p.State.Label())
		if note := strings.TrimSpace(p.Note); note != "" {
			fmt.Fprintf(&b, " (%s)", note)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("📢 Pengumuman:\n")
	if len(s.Announcements) == 0 {
		b.WriteString(noAnnouncementsText + "\n")
	}
	for i, a := range s.Announcements {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, a.Title, f.shortDate(a.Date))
		if body := strings.TrimSpace(a.Body); body != "" {
			fmt.Fprintf(&b, "   %s\n", body)
		}
	}

	b.WriteString("\nHormat kami,\n")
	if f.schoolName != "" {
		b.WriteString(f.schoolName)
	} else {
		b.WriteString("Reportify")
	}

	return delivery.Message{Subject: delivery.ReportSubject, Text: b.String()}
}

// longDate renders e.g. "Senin, 19 Oktober 2026".
func (f *MessageFormatter) longDate(t time.Time) string {
	return fmt.Sprintf("%s, %s", f.locale.WeekdayWide(t.Weekday()), f.shortDate(t))
}

// shortDate renders e.g. "19 Oktober 2026".
func (f *MessageFormatter) shortDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), f.locale.MonthWide(t.Month()), t.Year())
}
