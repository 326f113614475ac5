package app

import (
	"database/sql"
	"testing"
	"time"

	"reportify_notifier/internal/domain/delivery"
	"reportify_notifier/internal/domain/report"
	"reportify_notifier/internal/domain/student"

	"github.com/stretchr/testify/assert"
)

func sampleSummary() report.SessionSummary {
	return report.SessionSummary{
		Student:        student.Student{ID: 100, Name: "Andi Pratama"},
		ScheduleID:     1,
		Date:           time.Date(2026, time.October, 19, 0, 0, 0, 0, wib),
		ClassName:      "X RPL 1",
		SubjectName:    "Matematika",
		TeacherName:    "Sari Wulandari",
		TimeSlot:       "08:00 - 10:00",
		Attendance:     report.AttendanceExcused,
		AttendanceNote: "Sakit demam",
		Assignments: []report.AssignmentProgress{
			{
				Assignment: report.Assignment{
					ID:          7,
					Title:       "Latihan Persamaan Linear",
					Description: sql.NullString{String: "Kerjakan nomor 1-10", Valid: true},
					Deadline:    time.Date(2026, time.October, 22, 0, 0, 0, 0, wib),
				},
				State: report.CompletionNotDone,
			},
			{
				Assignment: report.Assignment{
					ID:       8,
					Title:    "Proyek Statistik",
					Deadline: time.Date(2026, time.October, 25, 0, 0, 0, 0, wib),
				},
				State: report.CompletionDone,
				Note:  "Dikumpulkan lebih awal",
			},
		},
		Announcements: []report.Announcement{
			{ID: 3, Title: "Ulangan Harian Bab 2", Body: "Pelajari bab 2.", Date: time.Date(2026, time.October, 17, 0, 0, 0, 0, wib)},
		},
	}
}

const sampleReport = `Yth. Bapak/Ibu Orang Tua/Wali dari Andi Pratama,

Berikut laporan sesi kelas hari ini:

📅 Tanggal: Senin, 19 Oktober 2026
📚 Mata Pelajaran: Matematika
👨‍🏫 Guru: Sari Wulandari
🏫 Kelas: X RPL 1
⏰ Jam: 08:00 - 10:00

✅ Kehadiran: Izin (Sakit demam)

📝 Tugas:
1. Latihan Persamaan Linear
   Kerjakan nomor 1-10
   Batas waktu: 22 Oktober 2026
   Status: Belum selesai
2. Proyek Statistik
   Batas waktu: 25 Oktober 2026
   Status: Sudah selesai (Dikumpulkan lebih awal)

📢 Pengumuman:
1. Ulangan Harian Bab 2 (17 Oktober 2026)
   Pelajari bab 2.

Hormat kami,
SMK Pelita Bangsa`

func TestMessageFormatter_Format(t *testing.T) {
	f := NewMessageFormatter("SMK Pelita Bangsa")

	msg := f.Format(sampleSummary())

	assert.Equal(t, delivery.ReportSubject, msg.Subject)
	assert.Equal(t, sampleReport, msg.Text)
}

func TestMessageFormatter_Deterministic(t *testing.T) {
	f := NewMessageFormatter("SMK Pelita Bangsa")
	s := sampleSummary()

	assert.Equal(t, f.Format(s), f.Format(s))
	assert.Equal(t, f.Format(s), NewMessageFormatter("SMK Pelita Bangsa").Format(sampleSummary()))
}

func TestMessageFormatter_EmptySections(t *testing.T) {
	s := sampleSummary()
	s.Attendance = report.AttendanceUnrecorded
	s.AttendanceNote = ""
	s.Assignments = nil
	s.Announcements = nil

	text := NewMessageFormatter("").Format(s).Text

	assert.Contains(t, text, "Kehadiran: Belum diabsen\n")
	assert.Contains(t, text, "📝 Tugas:\nTidak ada tugas\n")
	assert.Contains(t, text, "📢 Pengumuman:\nTidak ada pengumuman\n")
	assert.Contains(t, text, "Hormat kami,\nReportify")
}

func TestMessageFormatter_AttendanceLabels(t *testing.T) {
	tests := []struct {
		status report.AttendanceStatus
		want   string
	}{
		{report.AttendancePresent, "Kehadiran: Hadir\n"},
		{report.AttendanceExcused, "Kehadiran: Izin\n"},
		{report.AttendanceAbsent, "Kehadiran: Alpha\n"},
		{report.AttendanceUnrecorded, "Kehadiran: Belum diabsen\n"},
	}
	f := NewMessageFormatter("SMK")
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			s := sampleSummary()
			s.Attendance = tt.status
			s.AttendanceNote = ""
			assert.Contains(t, f.Format(s).Text, tt.want)
		})
	}
}
