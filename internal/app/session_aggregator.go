package app

import (
	"context"
	"fmt"
	"time"

	"reportify_notifier/internal/domain/report"
	"reportify_notifier/internal/domain/schedule"
	"reportify_notifier/internal/domain/student"
)

// relevanceDays bounds both "recently created" assignments and announcements.
const relevanceDays = 7

// SessionAggregator collects the facts of one session for every enrolled student.
type SessionAggregator struct {
	scheduleRepo schedule.Repository
	studentRepo  student.Repository
	reportRepo   report.Repository
}

func NewSessionAggregator(sr schedule.Repository, str student.Repository, rr report.Repository) *SessionAggregator {
	return &SessionAggregator{
		scheduleRepo: sr,
		studentRepo:  str,
		reportRepo:   rr,
	}
}

// Aggregate returns one SessionSummary per student of the schedule's class, in repository order.
// date must be a calendar date. A class without students yields an empty slice.
func (a *SessionAggregator) Aggregate(ctx context.Context, sch *schedule.Schedule, date time.Time) ([]report.SessionSummary, error) {
	ta, err := a.scheduleRepo.GetTeachingAssignment(ctx, sch.TeachingAssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teaching assignment %d of schedule %d: %w", sch.TeachingAssignmentID, sch.ID, err)
	}

	students, err := a.studentRepo.ListByClass(ctx, ta.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students of class %d: %w", ta.ClassID, err)
	}
	if len(students) == 0 {
		return []report.SessionSummary{}, nil
	}

	attendance, err := a.reportRepo.ListAttendance(ctx, sch.ID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance of schedule %d: %w", sch.ID, err)
	}

	windowStart := date.AddDate(0, 0, -relevanceDays)
	assignments, err := a.reportRepo.ListRelevantAssignments(ctx, ta.ID, date, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments of teaching assignment %d: %w", ta.ID, err)
	}
	assignmentIDs := make([]int64, 0, len(assignments))
	for _, as := range assignments {
		assignmentIDs = append(assignmentIDs, as.ID)
	}

	announcementRows, err := a.reportRepo.ListAnnouncements(ctx, ta.ID, windowStart, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements of teaching assignment %d: %w", ta.ID, err)
	}
	announcements := make([]report.Announcement, 0, len(announcementRows))
	for _, an := range announcementRows {
		announcements = append(announcements, *an)
	}

	summaries := make([]report.SessionSummary, 0, len(students))
	for _, st := range students {
		completions, err := a.reportRepo.ListCompletions(ctx, st.ID, assignmentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list completions of student %d: %w", st.ID, err)
		}

		summary := report.SessionSummary{
			Student:       *st,
			ScheduleID:    sch.ID,
			Date:          date,
			ClassName:     ta.ClassName(),
			SubjectName:   ta.SubjectName,
			TeacherName:   ta.TeacherName,
			TimeSlot:      sch.TimeSlot(),
			Attendance:    report.AttendanceUnrecorded,
			Assignments:   make([]report.AssignmentProgress, 0, len(assignments)),
			Announcements: announcements,
		}
		if att, ok := attendance[st.ID]; ok {
			summary.Attendance = att.Status
			if att.Note.Valid {
				summary.AttendanceNote = att.Note.String
			}
		}
		for _, as := range assignments {
			summary.Assignments = append(summary.Assignments, report.ProgressFor(*as, completions[as.ID]))
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
