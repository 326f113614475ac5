package app

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"time"

	"reportify_notifier/internal/domain/delivery"
	"reportify_notifier/internal/domain/report"
	"reportify_notifier/internal/domain/schedule"
	"reportify_notifier/internal/domain/student"
	idb "reportify_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

var wib = time.FixedZone("WIB", 7*60*60)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules []*schedule.Schedule
	tas       map[int64]*schedule.TeachingAssignment
	marked    map[int64]time.Time
	listErr   error
	markErr   error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		tas:    map[int64]*schedule.TeachingAssignment{},
		marked: map[int64]time.Time{},
	}
}

func (f *fakeScheduleRepo) ListPendingForDay(_ context.Context, day schedule.Day, today time.Time) ([]*schedule.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*schedule.Schedule
	for _, s := range f.schedules {
		if s.Day != day || s.NotifiedOn(today) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeScheduleRepo) GetByID(_ context.Context, id int64) (*schedule.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schedules {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, idb.ErrScheduleNotFound
}

func (f *fakeScheduleRepo) GetTeachingAssignment(_ context.Context, id int64) (*schedule.TeachingAssignment, error) {
	ta, ok := f.tas[id]
	if !ok {
		return nil, idb.ErrTeachingAssignmentNotFound
	}
	return ta, nil
}

func (f *fakeScheduleRepo) MarkNotified(ctx context.Context, id int64, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.markErr != nil {
		return f.markErr
	}
	for _, s := range f.schedules {
		if s.ID == id {
			s.LastNotifiedDate = sql.NullTime{Time: date, Valid: true}
			f.marked[id] = date
			return nil
		}
	}
	return idb.ErrScheduleNotFound
}

type fakeStudentRepo struct {
	byClass map[int64][]*student.Student
	err     error
}

func (f *fakeStudentRepo) ListByClass(_ context.Context, classID int64) ([]*student.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byClass[classID], nil
}

type fakeReportRepo struct {
	attendance    map[int64]*report.Attendance
	assignments   []*report.Assignment
	completions   map[int64]map[int64]*report.Completion
	announcements []*report.Announcement

	gotDueFrom     time.Time
	gotCreatedFrom time.Time
	gotAnnFrom     time.Time
	gotAnnTo       time.Time
}

func (f *fakeReportRepo) ListAttendance(_ context.Context, _ int64, _ time.Time) (map[int64]*report.Attendance, error) {
	if f.attendance == nil {
		return map[int64]*report.Attendance{}, nil
	}
	return f.attendance, nil
}

func (f *fakeReportRepo) ListRelevantAssignments(_ context.Context, _ int64, dueFrom, createdFrom time.Time) ([]*report.Assignment, error) {
	f.gotDueFrom, f.gotCreatedFrom = dueFrom, createdFrom
	return f.assignments, nil
}

func (f *fakeReportRepo) ListCompletions(_ context.Context, studentID int64, _ []int64) (map[int64]*report.Completion, error) {
	return f.completions[studentID], nil
}

func (f *fakeReportRepo) ListAnnouncements(_ context.Context, _ int64, from, to time.Time) ([]*report.Announcement, error) {
	f.gotAnnFrom, f.gotAnnTo = from, to
	return f.announcements, nil
}

type sentMessage struct {
	Recipient string
	Message   delivery.Message
}

// fakeChannel records every Send and answers with result.
type fakeChannel struct {
	name   delivery.ChannelName
	result func(recipient string) delivery.Result
	mu     sync.Mutex
	sent   []sentMessage
	ctxErr []error
}

func (f *fakeChannel) Name() delivery.ChannelName { return f.name }

func (f *fakeChannel) Send(ctx context.Context, recipient string, msg delivery.Message) delivery.Result {
	f.mu.Lock()
	f.sent = append(f.sent, sentMessage{Recipient: recipient, Message: msg})
	f.ctxErr = append(f.ctxErr, ctx.Err())
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return delivery.Failed(err)
	}
	if recipient == "" {
		return delivery.Failed(delivery.ErrNoRecipient)
	}
	return f.result(recipient)
}

func (f *fakeChannel) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		out = append(out, s.Recipient)
	}
	return out
}

func alwaysOK(string) delivery.Result { return delivery.Delivered("ok") }

func alwaysFail(string) delivery.Result {
	return delivery.Failed(errors.New("context deadline exceeded (Client.Timeout exceeded while awaiting headers)"))
}
