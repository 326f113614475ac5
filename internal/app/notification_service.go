package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reportify_notifier/internal/domain/delivery"
	"reportify_notifier/internal/domain/report"
	"reportify_notifier/internal/domain/schedule"
	"reportify_notifier/internal/domain/student"
	"reportify_notifier/internal/infra/whatsapp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrSweepInProgress is returned when a sweep is requested while another one is running.
var ErrSweepInProgress = errors.New("notification sweep already in progress")

// DateLayout is the calendar date format used in markers, logs and admin inputs.
const DateLayout = "2006-01-02"

// NotificationService defines the session notification entry points.
type NotificationService interface {
	// RunNotificationSweep dispatches every schedule that just ended today and was not notified yet,
	// then marks each attempted schedule as notified.
	RunNotificationSweep(ctx context.Context) (*SweepReport, error)
	// SendSessionReport dispatches one schedule for date regardless of weekday, window and marker.
	// The marker is not written.
	SendSessionReport(ctx context.Context, scheduleID int64, date time.Time) (*ScheduleOutcome, error)
	// PreviewSessionReport aggregates and formats without sending.
	PreviewSessionReport(ctx context.Context, scheduleID int64, date time.Time) (*SessionPreview, error)
}

// PreviewItem is the message one student would receive.
type PreviewItem struct {
	StudentID   int64  `json:"id_student"`
	StudentName string `json:"student_name"`
	Attendance  string `json:"attendance"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

// SessionPreview is the dry-run result of one schedule and date.
type SessionPreview struct {
	ScheduleID int64         `json:"id_schedule"`
	Date       string        `json:"date"`
	TimeSlot   string        `json:"time_slot"`
	Items      []PreviewItem `json:"items"`
}

// NotificationConfig holds the sweep settings.
type NotificationConfig struct {
	Location *time.Location
	Window   time.Duration
	Alerter  *SweepAlerter // optional
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	scheduleRepo schedule.Repository
	aggregator   *SessionAggregator
	formatter    *MessageFormatter
	primary      delivery.Channel
	fallback     delivery.Channel
	logger       *logrus.Entry
	location     *time.Location
	window       SweepWindow
	alerter      *SweepAlerter
	now          func() time.Time

	sweepMu sync.Mutex
}

var _ NotificationService = (*NotificationServiceImpl)(nil)

func NewNotificationServiceImpl(
	sr schedule.Repository,
	aggregator *SessionAggregator,
	formatter *MessageFormatter,
	primary delivery.Channel, // WhatsApp
	fallback delivery.Channel, // Email, may be nil
	logger *logrus.Entry,
	cfg NotificationConfig,
) *NotificationServiceImpl {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &NotificationServiceImpl{
		scheduleRepo: sr,
		aggregator:   aggregator,
		formatter:    formatter,
		primary:      primary,
		fallback:     fallback,
		logger:       logger,
		location:     loc,
		window:       SweepWindow{Width: cfg.Window},
		alerter:      cfg.Alerter,
		now:          time.Now,
	}
}

// RunNotificationSweep runs one sweep. Only one sweep runs at a time per service.
// Problems are reported to the alerter whichever entry point triggered the sweep.
func (s *NotificationServiceImpl) RunNotificationSweep(ctx context.Context) (*SweepReport, error) {
	if !s.sweepMu.TryLock() {
		return nil, ErrSweepInProgress
	}
	defer s.sweepMu.Unlock()

	sweep, err := s.runSweep(ctx)
	s.alerter.Notify(sweep, err)
	return sweep, err
}

// runSweep checks ctx only between schedules. A schedule that has started is always
// delivered to every student and marked, even if ctx is cancelled meanwhile.
func (s *NotificationServiceImpl) runSweep(ctx context.Context) (*SweepReport, error) {
	now := s.now().In(s.location)
	today := calendarDate(now)
	sweep := &SweepReport{
		SweepID:   uuid.NewString(),
		StartedAt: now,
		Date:      today.Format(DateLayout),
	}
	log := s.logger.WithField("sweep_id", sweep.SweepID)
	log.WithField("at", now.Format("15:04")).Debug("Notification sweep started")

	pending, err := s.scheduleRepo.ListPendingForDay(ctx, schedule.DayOf(now), today)
	if err != nil {
		log.WithError(err).Error("Failed to list pending schedules")
		return sweep, fmt.Errorf("failed to list pending schedules: %w", err)
	}
	sweep.Pending = len(pending)

	for _, sch := range pending {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("Sweep cancelled before all schedules were processed")
			return sweep, fmt.Errorf("sweep interrupted: %w", err)
		}
		if sch.NotifiedOn(today) {
			continue
		}
		end, err := sch.EndMinute()
		if err != nil {
			log.WithError(err).WithField("schedule_id", sch.ID).Warn("Skipping schedule with unreadable end time")
			continue
		}
		if !s.window.Contains(end, now) {
			continue
		}

		schedLog := log.WithField("schedule_id", sch.ID)
		schedCtx := context.WithoutCancel(ctx)
		outcome, err := s.dispatch(schedCtx, schedLog, sch, today)
		if err != nil {
			schedLog.WithError(err).Error("Aborted schedule, marker left untouched")
			outcome.State = ScheduleAborted
			outcome.Error = err.Error()
			sweep.Schedules = append(sweep.Schedules, *outcome)
			continue
		}

		if err := s.scheduleRepo.MarkNotified(schedCtx, sch.ID, today); err != nil {
			schedLog.WithError(err).Error("Failed to mark schedule as notified")
			outcome.Error = fmt.Sprintf("mark notified: %v", err)
		} else {
			outcome.Marked = true
		}
		schedLog.WithFields(logrus.Fields{
			"state":  outcome.State,
			"sent":   outcome.Sent(),
			"failed": outcome.Failed(),
		}).Info("Schedule dispatched")
		sweep.Schedules = append(sweep.Schedules, *outcome)
	}

	log.Info(sweep.Summary())
	return sweep, nil
}

// SendSessionReport dispatches a single schedule on demand.
func (s *NotificationServiceImpl) SendSessionReport(ctx context.Context, scheduleID int64, date time.Time) (*ScheduleOutcome, error) {
	sch, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule %d: %w", scheduleID, err)
	}
	day := calendarDate(date.In(s.location))
	log := s.logger.WithFields(logrus.Fields{"schedule_id": sch.ID, "date": day.Format(DateLayout), "manual": true})

	outcome, err := s.dispatch(ctx, log, sch, day)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"state":  outcome.State,
		"sent":   outcome.Sent(),
		"failed": outcome.Failed(),
	}).Info("Session report sent on demand")
	return outcome, nil
}

// PreviewSessionReport returns the messages a dispatch would send.
func (s *NotificationServiceImpl) PreviewSessionReport(ctx context.Context, scheduleID int64, date time.Time) (*SessionPreview, error) {
	sch, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule %d: %w", scheduleID, err)
	}
	day := calendarDate(date.In(s.location))
	summaries, err := s.aggregator.Aggregate(ctx, sch, day)
	if err != nil {
		return nil, err
	}

	preview := &SessionPreview{
		ScheduleID: sch.ID,
		Date:       day.Format(DateLayout),
		TimeSlot:   sch.TimeSlot(),
		Items:      make([]PreviewItem, 0, len(summaries)),
	}
	for _, summary := range summaries {
		msg := s.formatter.Format(summary)
		preview.Items = append(preview.Items, PreviewItem{
			StudentID:   summary.Student.ID,
			StudentName: summary.Student.Name,
			Attendance:  summary.Attendance.Label(),
			Subject:     msg.Subject,
			Message:     msg.Text,
		})
	}
	return preview, nil
}

// dispatch aggregates one schedule and delivers every student's report sequentially.
// The returned outcome is never nil; on error it carries no deliveries.
func (s *NotificationServiceImpl) dispatch(ctx context.Context, log *logrus.Entry, sch *schedule.Schedule, date time.Time) (*ScheduleOutcome, error) {
	outcome := &ScheduleOutcome{
		ScheduleID: sch.ID,
		Date:       date.Format(DateLayout),
		TimeSlot:   sch.TimeSlot(),
		Deliveries: []DeliveryOutcome{},
	}

	summaries, err := s.aggregator.Aggregate(ctx, sch, date)
	if err != nil {
		return outcome, err
	}
	outcome.Students = len(summaries)
	if len(summaries) == 0 {
		log.Info("Class has no students, nothing to send")
	}

	for _, summary := range summaries {
		outcome.ClassName = summary.ClassName
		outcome.SubjectName = summary.SubjectName
		msg := s.formatter.Format(summary)
		outcome.Deliveries = append(outcome.Deliveries, s.deliverToStudent(ctx, log, summary, msg)...)
	}
	outcome.settle()
	return outcome, nil
}

// deliverToStudent sends to the parent and, when it is a different number, to the student.
// The email fallback is used at most once per student.
func (s *NotificationServiceImpl) deliverToStudent(ctx context.Context, log *logrus.Entry, summary report.SessionSummary, msg delivery.Message) []DeliveryOutcome {
	st := &summary.Student
	emailUsed := false

	outcomes := []DeliveryOutcome{
		s.deliver(ctx, log, st, RecipientParent, st.ParentPhone.String, msg, &emailUsed),
	}
	if st.HasStudentPhone() && !whatsapp.SamePhone(st.StudentPhone.String, st.ParentPhone.String) {
		outcomes = append(outcomes, s.deliver(ctx, log, st, RecipientStudent, st.StudentPhone.String, msg, &emailUsed))
	}
	return outcomes
}

// deliver tries WhatsApp first and falls back to the student's account email.
func (s *NotificationServiceImpl) deliver(
	ctx context.Context,
	log *logrus.Entry,
	st *student.Student,
	role RecipientRole,
	phone string,
	msg delivery.Message,
	emailUsed *bool,
) DeliveryOutcome {
	out := DeliveryOutcome{StudentID: st.ID, StudentName: st.Name, Recipient: role, Status: DeliveryFailed}
	recipientLog := log.WithFields(logrus.Fields{"student_id": st.ID, "recipient": role})

	res := s.primary.Send(ctx, phone, msg)
	out.Attempts = append(out.Attempts, attemptOf(s.primary.Name(), phone, res))
	if res.OK() {
		out.Status = DeliverySent
		return out
	}
	recipientLog.WithError(res.Err()).Warn("WhatsApp delivery failed")

	if s.fallback == nil {
		return out
	}
	if *emailUsed {
		out.Status = DeliverySkipped
		recipientLog.Debug("Email fallback already used for this student")
		return out
	}
	*emailUsed = true

	address := st.Email()
	res = s.fallback.Send(ctx, address, msg)
	out.Attempts = append(out.Attempts, attemptOf(s.fallback.Name(), address, res))
	if res.OK() {
		out.Status = DeliverySent
		return out
	}
	recipientLog.WithError(res.Err()).Warn("Email fallback failed")
	return out
}

// calendarDate truncates t to midnight in its own location.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD admin input in loc.
func ParseDate(v string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", v, err)
	}
	return t, nil
}
