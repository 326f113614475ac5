package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reportify_notifier/internal/app"
	"reportify_notifier/internal/infra/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSweepSpec fires the sweep every five minutes.
const DefaultSweepSpec = "*/5 * * * *"

// SweepFunc is the entry point the scheduler triggers.
type SweepFunc func(ctx context.Context) (*app.SweepReport, error)

type NotificationScheduler struct {
	cronEngine *cron.Cron
	sweep      SweepFunc
	logger     *logrus.Entry
	cronSpec   string
}

func NewNotificationScheduler(
	notifService app.NotificationService,
	log *logrus.Entry,
	loc *time.Location,
	cronSpec string, // e.g., "*/5 * * * *"
) *NotificationScheduler {
	cronLog := logger.CronLogger{Entry: log}
	if cronSpec == "" {
		cronSpec = DefaultSweepSpec
	}
	if loc == nil {
		loc = time.Local
	}
	return &NotificationScheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		sweep:    notifService.RunNotificationSweep,
		logger:   log,
		cronSpec: cronSpec,
	}
}

// Start registers the sweep job and starts the cron engine.
func (s *NotificationScheduler) Start() error {
	s.logger.Info("Starting notification scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.RunOnce); err != nil {
		return fmt.Errorf("could not add notification sweep cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpec).Info("Notification scheduler started.")
	return nil
}

// RunOnce runs one sweep. The sweep has no deadline of its own: every started schedule
// must be delivered and marked, and each outbound call carries its own timeout.
func (s *NotificationScheduler) RunOnce() {
	_, err := s.sweep(context.Background())
	switch {
	case errors.Is(err, app.ErrSweepInProgress):
		s.logger.Warn("Previous sweep still running, skipping this tick.")
	case err != nil:
		s.logger.WithError(err).Error("Error during notification sweep")
	}
}

func (s *NotificationScheduler) Stop() {
	s.logger.Info("Stopping notification scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Notification scheduler gracefully stopped.")
}
