package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"reportify_notifier/internal/app"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestScheduler(sweep SweepFunc) *NotificationScheduler {
	return &NotificationScheduler{sweep: sweep, logger: testLogger(), cronSpec: DefaultSweepSpec}
}

func TestRunOnce_SweepHasNoDeadline(t *testing.T) {
	var hadDeadline bool
	calls := 0
	s := newTestScheduler(func(ctx context.Context) (*app.SweepReport, error) {
		calls++
		_, hadDeadline = ctx.Deadline()
		return &app.SweepReport{SweepID: "s1"}, nil
	})

	s.RunOnce()

	assert.Equal(t, 1, calls)
	assert.False(t, hadDeadline)
}

func TestRunOnce_SurvivesSweepErrors(t *testing.T) {
	for _, sweepErr := range []error{errors.New("database unreachable"), app.ErrSweepInProgress} {
		calls := 0
		s := newTestScheduler(func(context.Context) (*app.SweepReport, error) {
			calls++
			return nil, sweepErr
		})

		assert.NotPanics(t, s.RunOnce)
		assert.Equal(t, 1, calls)
	}
}

func TestStart_RejectsInvalidSpec(t *testing.T) {
	s := NewNotificationScheduler(stubService{}, testLogger(), time.UTC, "not a cron spec")

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a cron spec")
}

func TestStartStop(t *testing.T) {
	s := NewNotificationScheduler(stubService{}, testLogger(), time.UTC, "")

	require.NoError(t, s.Start())
	assert.Len(t, s.cronEngine.Entries(), 1)
	s.Stop()
}

type stubService struct{}

func (stubService) RunNotificationSweep(context.Context) (*app.SweepReport, error) {
	return &app.SweepReport{}, nil
}

func (stubService) SendSessionReport(context.Context, int64, time.Time) (*app.ScheduleOutcome, error) {
	return &app.ScheduleOutcome{}, nil
}

func (stubService) PreviewSessionReport(context.Context, int64, time.Time) (*app.SessionPreview, error) {
	return &app.SessionPreview{}, nil
}
