package app

import (
	"context"
	"fmt"
	"time"
)

// ErrAdminNotAuthorized is returned when a non-admin Telegram user calls an admin action.
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")

// AdminService gates manual notification triggers behind the configured admin Telegram ID.
type AdminService struct {
	notifier        NotificationService
	adminTelegramID int64
	location        *time.Location
}

func NewAdminService(notifier NotificationService, adminID int64, loc *time.Location) *AdminService {
	if loc == nil {
		loc = time.Local
	}
	return &AdminService{
		notifier:        notifier,
		adminTelegramID: adminID,
		location:        loc,
	}
}

// IsAdmin reports whether the Telegram user is the configured admin.
func (s *AdminService) IsAdmin(performingAdminID int64) bool {
	return s.adminTelegramID != 0 && performingAdminID == s.adminTelegramID
}

// TriggerSweep runs a sweep now.
func (s *AdminService) TriggerSweep(ctx context.Context, performingAdminID int64) (*SweepReport, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}
	return s.notifier.RunNotificationSweep(ctx)
}

// SendReport dispatches one schedule for a YYYY-MM-DD date.
func (s *AdminService) SendReport(ctx context.Context, performingAdminID, scheduleID int64, date string) (*ScheduleOutcome, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}
	day, err := ParseDate(date, s.location)
	if err != nil {
		return nil, err
	}
	return s.notifier.SendSessionReport(ctx, scheduleID, day)
}

// PreviewReport formats one schedule for a YYYY-MM-DD date without sending.
func (s *AdminService) PreviewReport(ctx context.Context, performingAdminID, scheduleID int64, date string) (*SessionPreview, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}
	day, err := ParseDate(date, s.location)
	if err != nil {
		return nil, err
	}
	return s.notifier.PreviewSessionReport(ctx, scheduleID, day)
}
