package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tasku/backend/core"
)

var ErrNotFound = errors.New("notification not found")

const defaultListLimit = 20

type (
	Repository interface {
		CreateNotification(ctx context.Context, ntf Notification) (Notification, error)
		// QueryUnreadByUser returns unread notifications joined with the parent
		// event title, ascending by fire time.
		QueryUnreadByUser(ctx context.Context, userID, limit int) ([]PendingNotification, error)
		MarkNotificationRead(ctx context.Context, id int) error
		// DeleteReadNotificationsBefore removes read notifications whose fire
		// time is before the cutoff and reports how many were removed.
		DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int, error)
	}

	Service struct {
		repo          Repository
		logger        core.Logger
		reminderLead  time.Duration
		retentionDays int
	}
)

func NewService(repo Repository, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:          repo,
		logger:        logger,
		reminderLead:  conf.Notification.ReminderLead,
		retentionDays: conf.Notification.RetentionDays,
	}
}

// ScheduleReminder persists an unread reminder firing one lead interval
// before the event is due. A reminder that would already have fired is
// silently skipped: there is nothing useful left to say.
func (svc *Service) ScheduleReminder(ctx context.Context, eventID int, dueAt time.Time, ownerID int) error {
	fireAt := dueAt.Add(-svc.reminderLead)
	if !fireAt.After(time.Now()) {
		return nil
	}

	ntf := Notification{
		Kind:    KindReminder24h,
		Message: reminderMessage,
		FireAt:  fireAt.UTC(),
		EventID: eventID,
		UserID:  ownerID,
	}
	if _, err := svc.repo.CreateNotification(ctx, ntf); err != nil {
		return errors.Wrap(err, "creating reminder")
	}
	return nil
}

func (svc *Service) ListPending(ctx context.Context, userID, limit int) ([]PendingNotification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return svc.repo.QueryUnreadByUser(ctx, userID, limit)
}

// MarkRead flags a notification as read. Marking an already read
// notification succeeds again.
func (svc *Service) MarkRead(ctx context.Context, id int) error {
	return svc.repo.MarkNotificationRead(ctx, id)
}

// PurgeOld removes notifications that were read and whose fire time is
// older than the retention window. days < 0 selects the configured default.
func (svc *Service) PurgeOld(ctx context.Context, days int) (int, error) {
	if days < 0 {
		days = svc.retentionDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return svc.repo.DeleteReadNotificationsBefore(ctx, cutoff)
}
