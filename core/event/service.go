package event

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core"
)

var (
	// errors
	ErrNotFound        = errors.New("event not found")
	ErrDueDateInPast   = errors.New("due date cannot be in the past")
	ErrNothingToUpdate = errors.New("nothing to update")
)

const (
	defaultListLimit = 50

	// urgency window for ListUrgent and the DueSoon statistic
	urgentWindow = 48 * time.Hour
	urgentLimit  = 10
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		// QueryEventsByOwner returns an owner's events ascending by due date,
		// optionally filtered by status. Subject display fields are joined in.
		QueryEventsByOwner(ctx context.Context, ownerID int, status string, limit int) ([]Event, error)
		// QueryPendingEventsDue returns pending events due no later than `to`,
		// ascending by due date. A zero `from` leaves the window open below,
		// which pulls in overdue events. limit <= 0 means no cap.
		QueryPendingEventsDue(ctx context.Context, ownerID int, from, to time.Time, limit int) ([]Event, error)
		// QueryEventsByPeriod returns events of any status due in [from, to).
		QueryEventsByPeriod(ctx context.Context, ownerID int, from, to time.Time) ([]Event, error)
		CompleteEvent(ctx context.Context, id, ownerID int, at time.Time) error
		UpdateEvent(ctx context.Context, id, ownerID int, ue UpdateEvent, at time.Time) error
		DeleteEvent(ctx context.Context, id, ownerID int) error
		GetEventStats(ctx context.Context, ownerID int, now, soonBy time.Time) (Stats, error)
	}

	// ReminderScheduler is the notification side of event creation.
	ReminderScheduler interface {
		ScheduleReminder(ctx context.Context, eventID int, dueAt time.Time, ownerID int) error
	}

	Service struct {
		repo      Repository
		scheduler ReminderScheduler
		logger    core.Logger
		validate  *validator.Validate
	}
)

func NewService(repo Repository, scheduler ReminderScheduler, logger core.Logger, validate *validator.Validate) *Service {
	return &Service{repo: repo, scheduler: scheduler, logger: logger, validate: validate}
}

// Create validates and persists a new pending Event, then schedules its
// reminder. Scheduling is best effort: a failure is logged and reported in
// the returned warnings, never rolled into the creation result.
func (svc *Service) Create(ctx context.Context, ownerID int, ne NewEvent) (Event, []string, error) {
	if err := ne.Validate(svc.validate); err != nil {
		return Event{}, nil, err
	}

	now := time.Now().UTC()
	evt := Event{
		Title:       ne.Title,
		Description: ne.Description,
		DueAt:       ne.DueAt.UTC(),
		Priority:    ne.Priority,
		Type:        ne.Type,
		Status:      StatusPending,
		OwnerID:     ownerID,
		SubjectID:   ne.SubjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	evt, err := svc.repo.CreateEvent(ctx, evt)
	if err != nil {
		return Event{}, nil, errors.Wrap(err, "creating event")
	}

	var warnings []string
	if err = svc.scheduler.ScheduleReminder(ctx, evt.ID, evt.DueAt, ownerID); err != nil {
		svc.logger.Warn(fmt.Sprintf("scheduling reminder for event %d: %v", evt.ID, err), err)
		warnings = append(warnings, "reminder could not be scheduled")
	}
	return evt, warnings, nil
}

func (svc *Service) ListByOwner(ctx context.Context, ownerID int, status string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return svc.repo.QueryEventsByOwner(ctx, ownerID, status, limit)
}

// ListUrgent returns the owner's pending events due within the next 48h,
// overdue ones included, capped at 10.
func (svc *Service) ListUrgent(ctx context.Context, ownerID int) ([]Event, error) {
	to := time.Now().UTC().Add(urgentWindow)
	return svc.repo.QueryPendingEventsDue(ctx, ownerID, time.Time{}, to, urgentLimit)
}

// ListDueWithin returns pending events due between now and now+hours.
func (svc *Service) ListDueWithin(ctx context.Context, ownerID, hours int) ([]Event, error) {
	now := time.Now().UTC()
	return svc.repo.QueryPendingEventsDue(ctx, ownerID, now, now.Add(time.Duration(hours)*time.Hour), 0)
}

// ListByMonth returns all events due within the given calendar month.
func (svc *Service) ListByMonth(ctx context.Context, ownerID, year int, month time.Month) ([]Event, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return svc.repo.QueryEventsByPeriod(ctx, ownerID, from, from.AddDate(0, 1, 0))
}

// Complete transitions a pending event to completed. Completing an already
// completed event succeeds again; the only failure is a missing id or an
// ownership mismatch, both collapsed into ErrNotFound.
func (svc *Service) Complete(ctx context.Context, id, ownerID int) error {
	return svc.repo.CompleteEvent(ctx, id, ownerID, time.Now().UTC())
}

func (svc *Service) Update(ctx context.Context, id, ownerID int, ue UpdateEvent) error {
	if err := ue.Validate(svc.validate); err != nil {
		return err
	}
	return svc.repo.UpdateEvent(ctx, id, ownerID, ue, time.Now().UTC())
}

func (svc *Service) Delete(ctx context.Context, id, ownerID int) error {
	return svc.repo.DeleteEvent(ctx, id, ownerID)
}

// Stats returns the owner's aggregate counts. An owner without events gets
// a zero-filled Stats, not an error.
func (svc *Service) Stats(ctx context.Context, ownerID int) (Stats, error) {
	now := time.Now().UTC()
	return svc.repo.GetEventStats(ctx, ownerID, now, now.Add(urgentWindow))
}
