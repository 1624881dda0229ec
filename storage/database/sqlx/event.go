package sqlxrepos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core/event"
)

const eventSelect = `
	SELECT e.id, e.title, e.description, e.due_at, e.priority, e.type, e.status,
	       e.user_id, e.subject_id, e.created_at, e.updated_at,
	       s.name AS subject_name, s.code AS subject_code, s.color AS subject_color
	FROM events e
	LEFT JOIN subjects s ON s.id = e.subject_id`

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	const q = `
	INSERT INTO events (title, description, due_at, priority, type, status, user_id, subject_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id`

	err := repo.db.QueryRowContext(ctx, q,
		evt.Title, evt.Description, evt.DueAt, evt.Priority, evt.Type, evt.Status,
		evt.OwnerID, evt.SubjectID, evt.CreatedAt, evt.UpdatedAt,
	).Scan(&evt.ID)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return evt, nil
}

func (repo *eventRepository) QueryEventsByOwner(ctx context.Context, ownerID int, status string, limit int) ([]event.Event, error) {
	q := eventSelect + ` WHERE e.user_id = $1`
	args := []interface{}{ownerID}
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND e.status = $%d", len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY e.due_at ASC LIMIT $%d", len(args))

	events := make([]event.Event, 0)
	if err := repo.db.SelectContext(ctx, &events, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting events by owner")
	}
	return events, nil
}

func (repo *eventRepository) QueryPendingEventsDue(ctx context.Context, ownerID int, from, to time.Time, limit int) ([]event.Event, error) {
	q := eventSelect + ` WHERE e.user_id = $1 AND e.status = 'pending' AND e.due_at <= $2`
	args := []interface{}{ownerID, to}
	if !from.IsZero() {
		args = append(args, from)
		q += fmt.Sprintf(" AND e.due_at >= $%d", len(args))
	}
	q += " ORDER BY e.due_at ASC"
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	events := make([]event.Event, 0)
	if err := repo.db.SelectContext(ctx, &events, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting pending events due")
	}
	return events, nil
}

func (repo *eventRepository) QueryEventsByPeriod(ctx context.Context, ownerID int, from, to time.Time) ([]event.Event, error) {
	q := eventSelect + ` WHERE e.user_id = $1 AND e.due_at >= $2 AND e.due_at < $3 ORDER BY e.due_at ASC`

	events := make([]event.Event, 0)
	if err := repo.db.SelectContext(ctx, &events, q, ownerID, from, to); err != nil {
		return nil, errors.Wrap(err, "selecting events by period")
	}
	return events, nil
}

func (repo *eventRepository) CompleteEvent(ctx context.Context, id, ownerID int, at time.Time) error {
	const q = `UPDATE events SET status = 'completed', updated_at = $3 WHERE id = $1 AND user_id = $2`

	res, err := repo.db.ExecContext(ctx, q, id, ownerID, at)
	if err != nil {
		return errors.Wrap(err, "completing event")
	}
	return oneRowOr(res, event.ErrNotFound)
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, id, ownerID int, ue event.UpdateEvent, at time.Time) error {
	sets := make([]string, 0, 6)
	args := []interface{}{id, ownerID, at}
	add := func(column string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if ue.Title != nil {
		add("title", *ue.Title)
	}
	if ue.Description != nil {
		add("description", *ue.Description)
	}
	if ue.DueAt != nil {
		add("due_at", ue.DueAt.UTC())
	}
	if ue.Priority != nil {
		add("priority", *ue.Priority)
	}
	if ue.Type != nil {
		add("type", *ue.Type)
	}
	if ue.SubjectID != nil {
		add("subject_id", *ue.SubjectID)
	}
	if len(sets) == 0 {
		return event.ErrNothingToUpdate
	}

	q := fmt.Sprintf(
		"UPDATE events SET %s, updated_at = $3 WHERE id = $1 AND user_id = $2",
		strings.Join(sets, ", "),
	)
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "updating event")
	}
	return oneRowOr(res, event.ErrNotFound)
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id, ownerID int) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	return oneRowOr(res, event.ErrNotFound)
}

func (repo *eventRepository) GetEventStats(ctx context.Context, ownerID int, now, soonBy time.Time) (event.Stats, error) {
	const q = `
	SELECT COUNT(*) AS total,
	       COUNT(*) FILTER (WHERE status = 'completed') AS completed,
	       COUNT(*) FILTER (WHERE status = 'pending') AS pending,
	       COUNT(*) FILTER (WHERE status = 'pending' AND due_at < $2) AS overdue,
	       COUNT(*) FILTER (WHERE status = 'pending' AND priority = 'high') AS high_priority,
	       COUNT(*) FILTER (WHERE status = 'pending' AND due_at >= $2 AND due_at <= $3) AS due_soon
	FROM events
	WHERE user_id = $1`

	var stats event.Stats
	if err := repo.db.GetContext(ctx, &stats, q, ownerID, now, soonBy); err != nil {
		return event.Stats{}, errors.Wrap(err, "selecting event stats")
	}
	return stats, nil
}
