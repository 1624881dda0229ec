package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core/notification"
)

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *sqlx.DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, ntf notification.Notification) (notification.Notification, error) {
	const q = `
	INSERT INTO notifications (kind, message, fire_at, read, event_id, user_id)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`

	err := repo.db.QueryRowContext(ctx, q, ntf.Kind, ntf.Message, ntf.FireAt, ntf.Read, ntf.EventID, ntf.UserID).Scan(&ntf.ID)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return ntf, nil
}

func (repo *notificationRepository) QueryUnreadByUser(ctx context.Context, userID, limit int) ([]notification.PendingNotification, error) {
	const q = `
	SELECT n.id, n.kind, n.message, n.fire_at, n.read, n.event_id, n.user_id,
	       e.title AS event_title
	FROM notifications n
	INNER JOIN events e ON e.id = n.event_id
	WHERE n.user_id = $1 AND NOT n.read
	ORDER BY n.fire_at ASC
	LIMIT $2`

	ntfs := make([]notification.PendingNotification, 0)
	if err := repo.db.SelectContext(ctx, &ntfs, q, userID, limit); err != nil {
		return nil, errors.Wrap(err, "selecting unread notifications")
	}
	return ntfs, nil
}

func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return oneRowOr(res, notification.ErrNotFound)
}

func (repo *notificationRepository) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM notifications WHERE read AND fire_at < $1`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "purging notifications")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reading affected rows")
	}
	return int(n), nil
}
