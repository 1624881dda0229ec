package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/tasku/backend/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, ntf notification.Notification) (notification.Notification, error) {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	repo.db.notification.seq++
	ntf.ID = repo.db.notification.seq
	repo.db.notification.table[ntf.ID] = &ntf
	return ntf, nil
}

func (repo *notificationRepository) QueryUnreadByUser(ctx context.Context, userID, limit int) ([]notification.PendingNotification, error) {
	// lock order is event before notification
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()
	repo.db.notification.RLock()
	defer repo.db.notification.RUnlock()

	ntfs := make([]notification.PendingNotification, 0)
	for _, ntf := range repo.db.notification.table {
		if ntf.UserID != userID || ntf.Read {
			continue
		}
		// inner join: a notification without its parent event has no reader
		evt, ok := repo.db.event.table[ntf.EventID]
		if !ok {
			continue
		}
		ntfs = append(ntfs, notification.PendingNotification{Notification: *ntf, EventTitle: evt.Title})
	}
	sort.Slice(ntfs, func(i, j int) bool { return ntfs[i].FireAt.Before(ntfs[j].FireAt) })
	if limit > 0 && len(ntfs) > limit {
		ntfs = ntfs[:limit]
	}
	return ntfs, nil
}

func (repo *notificationRepository) MarkNotificationRead(ctx context.Context, id int) error {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	ntf, ok := repo.db.notification.table[id]
	if !ok {
		return notification.ErrNotFound
	}
	ntf.Read = true
	return nil
}

func (repo *notificationRepository) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()

	var n int
	for id, ntf := range repo.db.notification.table {
		if ntf.Read && ntf.FireAt.Before(cutoff) {
			delete(repo.db.notification.table, id)
			n++
		}
	}
	return n, nil
}
