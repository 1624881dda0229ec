package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasku/backend/core"
	"github.com/tasku/backend/core/event"
	"github.com/tasku/backend/core/notification"
	dummydb "github.com/tasku/backend/storage/database/dummy"
)

func setup(t *testing.T) (*notification.Service, notification.Repository, event.Repository) {
	db, err := dummydb.Open()
	require.NoError(t, err)

	conf := &core.Config{
		Notification: core.NotificationConfig{ReminderLead: 24 * time.Hour, RetentionDays: 30},
	}
	repo := dummydb.NewNotificationRepository(db)
	svc := notification.NewService(repo, core.NopLogger{}, conf)
	return svc, repo, dummydb.NewEventRepository(db)
}

func seedEvent(t *testing.T, evtRepo event.Repository, ownerID int, title string, dueAt time.Time) event.Event {
	evt, err := evtRepo.CreateEvent(context.Background(), event.Event{
		Title:   title,
		DueAt:   dueAt,
		Status:  event.StatusPending,
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	return evt
}

func TestService_ScheduleReminder(t *testing.T) {
	svc, _, evtRepo := setup(t)
	ctx := context.Background()

	t.Run("ok: fires one lead before due", func(t *testing.T) {
		dueAt := time.Now().Add(72 * time.Hour)
		evt := seedEvent(t, evtRepo, 1, "Math homework", dueAt)
		require.NoError(t, svc.ScheduleReminder(ctx, evt.ID, dueAt, 1))

		ntfs, err := svc.ListPending(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, ntfs, 1)
		assert.Equal(t, notification.KindReminder24h, ntfs[0].Kind)
		assert.Equal(t, evt.ID, ntfs[0].EventID)
		assert.Equal(t, evt.Title, ntfs[0].EventTitle)
		assert.False(t, ntfs[0].Read)
		assert.Equal(t, dueAt.Add(-24*time.Hour).UTC(), ntfs[0].FireAt)
	})

	t.Run("due too close: silently skipped", func(t *testing.T) {
		dueAt := time.Now().Add(time.Hour)
		evt := seedEvent(t, evtRepo, 2, "Almost due", dueAt)
		require.NoError(t, svc.ScheduleReminder(ctx, evt.ID, dueAt, 2))

		ntfs, err := svc.ListPending(ctx, 2, 0)
		require.NoError(t, err)
		assert.Empty(t, ntfs)
	})

	t.Run("due already passed: silently skipped", func(t *testing.T) {
		dueAt := time.Now().Add(-time.Hour)
		evt := seedEvent(t, evtRepo, 3, "Overdue", dueAt)
		require.NoError(t, svc.ScheduleReminder(ctx, evt.ID, dueAt, 3))

		ntfs, err := svc.ListPending(ctx, 3, 0)
		require.NoError(t, err)
		assert.Empty(t, ntfs)
	})
}

func TestService_MarkRead(t *testing.T) {
	svc, repo, evtRepo := setup(t)
	ctx := context.Background()

	evt := seedEvent(t, evtRepo, 1, "Math homework", time.Now().Add(48*time.Hour))
	ntf, err := repo.CreateNotification(ctx, notification.Notification{
		Kind:    notification.KindReminder24h,
		FireAt:  time.Now().Add(time.Hour),
		EventID: evt.ID,
		UserID:  1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, ntf.ID))

	// marking again still succeeds
	require.NoError(t, svc.MarkRead(ctx, ntf.ID))

	ntfs, err := svc.ListPending(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, ntfs)

	assert.ErrorIs(t, svc.MarkRead(ctx, 999), notification.ErrNotFound)
}

func TestService_PurgeOld(t *testing.T) {
	svc, repo, evtRepo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()

	evt := seedEvent(t, evtRepo, 1, "Math homework", now.Add(48*time.Hour))

	seed := func(fireAt time.Time, read bool) notification.Notification {
		ntf, err := repo.CreateNotification(ctx, notification.Notification{
			Kind:    notification.KindReminder24h,
			FireAt:  fireAt,
			Read:    read,
			EventID: evt.ID,
			UserID:  1,
		})
		require.NoError(t, err)
		return ntf
	}

	seed(now.AddDate(0, 0, -40), true)  // purged
	seed(now.AddDate(0, 0, -40), false) // unread, kept
	seed(now.AddDate(0, 0, -10), true)  // too recent, kept
	kept := seed(now.Add(time.Hour), false)

	n, err := svc.PurgeOld(ctx, -1) // configured default: 30 days
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	t.Run("explicit window", func(t *testing.T) {
		n, err := svc.PurgeOld(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, n) // the 10-day-old read one goes now
	})

	ntfs, err := svc.ListPending(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, ntfs, 2)
	assert.Equal(t, kept.ID, ntfs[1].ID)
}

func TestService_ListPending_deletedEvent(t *testing.T) {
	svc, _, evtRepo := setup(t)
	ctx := context.Background()

	dueAt := time.Now().Add(72 * time.Hour)
	evt := seedEvent(t, evtRepo, 1, "Math homework", dueAt)
	require.NoError(t, svc.ScheduleReminder(ctx, evt.ID, dueAt, 1))

	require.NoError(t, evtRepo.DeleteEvent(ctx, evt.ID, 1))

	// the reminder goes with its event
	ntfs, err := svc.ListPending(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, ntfs)
}
