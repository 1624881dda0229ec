package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/tasku/backend/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db}
}

// query snapshots an owner's events with subject display fields joined in,
// ascending by due date. Callers hold the event lock; lock order is
// event before subject.
func (repo *eventRepository) query(ownerID int) []event.Event {
	repo.db.subject.RLock()
	defer repo.db.subject.RUnlock()

	events := make([]event.Event, 0)
	for _, evt := range repo.db.event.table {
		if evt.OwnerID != ownerID {
			continue
		}
		e := *evt
		if e.SubjectID != nil {
			if sub, ok := repo.db.subject.table[*e.SubjectID]; ok {
				name, code, color := sub.Name, sub.Code, sub.Color
				e.SubjectName, e.SubjectCode, e.SubjectColor = &name, &code, &color
			}
		}
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].DueAt.Before(events[j].DueAt) })
	return events
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	repo.db.event.seq++
	evt.ID = repo.db.event.seq
	repo.db.event.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEventsByOwner(ctx context.Context, ownerID int, status string, limit int) ([]event.Event, error) {
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	events := make([]event.Event, 0)
	for _, evt := range repo.query(ownerID) {
		if status != "" && evt.Status != status {
			continue
		}
		events = append(events, evt)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (repo *eventRepository) QueryPendingEventsDue(ctx context.Context, ownerID int, from, to time.Time, limit int) ([]event.Event, error) {
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	events := make([]event.Event, 0)
	for _, evt := range repo.query(ownerID) {
		if evt.Status != event.StatusPending || evt.DueAt.After(to) {
			continue
		}
		if !from.IsZero() && evt.DueAt.Before(from) {
			continue
		}
		events = append(events, evt)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (repo *eventRepository) QueryEventsByPeriod(ctx context.Context, ownerID int, from, to time.Time) ([]event.Event, error) {
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	events := make([]event.Event, 0)
	for _, evt := range repo.query(ownerID) {
		if evt.DueAt.Before(from) || !evt.DueAt.Before(to) {
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}

func (repo *eventRepository) CompleteEvent(ctx context.Context, id, ownerID int, at time.Time) error {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	evt, ok := repo.db.event.table[id]
	if !ok || evt.OwnerID != ownerID {
		return event.ErrNotFound
	}
	evt.Status = event.StatusCompleted
	evt.UpdatedAt = at
	return nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, id, ownerID int, ue event.UpdateEvent, at time.Time) error {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	if ue.IsEmpty() {
		return event.ErrNothingToUpdate
	}
	evt, ok := repo.db.event.table[id]
	if !ok || evt.OwnerID != ownerID {
		return event.ErrNotFound
	}
	if ue.Title != nil {
		evt.Title = *ue.Title
	}
	if ue.Description != nil {
		evt.Description = *ue.Description
	}
	if ue.DueAt != nil {
		evt.DueAt = ue.DueAt.UTC()
	}
	if ue.Priority != nil {
		evt.Priority = *ue.Priority
	}
	if ue.Type != nil {
		evt.Type = *ue.Type
	}
	if ue.SubjectID != nil {
		subjectID := *ue.SubjectID
		evt.SubjectID = &subjectID
	}
	evt.UpdatedAt = at
	return nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id, ownerID int) error {
	repo.db.event.Lock()
	defer repo.db.event.Unlock()

	evt, ok := repo.db.event.table[id]
	if !ok || evt.OwnerID != ownerID {
		return event.ErrNotFound
	}
	delete(repo.db.event.table, id)

	// cascade to the event's notifications, as the FK does
	repo.db.notification.Lock()
	defer repo.db.notification.Unlock()
	for ntfID, ntf := range repo.db.notification.table {
		if ntf.EventID == id {
			delete(repo.db.notification.table, ntfID)
		}
	}
	return nil
}

func (repo *eventRepository) GetEventStats(ctx context.Context, ownerID int, now, soonBy time.Time) (event.Stats, error) {
	repo.db.event.RLock()
	defer repo.db.event.RUnlock()

	var stats event.Stats
	for _, evt := range repo.query(ownerID) {
		stats.Total++
		if evt.Status == event.StatusCompleted {
			stats.Completed++
			continue
		}
		stats.Pending++
		if evt.DueAt.Before(now) {
			stats.Overdue++
		}
		if evt.Priority == event.PriorityHigh {
			stats.HighPriority++
		}
		if !evt.DueAt.Before(now) && !evt.DueAt.After(soonBy) {
			stats.DueSoon++
		}
	}
	return stats, nil
}
