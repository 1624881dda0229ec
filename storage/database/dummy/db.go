package dummydb

import (
	"sync"

	"github.com/tasku/backend/core/event"
	"github.com/tasku/backend/core/notification"
	"github.com/tasku/backend/core/subject"
	"github.com/tasku/backend/core/user"
)

type (
	DB struct {
		user         *userTable
		subject      *subjectTable
		event        *eventTable
		notification *notificationTable
	}

	userTable struct {
		sync.RWMutex
		seq   int
		table map[int]*user.User
	}

	subjectTable struct {
		sync.RWMutex
		seq          int
		table        map[int]*subject.Subject
		associations map[[2]int]struct{} // {userID, subjectID}
	}

	eventTable struct {
		sync.RWMutex
		seq   int
		table map[int]*event.Event
	}

	notificationTable struct {
		sync.RWMutex
		seq   int
		table map[int]*notification.Notification
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[int]*user.User)},
		subject:      &subjectTable{table: make(map[int]*subject.Subject), associations: make(map[[2]int]struct{})},
		event:        &eventTable{table: make(map[int]*event.Event)},
		notification: &notificationTable{table: make(map[int]*notification.Notification)},
	}
	return db, nil
}
