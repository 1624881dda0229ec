package notification

import "time"

// Kinds. Only the 24-hour reminder exists for now.
const KindReminder24h = "reminder_24h"

const reminderMessage = "Reminder: due in 24 hours"

type Notification struct {
	ID      int       `json:"id" db:"id"`
	Kind    string    `json:"kind" db:"kind"`
	Message string    `json:"message" db:"message"`
	FireAt  time.Time `json:"fire_at" db:"fire_at"` // UTC
	Read    bool      `json:"read" db:"read"`
	EventID int       `json:"event_id" db:"event_id"`
	UserID  int       `json:"user_id" db:"user_id"`
}

// PendingNotification is an unread Notification joined with its parent
// event's title for display.
type PendingNotification struct {
	Notification
	EventTitle string `json:"event_title" db:"event_title"`
}
