package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tasku/backend/core"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Types
const (
	TypeTask    = "task"
	TypeExam    = "exam"
	TypeProject = "project"
	TypeOther   = "other"
)

// Statuses. There is no stored "overdue" status: overdue-ness is always
// derived at read time from (DueAt < now && Status == pending).
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type Event struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueAt       time.Time `json:"due_at" db:"due_at"` // UTC
	Priority    string    `json:"priority" db:"priority"`
	Type        string    `json:"type" db:"type"`
	Status      string    `json:"status" db:"status"`
	OwnerID     int       `json:"owner_id" db:"user_id"`
	SubjectID   *int      `json:"subject_id,omitempty" db:"subject_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC

	// subject display fields, joined in on reads when SubjectID is set
	SubjectName  *string `json:"subject_name,omitempty" db:"subject_name"`
	SubjectCode  *string `json:"subject_code,omitempty" db:"subject_code"`
	SubjectColor *string `json:"subject_color,omitempty" db:"subject_color"`
}

func (e *Event) IsOverdue(now time.Time) bool {
	return e.Status == StatusPending && e.DueAt.Before(now)
}

// NewEvent contains information needed to create a new Event.
type NewEvent struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"due_at" validate:"required"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Type        string    `json:"type" validate:"omitempty,oneof=task exam project other"`
	SubjectID   *int      `json:"subject_id"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	if ne.Priority == "" {
		ne.Priority = PriorityMedium
	}
	if ne.Type == "" {
		ne.Type = TypeTask
	}
	if err := validate.Struct(ne); err != nil {
		return err
	}
	if !ne.DueAt.After(time.Now()) {
		return core.NewValidationError(ErrDueDateInPast, core.FieldError{Field: "due_at", Error: ErrDueDateInPast.Error()})
	}
	return nil
}

// UpdateEvent defines what may be modified on an existing Event.
// Protected fields (id, owner, creation timestamp) are not representable
// here; unknown keys in a payload are dropped at binding time.
type UpdateEvent struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Type        *string    `json:"type" validate:"omitempty,oneof=task exam project other"`
	SubjectID   *int       `json:"subject_id"`
}

func (ue *UpdateEvent) IsEmpty() bool {
	return ue.Title == nil && ue.Description == nil && ue.DueAt == nil &&
		ue.Priority == nil && ue.Type == nil && ue.SubjectID == nil
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	if ue.IsEmpty() {
		return core.NewValidationError(ErrNothingToUpdate)
	}
	if ue.Title != nil {
		title := core.CleanString(*ue.Title)
		if title == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "title", Error: "must not be empty"})
		}
		ue.Title = &title
	}
	return validate.Struct(ue)
}

// Stats aggregates an owner's event counts at a point in time.
type Stats struct {
	Total        int `json:"total" db:"total"`
	Completed    int `json:"completed" db:"completed"`
	Pending      int `json:"pending" db:"pending"`
	Overdue      int `json:"overdue" db:"overdue"`
	HighPriority int `json:"high_priority" db:"high_priority"`
	DueSoon      int `json:"due_soon" db:"due_soon"`
}
