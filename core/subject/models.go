package subject

import (
	"github.com/go-playground/validator/v10"

	"github.com/tasku/backend/core"
)

// Display defaults for subjects created without branding.
const (
	DefaultColor = "#CC0000"
	DefaultIcon  = "📚"
)

type Subject struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Code  string `json:"code" db:"code"`
	Color string `json:"color" db:"color"`
	Icon  string `json:"icon" db:"icon"`
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name  string `json:"name" validate:"required"`
	Code  string `json:"code" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
	if ns.Color == "" {
		ns.Color = DefaultColor
	}
	if ns.Icon == "" {
		ns.Icon = DefaultIcon
	}
	return validate.Struct(ns)
}
