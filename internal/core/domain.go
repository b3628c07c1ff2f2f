package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Utilities     Category = "utilities"
	Entertainment Category = "entertainment"
	Other         Category = "other"
)

type (
	// Category is one of a fixed, closed set of classification tags.
	Category string

	Money struct {
		Cents int64
	}

	// Expense is a single recorded spend event. ID is assigned by the store
	// at creation and never changes afterwards.
	Expense struct {
		ID          string    `json:"id"`
		Description string    `json:"description" validate:"required,min=3,max=200"`
		Amount      Money     `json:"amount" validate:"gt=0"`
		Category    Category  `json:"category" validate:"required,category"`
		Date        time.Time `json:"date" validate:"required"`
		Notes       string    `json:"notes,omitempty" validate:"max=1000"`
	}

	// Draft is an expense that has not been stored yet and therefore has no ID.
	Draft struct {
		Description string    `json:"description" validate:"required,min=3,max=200"`
		Amount      Money     `json:"amount" validate:"gt=0"`
		Category    Category  `json:"category" validate:"required,category"`
		Date        time.Time `json:"date" validate:"required"`
		Notes       string    `json:"notes,omitempty" validate:"max=1000"`
	}
)

// Categories lists every valid category in display order.
var Categories = []Category{Food, Transport, Utilities, Entertainment, Other}

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
)

// Valid reports whether c belongs to the fixed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory normalizes s and checks it against the category set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Normalize trims free-text fields.
func (d Draft) Normalize() Draft {
	d.Description = strings.TrimSpace(d.Description)
	d.Notes = strings.TrimSpace(d.Notes)
	return d
}

// Validate checks the draft and returns FieldErrors when any field is invalid.
func (d Draft) Validate() error {
	return validateStruct(d)
}

// WithID turns the draft into a stored expense.
func (d Draft) WithID(id string) Expense {
	return Expense{
		ID:          id,
		Description: d.Description,
		Amount:      d.Amount,
		Category:    d.Category,
		Date:        d.Date,
		Notes:       d.Notes,
	}
}

// Normalize trims free-text fields.
func (e Expense) Normalize() Expense {
	e.Description = strings.TrimSpace(e.Description)
	e.Notes = strings.TrimSpace(e.Notes)
	return e
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return FieldErrors{"id": "ID is required"}
	}
	return validateStruct(e)
}

// Draft strips the identity from e.
func (e Expense) Draft() Draft {
	return Draft{
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
		Notes:       e.Notes,
	}
}
