package domain

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

type Category struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	Slug      string       `db:"slug" json:"slug"`
	Type      CategoryType `db:"type" json:"type"`
	Icon      string       `db:"icon" json:"icon,omitempty"`
	Color     string       `db:"color" json:"color,omitempty"`
	Active    bool         `db:"active" json:"active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
