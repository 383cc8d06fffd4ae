package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

type Transaction struct {
	ID          uuid.UUID         `db:"id" json:"id"`
	UserID      uuid.UUID         `db:"user_id" json:"user_id"`
	CategoryID  uuid.UUID         `db:"category_id" json:"category_id"`
	AmountCents int64             `db:"amount_cents" json:"amount_cents"`
	Description string            `db:"description" json:"description"`
	Date        time.Time         `db:"date" json:"date"`
	Status      TransactionStatus `db:"status" json:"status"`
	Notes       string            `db:"notes" json:"notes,omitempty"`

	// Populated on joined reads.
	CategoryName string       `db:"category_name" json:"category_name,omitempty"`
	CategoryType CategoryType `db:"category_type" json:"category_type,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
