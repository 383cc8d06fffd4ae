package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Verified     bool      `db:"verified" json:"verified"`

	// One live verification code per user. Overwritten on reissue,
	// both fields cleared when the code is consumed.
	VerificationCode      sql.NullString `db:"verification_code" json:"-"`
	VerificationExpiresAt sql.NullTime   `db:"verification_expires_at" json:"-"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// HasLiveCode reports whether the stored code matches and is unexpired.
// Callers must not distinguish which check failed.
func (u *User) HasLiveCode(code string, now time.Time) bool {
	if !u.VerificationCode.Valid || !u.VerificationExpiresAt.Valid {
		return false
	}
	return u.VerificationCode.String == code && now.Before(u.VerificationExpiresAt.Time)
}
