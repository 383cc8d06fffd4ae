package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/braz-finance/backend/internal/db"
	"github.com/braz-finance/backend/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func newUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
	INSERT INTO users
	(id, email, name, password_hash, verified, verification_code, verification_expires_at)
	VALUES (uuid_to_bin(?), ?, ?, ?, ?, ?, ?);
	`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Verified,
		user.VerificationCode,
		user.VerificationExpiresAt,
	)
	if err != nil {
		//nolint:errorlint
		if mysqlError, ok := err.(*mysql.MySQLError); ok && mysqlError.Number == db.DuplicateEntry {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("db insert user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
	SELECT id, email, name, password_hash, verified, verification_code, verification_expires_at, created_at, updated_at, deleted_at
	FROM users WHERE email = ? AND deleted_at IS NULL;
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from users by email failed: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
	SELECT id, email, name, password_hash, verified, verification_code, verification_expires_at, created_at, updated_at, deleted_at
	FROM users WHERE id = uuid_to_bin(?) AND deleted_at IS NULL;
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select from users by id failed: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	const query = `
	UPDATE users SET name = ? WHERE id = uuid_to_bin(?);
	`
	if _, err := r.db.ExecContext(ctx, query, name, id); err != nil {
		return fmt.Errorf("update user name failed: %w", err)
	}
	return nil
}

// UpdatePassword replaces the hash and clears any pending verification
// code: a password change invalidates outstanding challenges.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `
	UPDATE users SET password_hash = ?, verification_code = NULL, verification_expires_at = NULL
	WHERE id = uuid_to_bin(?);
	`
	if _, err := r.db.ExecContext(ctx, query, passwordHash, id); err != nil {
		return fmt.Errorf("update user password failed: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	const query = `
	UPDATE users SET email = ?, verification_code = NULL, verification_expires_at = NULL
	WHERE id = uuid_to_bin(?);
	`
	_, err := r.db.ExecContext(ctx, query, email, id)
	if err != nil {
		//nolint:errorlint
		if mysqlError, ok := err.(*mysql.MySQLError); ok && mysqlError.Number == db.DuplicateEntry {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("update user email failed: %w", err)
	}
	return nil
}

// SetVerificationCode overwrites the live code: at most one challenge per
// user at a time.
func (r *userRepository) SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	const query = `
	UPDATE users SET verification_code = ?, verification_expires_at = ? WHERE id = uuid_to_bin(?);
	`
	if _, err := r.db.ExecContext(ctx, query, code, expiresAt, id); err != nil {
		return fmt.Errorf("set verification code failed: %w", err)
	}
	return nil
}

func (r *userRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	const query = `
	UPDATE users SET verified = 1, verification_code = NULL, verification_expires_at = NULL
	WHERE id = uuid_to_bin(?);
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark user verified failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}
	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `
	DELETE FROM users WHERE id = uuid_to_bin(?);
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}
	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}
