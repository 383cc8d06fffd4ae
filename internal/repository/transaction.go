package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/braz-finance/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type transactionRepository struct {
	db *sqlx.DB
}

func newTransactionRepository(db *sqlx.DB) *transactionRepository {
	return &transactionRepository{
		db: db,
	}
}

const transactionColumns = `
	t.id, t.user_id, t.category_id, t.amount_cents, t.description, t.date, t.status, t.notes,
	c.name AS category_name, c.type AS category_type,
	t.created_at, t.updated_at
`

func (r *transactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	const query = `
	INSERT INTO transactions (id, user_id, category_id, amount_cents, description, date, status, notes)
	VALUES (uuid_to_bin(?), uuid_to_bin(?), uuid_to_bin(?), ?, ?, ?, ?, ?);
	`
	result, err := r.db.ExecContext(ctx, query,
		transaction.ID,
		transaction.UserID,
		transaction.CategoryID,
		transaction.AmountCents,
		transaction.Description,
		transaction.Date,
		transaction.Status,
		transaction.Notes,
	)
	if err != nil {
		return fmt.Errorf("db insert transaction: %w", err)
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

func (r *transactionRepository) GetOneByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	const query = `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	WHERE t.id = uuid_to_bin(?) AND t.user_id = uuid_to_bin(?);
	`
	var transaction domain.Transaction
	if err := r.db.GetContext(ctx, &transaction, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select transaction by id failed: %w", err)
	}

	return &transaction, nil
}

func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error) {
	const query = `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	WHERE t.user_id = uuid_to_bin(?)
	ORDER BY t.date DESC, t.created_at DESC
	LIMIT ? OFFSET ?;
	`
	var transactions []domain.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("select transactions failed: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM transactions WHERE user_id = uuid_to_bin(?);`
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count transactions failed: %w", err)
	}

	return transactions, total, nil
}

func (r *transactionRepository) ListByMonth(ctx context.Context, userID uuid.UUID, year, month int) ([]domain.Transaction, error) {
	const query = `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	WHERE t.user_id = uuid_to_bin(?) AND YEAR(t.date) = ? AND MONTH(t.date) = ?
	ORDER BY t.date DESC;
	`
	var transactions []domain.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, userID, year, month); err != nil {
		return nil, fmt.Errorf("select transactions by month failed: %w", err)
	}

	return transactions, nil
}

func (r *transactionRepository) ListByCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]domain.Transaction, error) {
	const query = `
	SELECT ` + transactionColumns + `
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	WHERE t.user_id = uuid_to_bin(?) AND t.category_id = uuid_to_bin(?)
	ORDER BY t.date DESC;
	`
	var transactions []domain.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, userID, categoryID); err != nil {
		return nil, fmt.Errorf("select transactions by category failed: %w", err)
	}

	return transactions, nil
}

func (r *transactionRepository) TotalByType(ctx context.Context, userID uuid.UUID, year, month int, categoryType domain.CategoryType) (int64, error) {
	const query = `
	SELECT COALESCE(SUM(t.amount_cents), 0)
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	WHERE t.user_id = uuid_to_bin(?) AND YEAR(t.date) = ? AND MONTH(t.date) = ?
		AND c.type = ? AND t.status != 'cancelled';
	`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, userID, year, month, categoryType); err != nil {
		return 0, fmt.Errorf("sum transactions failed: %w", err)
	}

	return total, nil
}

func (r *transactionRepository) Update(ctx context.Context, transaction *domain.Transaction) error {
	const query = `
	UPDATE transactions
	SET category_id = uuid_to_bin(?), amount_cents = ?, description = ?, date = ?, status = ?, notes = ?
	WHERE id = uuid_to_bin(?) AND user_id = uuid_to_bin(?);
	`
	res, err := r.db.ExecContext(ctx, query,
		transaction.CategoryID,
		transaction.AmountCents,
		transaction.Description,
		transaction.Date,
		transaction.Status,
		transaction.Notes,
		transaction.ID,
		transaction.UserID,
	)
	if err != nil {
		return fmt.Errorf("update transaction failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const query = `
	DELETE FROM transactions WHERE id = uuid_to_bin(?) AND user_id = uuid_to_bin(?);
	`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}
