package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/braz-finance/backend/internal/db"
	"github.com/braz-finance/backend/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type categoryRepository struct {
	db *sqlx.DB
}

func newCategoryRepository(db *sqlx.DB) *categoryRepository {
	return &categoryRepository{
		db: db,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
	INSERT INTO categories (id, name, slug, type, icon, color, active)
	VALUES (uuid_to_bin(?), ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.Type,
		category.Icon,
		category.Color,
		category.Active,
	)
	if err != nil {
		//nolint:errorlint
		if mysqlError, ok := err.(*mysql.MySQLError); ok && mysqlError.Number == db.DuplicateEntry {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("db insert category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	const query = `
	SELECT id, name, slug, type, icon, color, active, created_at
	FROM categories WHERE active = 1 ORDER BY name;
	`
	var categories []domain.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("select categories failed: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetByType(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error) {
	const query = `
	SELECT id, name, slug, type, icon, color, active, created_at
	FROM categories WHERE type = ? AND active = 1 ORDER BY name;
	`
	var categories []domain.Category
	if err := r.db.SelectContext(ctx, &categories, query, categoryType); err != nil {
		return nil, fmt.Errorf("select categories by type failed: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const query = `
	SELECT id, name, slug, type, icon, color, active, created_at
	FROM categories WHERE slug = ?;
	`
	var category domain.Category
	if err := r.db.GetContext(ctx, &category, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select category by slug failed: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	const query = `
	SELECT id, name, slug, type, icon, color, active, created_at
	FROM categories WHERE id = uuid_to_bin(?);
	`
	var category domain.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select category by id failed: %w", err)
	}

	return &category, nil
}
