package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/repository"

	"github.com/google/uuid"
)

type categoryService struct {
	categoryRepository repository.Categories
}

func newCategoryService(categoryRepository repository.Categories) *categoryService {
	return &categoryService{
		categoryRepository: categoryRepository,
	}
}

func (s *categoryService) GetAll(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepository.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get categories failed: %w", err)
	}

	return categories, nil
}

func (s *categoryService) GetByType(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error) {
	categories, err := s.categoryRepository.GetByType(ctx, categoryType)
	if err != nil {
		return nil, fmt.Errorf("get categories by type failed: %w", err)
	}

	return categories, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.categoryRepository.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by slug failed: %w", err)
	}

	return category, nil
}

func (s *categoryService) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepository.GetOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category failed: %w", err)
	}

	return category, nil
}
