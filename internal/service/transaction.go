package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/repository"
	"github.com/braz-finance/backend/pkg/pdf"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type transactionService struct {
	transactionRepository repository.Transactions
	categoryRepository    repository.Categories
	userRepository        repository.Users
	statements            pdf.StatementGenerator
}

func newTransactionService(
	transactionRepository repository.Transactions,
	categoryRepository repository.Categories,
	userRepository repository.Users,
	statements pdf.StatementGenerator,
) *transactionService {
	return &transactionService{
		transactionRepository: transactionRepository,
		categoryRepository:    categoryRepository,
		userRepository:        userRepository,
		statements:            statements,
	}
}

type CreateTransactionInput struct {
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	AmountCents int64
	Description string
	Date        time.Time
	Status      domain.TransactionStatus
	Notes       string
}

type UpdateTransactionInput struct {
	UserID      uuid.UUID
	ID          uuid.UUID
	CategoryID  *uuid.UUID
	AmountCents *int64
	Description *string
	Date        *time.Time
	Status      *domain.TransactionStatus
	Notes       *string
}

type MonthlyBalance struct {
	Year              int   `json:"year"`
	Month             int   `json:"month"`
	TotalIncomeCents  int64 `json:"total_income_cents"`
	TotalExpenseCents int64 `json:"total_expense_cents"`
	BalanceCents      int64 `json:"balance_cents"`
}

func (s *transactionService) Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	category, err := s.getCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate transaction id failed: %w", err)
	}

	status := input.Status
	if status == "" {
		status = domain.TransactionStatusCompleted
	}

	transaction := &domain.Transaction{
		ID:           id,
		UserID:       input.UserID,
		CategoryID:   input.CategoryID,
		AmountCents:  input.AmountCents,
		Description:  input.Description,
		Date:         input.Date,
		Status:       status,
		Notes:        input.Notes,
		CategoryName: category.Name,
		CategoryType: category.Type,
	}

	if err := s.transactionRepository.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("create transaction failed: %w", err)
	}

	return transaction, nil
}

func (s *transactionService) GetOneByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error) {
	transaction, err := s.transactionRepository.GetOneByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction failed: %w", err)
	}

	return transaction, nil
}

func (s *transactionService) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Transaction, int64, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page < 1 {
		page = 1
	}

	transactions, total, err := s.transactionRepository.List(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions failed: %w", err)
	}

	return transactions, total, nil
}

func (s *transactionService) GetMonthly(ctx context.Context, userID uuid.UUID, year, month int) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepository.ListByMonth(ctx, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions by month failed: %w", err)
	}

	return transactions, nil
}

func (s *transactionService) GetBalance(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyBalance, error) {
	income, err := s.transactionRepository.TotalByType(ctx, userID, year, month, domain.CategoryTypeIncome)
	if err != nil {
		return nil, fmt.Errorf("total income failed: %w", err)
	}

	expense, err := s.transactionRepository.TotalByType(ctx, userID, year, month, domain.CategoryTypeExpense)
	if err != nil {
		return nil, fmt.Errorf("total expense failed: %w", err)
	}

	return &MonthlyBalance{
		Year:              year,
		Month:             month,
		TotalIncomeCents:  income,
		TotalExpenseCents: expense,
		BalanceCents:      income - expense,
	}, nil
}

func (s *transactionService) GetByCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]domain.Transaction, error) {
	if _, err := s.getCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepository.ListByCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by category failed: %w", err)
	}

	return transactions, nil
}

func (s *transactionService) Update(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	transaction, err := s.GetOneByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		category, err := s.getCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		transaction.CategoryID = category.ID
		transaction.CategoryName = category.Name
		transaction.CategoryType = category.Type
	}
	if input.AmountCents != nil {
		transaction.AmountCents = *input.AmountCents
	}
	if input.Description != nil {
		transaction.Description = *input.Description
	}
	if input.Date != nil {
		transaction.Date = *input.Date
	}
	if input.Status != nil {
		transaction.Status = *input.Status
	}
	if input.Notes != nil {
		transaction.Notes = *input.Notes
	}

	if err := s.transactionRepository.Update(ctx, transaction); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("update transaction failed: %w", err)
	}

	return transaction, nil
}

func (s *transactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.transactionRepository.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}

func (s *transactionService) MonthlyStatement(ctx context.Context, userID uuid.UUID, year, month int) ([]byte, error) {
	user, err := s.userRepository.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	transactions, err := s.GetMonthly(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	balance, err := s.GetBalance(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	lines := make([]pdf.StatementLine, 0, len(transactions))
	for _, t := range transactions {
		lines = append(lines, pdf.StatementLine{
			Date:        t.Date,
			Description: t.Description,
			Category:    t.CategoryName,
			AmountCents: t.AmountCents,
		})
	}

	document, err := s.statements.GenerateStatement(pdf.StatementData{
		UserName:          user.Name,
		Month:             month,
		Year:              year,
		TotalIncomeCents:  balance.TotalIncomeCents,
		TotalExpenseCents: balance.TotalExpenseCents,
		Lines:             lines,
	})
	if err != nil {
		return nil, fmt.Errorf("generate statement failed: %w", err)
	}

	return document, nil
}

func (s *transactionService) getCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepository.GetOneByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category failed: %w", err)
	}

	return category, nil
}
