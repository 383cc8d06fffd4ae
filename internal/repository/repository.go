package repository

import (
	"context"
	"time"

	"github.com/braz-finance/backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Users          Users
	Categories     Categories
	Transactions   Transactions
	Conversations  Conversations
	RefreshSession RefreshSession
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Users:          newUserRepository(db),
		Categories:     newCategoryRepository(db),
		Transactions:   newTransactionRepository(db),
		Conversations:  newConversationRepository(db),
		RefreshSession: newRefreshSessionRepository(db),
	}
}

type Users interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Categories interface {
	Create(ctx context.Context, category *domain.Category) error
	GetAll(ctx context.Context) ([]domain.Category, error)
	GetByType(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type Transactions interface {
	Create(ctx context.Context, transaction *domain.Transaction) error
	GetOneByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, int64, error)
	ListByMonth(ctx context.Context, userID uuid.UUID, year, month int) ([]domain.Transaction, error)
	ListByCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]domain.Transaction, error)
	TotalByType(ctx context.Context, userID uuid.UUID, year, month int, categoryType domain.CategoryType) (int64, error)
	Update(ctx context.Context, transaction *domain.Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type Conversations interface {
	Create(ctx context.Context, conversation *domain.Conversation) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Conversation, error)
}

type RefreshSession interface {
	Create(ctx context.Context, session *domain.RefreshSession) error
	GetByToken(ctx context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error)
	DeleteByToken(ctx context.Context, refreshToken uuid.UUID) error
}
