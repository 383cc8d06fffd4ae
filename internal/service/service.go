package service

import (
	"context"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/repository"
	"github.com/braz-finance/backend/internal/verification"
	"github.com/braz-finance/backend/pkg/email"
	"github.com/braz-finance/backend/pkg/hash"
	"github.com/braz-finance/backend/pkg/otp"
	"github.com/braz-finance/backend/pkg/pdf"

	"github.com/braz-finance/backend/pkg/auth"

	"github.com/google/uuid"
)

// TextGenerator is the generative-model capability consumed by the AI
// service.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Services struct {
	Users        Users
	Profile      Profile
	Transactions Transactions
	Categories   Categories
	AI           AI
}

type Deps struct {
	Config        *config.Config
	Hasher        hash.PasswordHasher
	TokenManager  auth.TokenManager
	OtpGenerator  otp.Generator
	EmailSender   email.Sender
	Limiter       *verification.Limiter
	TextGenerator TextGenerator
	Statements    pdf.StatementGenerator
	Repos         *repository.Repositories
}

func NewServices(deps Deps) *Services {
	emails := newEmailService(deps.EmailSender, deps.Config.Email)
	users := newUserService(
		deps.Repos.Users,
		deps.Repos.RefreshSession,
		deps.Hasher,
		deps.TokenManager,
		deps.OtpGenerator,
		deps.Limiter,
		emails,
		deps.Config.Auth,
	)

	return &Services{
		Users: users,
		Profile: newProfileService(
			deps.Repos.Users,
			deps.Hasher,
			deps.OtpGenerator,
			deps.Limiter,
			emails,
			deps.Config.Auth,
		),
		Transactions: newTransactionService(deps.Repos.Transactions, deps.Repos.Categories, deps.Repos.Users, deps.Statements),
		Categories:   newCategoryService(deps.Repos.Categories),
		AI:           newAIService(deps.TextGenerator, deps.Repos.Transactions, deps.Repos.Categories, deps.Repos.Conversations),
	}
}

type Users interface {
	Register(ctx context.Context, input RegisterInput) error
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerificationCode(ctx context.Context, email string) error
	Login(ctx context.Context, input LoginInput) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken, userAgent, userIP string) (*Tokens, error)
	RequestPasswordRecovery(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type Profile interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error
	ConfirmEmailChange(ctx context.Context, userID uuid.UUID, newEmail, code string) (*domain.User, error)
	RequestAccountDeletion(ctx context.Context, userID uuid.UUID, password string) error
	ConfirmAccountDeletion(ctx context.Context, userID uuid.UUID, code string) error
}

type Transactions interface {
	Create(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error)
	GetOneByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]domain.Transaction, int64, error)
	GetMonthly(ctx context.Context, userID uuid.UUID, year, month int) ([]domain.Transaction, error)
	GetBalance(ctx context.Context, userID uuid.UUID, year, month int) (*MonthlyBalance, error)
	GetByCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]domain.Transaction, error)
	Update(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	MonthlyStatement(ctx context.Context, userID uuid.UUID, year, month int) ([]byte, error)
}

type Categories interface {
	GetAll(ctx context.Context) ([]domain.Category, error)
	GetByType(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	GetOneByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type AI interface {
	Chat(ctx context.Context, userID uuid.UUID, question string) (string, error)
	MonthlyReport(ctx context.Context, userID uuid.UUID, month, year int) (string, error)
	AnalyzeCategory(ctx context.Context, userID, categoryID uuid.UUID, month, year int) (string, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Conversation, error)
}
