package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/verification"
	mock_email "github.com/braz-finance/backend/pkg/email/mock"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *userRepoMock) GetOneByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *userRepoMock) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *userRepoMock) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *userRepoMock) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	args := m.Called(ctx, id, email)
	return args.Error(0)
}

func (m *userRepoMock) SetVerificationCode(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	args := m.Called(ctx, id, code, expiresAt)
	return args.Error(0)
}

func (m *userRepoMock) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *userRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type refreshSessionRepoMock struct {
	mock.Mock
}

func (m *refreshSessionRepoMock) Create(ctx context.Context, session *domain.RefreshSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *refreshSessionRepoMock) GetByToken(ctx context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error) {
	args := m.Called(ctx, refreshToken)
	session, _ := args.Get(0).(*domain.RefreshSession)
	return session, args.Error(1)
}

func (m *refreshSessionRepoMock) DeleteByToken(ctx context.Context, refreshToken uuid.UUID) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

type staticCodeGenerator struct {
	code string
}

func (g staticCodeGenerator) RandomCode() (string, error) {
	return g.code, nil
}

func newTestLimiter(t *testing.T) *verification.Limiter {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return verification.NewLimiter(verification.NewRedisAttemptStore(client))
}

func testEmailConfig(enabled bool) config.EmailConfig {
	return config.EmailConfig{
		Enabled: enabled,
		Templates: config.EmailTemplates{
			VerificationCode: "verification_code.html",
			Welcome:          "welcome.html",
		},
	}
}

// newTestEmailService wires a mock sender behind real template rendering.
// With enabled=true the templates are materialized in a temp working dir.
func newTestEmailService(t *testing.T, sender *mock_email.EmailSender, enabled bool) *emailService {
	t.Helper()

	if enabled {
		dir := t.TempDir()
		templates := filepath.Join(dir, "templates")
		require.NoError(t, os.MkdirAll(templates, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(templates, "verification_code.html"),
			[]byte("<p>Hi {{.Name}}, your code is {{.VerificationCode}}</p>"), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(templates, "welcome.html"),
			[]byte("<p>Welcome, {{.Name}}!</p>"), 0o644))
		t.Chdir(dir)
	}

	return newEmailService(sender, testEmailConfig(enabled))
}
