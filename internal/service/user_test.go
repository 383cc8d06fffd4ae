package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/verification"
	"github.com/braz-finance/backend/pkg/auth"
	emailProvider "github.com/braz-finance/backend/pkg/email"
	mock_email "github.com/braz-finance/backend/pkg/email/mock"
	"github.com/braz-finance/backend/pkg/hash"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCode = "123456"

type userTestDeps struct {
	users    *userRepoMock
	sessions *refreshSessionRepoMock
	sender   *mock_email.EmailSender
	hasher   hash.PasswordHasher
	service  *userService
}

func newTestUserService(t *testing.T, emailEnabled bool) *userTestDeps {
	t.Helper()

	users := new(userRepoMock)
	sessions := new(refreshSessionRepoMock)
	sender := new(mock_email.EmailSender)
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)

	tokenManager, err := auth.NewManager(config.JWTConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 240 * time.Hour,
		SigningKey:      "test-signing-key",
	})
	require.NoError(t, err)

	service := newUserService(
		users,
		sessions,
		hasher,
		tokenManager,
		staticCodeGenerator{code: testCode},
		newTestLimiter(t),
		newTestEmailService(t, sender, emailEnabled),
		config.AuthConfig{VerificationCodeTTL: 15 * time.Minute},
	)

	return &userTestDeps{
		users:    users,
		sessions: sessions,
		sender:   sender,
		hasher:   hasher,
		service:  service,
	}
}

func (d *userTestDeps) unverifiedUser(email, password string) *domain.User {
	passwordHash, _ := d.hasher.Hash(password)
	return &domain.User{
		ID:                    uuid.Must(uuid.NewV7()),
		Email:                 email,
		Name:                  "Ana",
		PasswordHash:          passwordHash,
		VerificationCode:      nullString(testCode),
		VerificationExpiresAt: nullTime(time.Now().Add(10 * time.Minute)),
	}
}

func TestUserServiceRegister(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(nil, domain.ErrNotFound)
	deps.users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ana@example.com" &&
			!u.Verified &&
			u.PasswordHash != "secret123" &&
			u.VerificationCode.String == testCode &&
			u.VerificationExpiresAt.Valid
	})).Return(nil)

	err := deps.service.Register(ctx, RegisterInput{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "secret123",
	})

	require.NoError(t, err)
	deps.users.AssertExpectations(t)
}

func TestUserServiceRegisterDuplicate(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()

	deps.users.On("GetByEmail", ctx, "ana@example.com").
		Return(&domain.User{Email: "ana@example.com"}, nil)

	err := deps.service.Register(ctx, RegisterInput{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	deps.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserServiceRegisterDeliveryFailure(t *testing.T) {
	deps := newTestUserService(t, true)
	ctx := context.Background()

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(nil, domain.ErrNotFound)
	deps.users.On("Create", ctx, mock.Anything).Return(nil)
	deps.sender.On("Send", mock.Anything).Return(errors.New("smtp connection refused"))

	err := deps.service.Register(ctx, RegisterInput{
		Email:    "ana@example.com",
		Name:     "Ana",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrEmailDeliveryFailed)
}

func TestUserServiceVerifyEmail(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
	deps.users.On("MarkVerified", ctx, user.ID).Return(nil)

	err := deps.service.VerifyEmail(ctx, "ana@example.com", testCode)

	require.NoError(t, err)
	deps.users.AssertExpectations(t)
}

func TestUserServiceVerifyEmailWrongCode(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)

	err := deps.service.VerifyEmail(ctx, "ana@example.com", "000000")

	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	deps.users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestUserServiceVerifyEmailExpiredCode(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")
	user.VerificationExpiresAt = nullTime(time.Now().Add(-time.Minute))

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)

	err := deps.service.VerifyEmail(ctx, "ana@example.com", testCode)

	// Expired and wrong codes are indistinguishable to the caller.
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestUserServiceVerifyEmailAlreadyVerified(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")
	user.Verified = true

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)

	err := deps.service.VerifyEmail(ctx, "ana@example.com", testCode)

	assert.ErrorIs(t, err, ErrEmailAlreadyVerified)
	deps.users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestUserServiceVerifyEmailBlocksAfterRepeatedFailures(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)

	// Each failed verification consumes two attempt slots: one at the
	// gate, one recording the failure. Three failures exhaust the quota.
	for i := 0; i < 3; i++ {
		err := deps.service.VerifyEmail(ctx, "ana@example.com", "000000")
		require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	}

	err := deps.service.VerifyEmail(ctx, "ana@example.com", testCode)

	var rateErr *verification.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Contains(t, rateErr.Message, "too many attempts")
	deps.users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestUserServiceLogin(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")
	user.Verified = true

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
	deps.sessions.On("Create", ctx, mock.MatchedBy(func(s *domain.RefreshSession) bool {
		return s.UserID == user.ID && s.ExpiresIn.After(time.Now())
	})).Return(nil)

	tokens, err := deps.service.Login(ctx, LoginInput{
		Email:    "ana@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, uuid.Nil, tokens.RefreshToken)
	deps.sessions.AssertExpectations(t)
}

func TestUserServiceLoginWrongPassword(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")
	user.Verified = true

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)

	_, err := deps.service.Login(ctx, LoginInput{Email: "ana@example.com", Password: "nope"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceLoginUnknownEmail(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()

	deps.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

	_, err := deps.service.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret123"})

	// Same error as a wrong password, no account oracle.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceLoginUnverified(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)

	_, err := deps.service.Login(ctx, LoginInput{Email: "ana@example.com", Password: "secret123"})

	assert.ErrorIs(t, err, ErrUserNotVerified)
}

func TestUserServiceRefreshRotatesToken(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	token := uuid.Must(uuid.NewV7())

	deps.sessions.On("GetByToken", ctx, token).Return(&domain.RefreshSession{
		ID:           uuid.Must(uuid.NewV7()),
		UserID:       userID,
		RefreshToken: token,
		ExpiresIn:    time.Now().Add(time.Hour),
	}, nil)
	deps.sessions.On("DeleteByToken", ctx, token).Return(nil)
	deps.sessions.On("Create", ctx, mock.Anything).Return(nil)

	tokens, err := deps.service.Refresh(ctx, token.String(), "ua", "127.0.0.1")

	require.NoError(t, err)
	assert.NotEqual(t, token, tokens.RefreshToken)
	deps.sessions.AssertExpectations(t)
}

func TestUserServiceRefreshExpiredSession(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	token := uuid.Must(uuid.NewV7())

	deps.sessions.On("GetByToken", ctx, token).Return(&domain.RefreshSession{
		RefreshToken: token,
		ExpiresIn:    time.Now().Add(-time.Minute),
	}, nil)
	deps.sessions.On("DeleteByToken", ctx, token).Return(nil)

	_, err := deps.service.Refresh(ctx, token.String(), "ua", "127.0.0.1")

	assert.ErrorIs(t, err, ErrSessionExpired)
	deps.sessions.AssertCalled(t, "DeleteByToken", ctx, token)
}

func TestUserServiceRequestPasswordRecoveryUnknownEmail(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()

	deps.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

	err := deps.service.RequestPasswordRecovery(ctx, "ghost@example.com")

	// Unknown addresses get the same success as known ones.
	require.NoError(t, err)
	deps.users.AssertNotCalled(t, "SetVerificationCode",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserServiceRequestPasswordRecoveryMasksDeliveryFailure(t *testing.T) {
	deps := newTestUserService(t, true)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
	deps.users.On("SetVerificationCode", ctx, user.ID, testCode, mock.Anything).Return(nil)
	deps.sender.On("Send", mock.Anything).Return(errors.New("smtp connection refused"))

	err := deps.service.RequestPasswordRecovery(ctx, "ana@example.com")

	require.NoError(t, err)
	deps.sender.AssertExpectations(t)
}

func TestUserServiceResetPassword(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "oldpass")

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
	deps.users.On("UpdatePassword", ctx, user.ID, mock.MatchedBy(func(h string) bool {
		return deps.hasher.Verify("newpass456", h)
	})).Return(nil)

	err := deps.service.ResetPassword(ctx, "ana@example.com", testCode, "newpass456")

	require.NoError(t, err)
	deps.users.AssertExpectations(t)
}

func TestUserServiceResetPasswordUnknownEmail(t *testing.T) {
	deps := newTestUserService(t, false)
	ctx := context.Background()

	deps.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)

	err := deps.service.ResetPassword(ctx, "ghost@example.com", testCode, "newpass456")

	// Unknown email answers exactly like a bad code.
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestUserServiceResendVerificationCode(t *testing.T) {
	deps := newTestUserService(t, true)
	ctx := context.Background()
	user := deps.unverifiedUser("ana@example.com", "secret123")

	deps.users.On("GetByEmail", ctx, "ana@example.com").Return(user, nil)
	deps.users.On("SetVerificationCode", ctx, user.ID, testCode, mock.Anything).Return(nil)
	deps.sender.On("Send", mock.MatchedBy(func(inp emailProvider.SendEmailInput) bool {
		return inp.To == "ana@example.com"
	})).Return(nil)

	err := deps.service.ResendVerificationCode(ctx, "ana@example.com")

	require.NoError(t, err)
	deps.users.AssertExpectations(t)
	deps.sender.AssertExpectations(t)
}
