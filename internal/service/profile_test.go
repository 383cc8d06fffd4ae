package service

import (
	"context"
	"testing"
	"time"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/verification"
	emailProvider "github.com/braz-finance/backend/pkg/email"
	mock_email "github.com/braz-finance/backend/pkg/email/mock"
	"github.com/braz-finance/backend/pkg/hash"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type profileTestDeps struct {
	users   *userRepoMock
	sender  *mock_email.EmailSender
	hasher  hash.PasswordHasher
	service *profileService
}

func newTestProfileService(t *testing.T, emailEnabled bool) *profileTestDeps {
	t.Helper()

	users := new(userRepoMock)
	sender := new(mock_email.EmailSender)
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)

	service := newProfileService(
		users,
		hasher,
		staticCodeGenerator{code: testCode},
		newTestLimiter(t),
		newTestEmailService(t, sender, emailEnabled),
		config.AuthConfig{VerificationCodeTTL: 15 * time.Minute},
	)

	return &profileTestDeps{
		users:   users,
		sender:  sender,
		hasher:  hasher,
		service: service,
	}
}

func (d *profileTestDeps) user(email, password string) *domain.User {
	passwordHash, _ := d.hasher.Hash(password)
	return &domain.User{
		ID:                    uuid.Must(uuid.NewV7()),
		Email:                 email,
		Name:                  "Ana",
		PasswordHash:          passwordHash,
		Verified:              true,
		VerificationCode:      nullString(testCode),
		VerificationExpiresAt: nullTime(time.Now().Add(10 * time.Minute)),
	}
}

func TestProfileServiceUpdateProfileWrongPassword(t *testing.T) {
	deps := newTestProfileService(t, false)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)

	_, err := deps.service.UpdateProfile(ctx, UpdateProfileInput{
		UserID:          user.ID,
		CurrentPassword: "nope",
		NewPassword:     "newpass456",
	})

	assert.ErrorIs(t, err, ErrWrongPassword)
	deps.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileServiceUpdateProfile(t *testing.T) {
	deps := newTestProfileService(t, false)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)
	deps.users.On("UpdateName", ctx, user.ID, "Ana Paula").Return(nil)
	deps.users.On("UpdatePassword", ctx, user.ID, mock.MatchedBy(func(h string) bool {
		return deps.hasher.Verify("newpass456", h)
	})).Return(nil)

	updated, err := deps.service.UpdateProfile(ctx, UpdateProfileInput{
		UserID:          user.ID,
		Name:            "Ana Paula",
		CurrentPassword: "secret123",
		NewPassword:     "newpass456",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name)
	deps.users.AssertExpectations(t)
}

func TestProfileServiceRequestEmailChangeConflict(t *testing.T) {
	deps := newTestProfileService(t, false)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)
	deps.users.On("GetByEmail", ctx, "taken@example.com").
		Return(&domain.User{Email: "taken@example.com"}, nil)

	err := deps.service.RequestEmailChange(ctx, user.ID, "taken@example.com")

	// The conflict is reported before any code is issued or sent.
	assert.ErrorIs(t, err, ErrEmailInUse)
	deps.users.AssertNotCalled(t, "SetVerificationCode",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileServiceRequestEmailChangeSendsToNewAddress(t *testing.T) {
	deps := newTestProfileService(t, true)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)
	deps.users.On("GetByEmail", ctx, "new@example.com").Return(nil, domain.ErrNotFound)
	deps.users.On("SetVerificationCode", ctx, user.ID, testCode, mock.Anything).Return(nil)
	deps.sender.On("Send", mock.MatchedBy(func(inp emailProvider.SendEmailInput) bool {
		return inp.To == "new@example.com"
	})).Return(nil)

	err := deps.service.RequestEmailChange(ctx, user.ID, "new@example.com")

	require.NoError(t, err)
	deps.sender.AssertExpectations(t)
}

func TestProfileServiceConfirmEmailChange(t *testing.T) {
	deps := newTestProfileService(t, false)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)
	deps.users.On("UpdateEmail", ctx, user.ID, "new@example.com").Return(nil)

	updated, err := deps.service.ConfirmEmailChange(ctx, user.ID, "new@example.com", testCode)

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.False(t, updated.VerificationCode.Valid)
	deps.users.AssertExpectations(t)
}

func TestProfileServiceConfirmEmailChangeWrongCode(t *testing.T) {
	deps := newTestProfileService(t, false)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)

	_, err := deps.service.ConfirmEmailChange(ctx, user.ID, "new@example.com", "000000")

	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	deps.users.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileServiceRequestAccountDeletionWrongPassword(t *testing.T) {
	deps := newTestProfileService(t, false)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)

	err := deps.service.RequestAccountDeletion(ctx, user.ID, "nope")

	assert.ErrorIs(t, err, ErrWrongPassword)
	deps.users.AssertNotCalled(t, "SetVerificationCode",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileServiceAccountDeletionFlow(t *testing.T) {
	deps := newTestProfileService(t, true)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)
	deps.users.On("SetVerificationCode", ctx, user.ID, testCode, mock.Anything).Return(nil)
	deps.users.On("Delete", ctx, user.ID).Return(nil)
	deps.sender.On("Send", mock.Anything).Return(nil)

	require.NoError(t, deps.service.RequestAccountDeletion(ctx, user.ID, "secret123"))
	require.NoError(t, deps.service.ConfirmAccountDeletion(ctx, user.ID, testCode))

	deps.users.AssertExpectations(t)
}

func TestProfileServiceConfirmAccountDeletionBlocksAfterRepeatedFailures(t *testing.T) {
	deps := newTestProfileService(t, false)
	ctx := context.Background()
	user := deps.user("ana@example.com", "secret123")

	deps.users.On("GetOneByID", ctx, user.ID).Return(user, nil)

	for i := 0; i < 3; i++ {
		err := deps.service.ConfirmAccountDeletion(ctx, user.ID, "000000")
		require.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	}

	err := deps.service.ConfirmAccountDeletion(ctx, user.ID, testCode)

	var rateErr *verification.RateLimitError
	require.ErrorAs(t, err, &rateErr)
	deps.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
