package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/repository"
	"github.com/braz-finance/backend/internal/verification"
	"github.com/braz-finance/backend/pkg/hash"
	"github.com/braz-finance/backend/pkg/otp"

	"github.com/google/uuid"
)

type profileService struct {
	userRepository repository.Users
	hasher         hash.PasswordHasher
	otpGenerator   otp.Generator
	limiter        *verification.Limiter
	emails         *emailService
	authConfig     config.AuthConfig
}

func newProfileService(
	userRepository repository.Users,
	hasher hash.PasswordHasher,
	otpGenerator otp.Generator,
	limiter *verification.Limiter,
	emails *emailService,
	authConfig config.AuthConfig,
) *profileService {
	return &profileService{
		userRepository: userRepository,
		hasher:         hasher,
		otpGenerator:   otpGenerator,
		limiter:        limiter,
		emails:         emails,
		authConfig:     authConfig,
	}
}

type UpdateProfileInput struct {
	UserID          uuid.UUID
	Name            string
	CurrentPassword string
	NewPassword     string
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepository.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		if err := s.userRepository.UpdateName(ctx, user.ID, input.Name); err != nil {
			return nil, fmt.Errorf("update name failed: %w", err)
		}
		user.Name = input.Name
	}

	if input.NewPassword != "" {
		if !s.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
			return nil, ErrWrongPassword
		}

		passwordHash, err := s.hasher.Hash(input.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password failed: %w", err)
		}

		if err := s.userRepository.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
			return nil, fmt.Errorf("update password failed: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	return user, nil
}

// RequestEmailChange rejects an in-use address before any code is issued
// or sent.
func (s *profileService) RequestEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	existing, err := s.userRepository.GetByEmail(ctx, newEmail)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get user by email failed: %w", err)
	}
	if existing != nil {
		return ErrEmailInUse
	}

	code, expiresAt, err := s.issueCode()
	if err != nil {
		return err
	}

	if err := s.userRepository.SetVerificationCode(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("set verification code failed: %w", err)
	}

	// The code goes to the address being claimed, not the current one.
	if err := s.emails.SendVerificationCode(newEmail, user.Name, code); err != nil {
		return fmt.Errorf("%w: %s", ErrEmailDeliveryFailed, err)
	}

	return nil
}

func (s *profileService) ConfirmEmailChange(ctx context.Context, userID uuid.UUID, newEmail, code string) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(ctx, user.Email); err != nil {
		return nil, err
	}

	if !user.HasLiveCode(code, time.Now()) {
		if err := s.limiter.RecordFailedAttempt(ctx, user.Email); err != nil {
			return nil, err
		}
		return nil, ErrInvalidOrExpiredCode
	}

	if err := s.userRepository.UpdateEmail(ctx, user.ID, newEmail); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("update email failed: %w", err)
	}

	if err := s.limiter.ResetAttempts(ctx, user.Email); err != nil {
		return nil, err
	}

	user.Email = newEmail
	user.VerificationCode.Valid = false
	user.VerificationExpiresAt.Valid = false

	return user, nil
}

// RequestAccountDeletion re-authenticates with the password before a code
// is issued; the code itself is the second factor of the two-step flow.
func (s *profileService) RequestAccountDeletion(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return ErrWrongPassword
	}

	code, expiresAt, err := s.issueCode()
	if err != nil {
		return err
	}

	if err := s.userRepository.SetVerificationCode(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("set verification code failed: %w", err)
	}

	if err := s.emails.SendVerificationCode(user.Email, user.Name, code); err != nil {
		return fmt.Errorf("%w: %s", ErrEmailDeliveryFailed, err)
	}

	return nil
}

func (s *profileService) ConfirmAccountDeletion(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.checkRateLimit(ctx, user.Email); err != nil {
		return err
	}

	if !user.HasLiveCode(code, time.Now()) {
		if err := s.limiter.RecordFailedAttempt(ctx, user.Email); err != nil {
			return err
		}
		return ErrInvalidOrExpiredCode
	}

	if err := s.userRepository.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user failed: %w", err)
	}

	return s.limiter.ResetAttempts(ctx, user.Email)
}

func (s *profileService) issueCode() (string, time.Time, error) {
	code, err := s.otpGenerator.RandomCode()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate verification code failed: %w", err)
	}

	return code, time.Now().Add(s.authConfig.VerificationCodeTTL), nil
}

func (s *profileService) checkRateLimit(ctx context.Context, identity string) error {
	res, err := s.limiter.CheckAttempts(ctx, identity)
	if err != nil {
		return fmt.Errorf("rate limiter failed: %w", err)
	}
	if !res.Allowed {
		return &verification.RateLimitError{Message: res.Message}
	}
	return nil
}
