package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/braz-finance/backend/internal/config"
	"github.com/braz-finance/backend/internal/domain"
	"github.com/braz-finance/backend/internal/queue/client"
	"github.com/braz-finance/backend/internal/queue/task"
	"github.com/braz-finance/backend/internal/repository"
	"github.com/braz-finance/backend/internal/verification"
	"github.com/braz-finance/backend/pkg/auth"
	"github.com/braz-finance/backend/pkg/hash"
	"github.com/braz-finance/backend/pkg/logger"
	"github.com/braz-finance/backend/pkg/otp"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type userService struct {
	userRepository           repository.Users
	refreshSessionRepository repository.RefreshSession
	hasher                   hash.PasswordHasher
	tokenManager             auth.TokenManager
	otpGenerator             otp.Generator
	limiter                  *verification.Limiter
	emails                   *emailService
	authConfig               config.AuthConfig
}

func newUserService(
	userRepository repository.Users,
	refreshSessionRepository repository.RefreshSession,
	hasher hash.PasswordHasher,
	tokenManager auth.TokenManager,
	otpGenerator otp.Generator,
	limiter *verification.Limiter,
	emails *emailService,
	authConfig config.AuthConfig,
) *userService {
	return &userService{
		userRepository:           userRepository,
		refreshSessionRepository: refreshSessionRepository,
		hasher:                   hasher,
		tokenManager:             tokenManager,
		otpGenerator:             otpGenerator,
		limiter:                  limiter,
		emails:                   emails,
		authConfig:               authConfig,
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	UserIP    string
}

type Tokens struct {
	AccessToken  string
	AccessTTL    time.Duration
	RefreshToken uuid.UUID
	RefreshTTL   time.Duration
}

func (s *userService) Register(ctx context.Context, input RegisterInput) error {
	existing, err := s.userRepository.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get user by email failed: %w", err)
	}
	if existing != nil {
		return ErrUserAlreadyExists
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	code, expiresAt, err := s.issueCode()
	if err != nil {
		return err
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate user id failed: %w", err)
	}

	user := &domain.User{
		ID:                    userID,
		Email:                 input.Email,
		Name:                  input.Name,
		PasswordHash:          passwordHash,
		Verified:              false,
		VerificationCode:      nullString(code),
		VerificationExpiresAt: nullTime(expiresAt),
	}

	if err := s.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("create user failed: %w", err)
	}

	if err := s.emails.SendVerificationCode(user.Email, user.Name, code); err != nil {
		// The record is created; only the notification failed.
		return fmt.Errorf("%w: %s", ErrEmailDeliveryFailed, err)
	}

	return nil
}

func (s *userService) VerifyEmail(ctx context.Context, email, code string) error {
	if err := s.checkRateLimit(ctx, email); err != nil {
		return err
	}

	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user by email failed: %w", err)
	}

	if user.Verified {
		return ErrEmailAlreadyVerified
	}

	if !user.HasLiveCode(code, time.Now()) {
		if err := s.limiter.RecordFailedAttempt(ctx, email); err != nil {
			return err
		}
		return ErrInvalidOrExpiredCode
	}

	if err := s.userRepository.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark user verified failed: %w", err)
	}

	if err := s.limiter.ResetAttempts(ctx, email); err != nil {
		return err
	}

	s.enqueueWelcomeEmail(ctx, user.Email, user.Name)

	return nil
}

func (s *userService) ResendVerificationCode(ctx context.Context, email string) error {
	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("get user by email failed: %w", err)
	}

	if user.Verified {
		return ErrEmailAlreadyVerified
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

func (s *userService) Login(ctx context.Context, input LoginInput) (*Tokens, error) {
	user, err := s.userRepository.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by email failed: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, ErrUserNotVerified
	}

	return s.createSession(ctx, user.ID, input.UserAgent, input.UserIP)
}

func (s *userService) Refresh(ctx context.Context, refreshToken, userAgent, userIP string) (*Tokens, error) {
	token, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrSessionExpired
	}

	session, err := s.refreshSessionRepository.GetByToken(ctx, *token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("get refresh session failed: %w", err)
	}

	// Rotate: a refresh token is single-use.
	if err := s.refreshSessionRepository.DeleteByToken(ctx, *token); err != nil {
		return nil, fmt.Errorf("delete refresh session failed: %w", err)
	}

	if time.Now().After(session.ExpiresIn) {
		return nil, ErrSessionExpired
	}

	return s.createSession(ctx, session.UserID, userAgent, userIP)
}

// RequestPasswordRecovery issues a reset code. Unknown emails are treated
// as success to avoid account enumeration, and delivery failures for known
// emails are logged but masked for the same reason.
func (s *userService) RequestPasswordRecovery(ctx context.Context, email string) error {
	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user by email failed: %w", err)
	}

	code, expiresAt, err := s.issueCode()
	if err != nil {
		return err
	}

	if err := s.userRepository.SetVerificationCode(ctx, user.ID, code, expiresAt); err != nil {
		return fmt.Errorf("set verification code failed: %w", err)
	}

	if err := s.emails.SendVerificationCode(user.Email, user.Name, code); err != nil {
		logger.Error("recovery code delivery failed", zap.Error(err))
	}

	return nil
}

func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.checkRateLimit(ctx, email); err != nil {
		return err
	}

	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Same path as a bad code: no oracle for unknown emails.
			if err := s.limiter.RecordFailedAttempt(ctx, email); err != nil {
				return err
			}
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("get user by email failed: %w", err)
	}

	if !user.HasLiveCode(code, time.Now()) {
		if err := s.limiter.RecordFailedAttempt(ctx, email); err != nil {
			return err
		}
		return ErrInvalidOrExpiredCode
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	if err := s.userRepository.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("update password failed: %w", err)
	}

	return s.limiter.ResetAttempts(ctx, email)
}

func (s *userService) createSession(ctx context.Context, userID uuid.UUID, userAgent, userIP string) (*Tokens, error) {
	var (
		res Tokens
		err error
	)

	res.AccessToken, res.AccessTTL, err = s.tokenManager.NewJWT(&userID)
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}

	res.RefreshToken, res.RefreshTTL, err = s.tokenManager.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token failed: %w", err)
	}

	refreshSessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate refresh session id failed: %w", err)
	}
	refreshSession := &domain.RefreshSession{
		ID:           refreshSessionID,
		UserID:       userID,
		RefreshToken: res.RefreshToken,
		UserAgent:    userAgent,
		IP:           userIP,
		ExpiresIn:    time.Now().Add(res.RefreshTTL),
	}

	if err := s.refreshSessionRepository.Create(ctx, refreshSession); err != nil {
		return nil, fmt.Errorf("create refresh session failed: %w", err)
	}

	return &res, nil
}

func (s *userService) issueCode() (string, time.Time, error) {
	code, err := s.otpGenerator.RandomCode()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate verification code failed: %w", err)
	}

	return code, time.Now().Add(s.authConfig.VerificationCodeTTL), nil
}

func (s *userService) checkRateLimit(ctx context.Context, identity string) error {
	res, err := s.limiter.CheckAttempts(ctx, identity)
	if err != nil {
		return fmt.Errorf("rate limiter failed: %w", err)
	}
	if !res.Allowed {
		return &verification.RateLimitError{Message: res.Message}
	}
	return nil
}

func (s *userService) enqueueWelcomeEmail(ctx context.Context, email, name string) {
	queueClient := client.GetClient(ctx)
	if queueClient == nil {
		return
	}

	welcomeTask, err := task.NewWelcomeEmailTask(email, name)
	if err != nil {
		logger.Error("create welcome email task failed", zap.Error(err))
		return
	}

	if _, err := queueClient.Enqueue(welcomeTask); err != nil {
		logger.Error("enqueue welcome email failed", zap.Error(err))
	}
}
