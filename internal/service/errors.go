package service

import "errors"

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotVerified    = errors.New("email not verified")
	ErrSessionExpired     = errors.New("session expired")

	// ErrInvalidOrExpiredCode deliberately covers both a code mismatch and
	// an expired code, so callers cannot tell which check failed.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrEmailAlreadyVerified = errors.New("email already verified")
	ErrEmailInUse           = errors.New("email already in use")
	ErrWrongPassword        = errors.New("wrong password")
	ErrEmailDeliveryFailed  = errors.New("email delivery failed")

	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)
