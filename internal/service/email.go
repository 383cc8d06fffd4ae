package service

import (
	"fmt"

	"github.com/braz-finance/backend/internal/config"
	emailProvider "github.com/braz-finance/backend/pkg/email"
)

type emailService struct {
	sender  emailProvider.Sender
	config  config.EmailConfig
	enabled bool
}

func newEmailService(sender emailProvider.Sender, config config.EmailConfig) *emailService {
	return &emailService{
		enabled: config.Enabled,
		sender:  sender,
		config:  config,
	}
}

type verificationCodeEmailInput struct {
	Name             string
	VerificationCode string
}

// SendVerificationCode delivers a one-time code. The returned error is a
// delivery failure, not a validation failure; callers surface it as such.
func (s *emailService) SendVerificationCode(to, name, code string) error {
	if !s.enabled {
		return nil
	}

	subject := "Your verification code"

	templateInput := verificationCodeEmailInput{Name: name, VerificationCode: code}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: to}

	if err := sendInput.GenerateBodyFromHTML(s.config.Templates.VerificationCode, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
