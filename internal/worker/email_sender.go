package worker

import (
	"context"
	"fmt"

	"github.com/braz-finance/backend/internal/config"
	emailProvider "github.com/braz-finance/backend/pkg/email"
)

type welcomeEmailSender struct {
	sender emailProvider.Sender
	config config.EmailConfig
}

func newWelcomeEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
) *welcomeEmailSender {
	return &welcomeEmailSender{
		sender: sender,
		config: config,
	}
}

type welcomeEmailInput struct {
	Name string
}

func (s *welcomeEmailSender) SendWelcomeEmail(ctx context.Context, email string, name string) error {
	if !s.config.Enabled {
		return nil
	}

	subject := "Welcome aboard"

	templateInput := welcomeEmailInput{name}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	if err := sendInput.GenerateBodyFromHTML(s.config.Templates.Welcome, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
