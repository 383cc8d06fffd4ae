package worker

import (
	"context"

	"github.com/braz-finance/backend/internal/config"
	emailProvider "github.com/braz-finance/backend/pkg/email"
)

type Workers struct {
	WelcomeEmailSender WelcomeEmailSender
}

type Deps struct {
	EmailProvider emailProvider.Sender
	Config        *config.Config
}

type WelcomeEmailSender interface {
	SendWelcomeEmail(ctx context.Context, email string, name string) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		WelcomeEmailSender: newWelcomeEmailSender(deps.EmailProvider, deps.Config.Email),
	}
}
