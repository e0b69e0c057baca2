package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service sends operational mail. Sends are best-effort from the
// caller's point of view; failures are reported but never abort the
// surrounding operation.
type Service interface {
	SendInvite(ctx context.Context, to, name, accountName string) error
}

// Config holds SMTP settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

// NewService returns a gomail-backed sender, or a noop sender when no
// SMTP host is configured.
func NewService(cfg Config) Service {
	if cfg.Host == "" {
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendInvite(ctx context.Context, to, name, accountName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("You've been invited to manage %s", accountName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nAn administrator account has been created for you on %s. Sign in to accept the invitation.\n",
		name, accountName,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite email: %w", err)
	}
	return nil
}

type noopService struct{}

func (s *noopService) SendInvite(ctx context.Context, to, name, accountName string) error {
	return nil
}
