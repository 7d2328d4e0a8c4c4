package email

import (
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/anshuman/hospital-api/internal/config"
)

// Service sends transactional mail over SMTP. When disabled in config, every
// send becomes a logged no-op so environments without an SMTP relay still
// work.
type Service struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	logger zerolog.Logger
}

func NewService(cfg config.SMTPConfig, logger zerolog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger.With().Str("component", "email").Logger(),
	}
}

// SendWelcome greets a newly registered hospital admin.
func (s *Service) SendWelcome(to, hospitalName, adminName string) error {
	subject := fmt.Sprintf("Welcome to the platform, %s", hospitalName)
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your hospital <b>%s</b> has been registered and a 30-day trial is active.</p>
		<p>Log in with your admin email to set up doctors, staff and patients.</p>
	`, adminName, hospitalName)
	return s.send(to, subject, body)
}

// SendPasswordReset notifies a user that an admin reset their password.
func (s *Service) SendPasswordReset(to, firstName string) error {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your password was reset by an administrator. Use the temporary
		password you were given and change it after your next login.</p>
	`, firstName)
	return s.send(to, "Your password was reset", body)
}

// SendSubscriptionExpiring warns a hospital admin ahead of expiry.
func (s *Service) SendSubscriptionExpiring(to, hospitalName string, daysLeft int) error {
	subject := fmt.Sprintf("Subscription for %s expires in %d days", hospitalName, daysLeft)
	body := fmt.Sprintf(`
		<p>The subscription for <b>%s</b> expires in %d days.</p>
		<p>Renew or upgrade from the billing page to avoid interruption.</p>
	`, hospitalName, daysLeft)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	if !s.cfg.Enabled {
		s.logger.Debug().Str("to", to).Str("subject", subject).Msg("email disabled, skipping send")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
