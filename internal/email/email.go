package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/aarogyahq/booking-api/internal/model"
)

// Sender delivers transactional mail. Delivery is best-effort; callers log
// failures and never roll back the write that triggered the mail.
type Sender interface {
	SendBookingConfirmation(to, patientName, doctorName string, token *model.Token) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg Config) Sender {
	return &smtpSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *smtpSender) SendBookingConfirmation(to, patientName, doctorName string, token *model.Token) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Appointment confirmed for %s", token.TokenDate))
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour appointment with Dr. %s on %s is confirmed.\nYour queue number is %d.\n\nPlease arrive before your number is called.\n",
		patientName, doctorName, token.TokenDate, token.QueueNum,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

type noopSender struct{}

// NewNoopSender is used when mail is disabled in config.
func NewNoopSender() Sender {
	return noopSender{}
}

func (noopSender) SendBookingConfirmation(string, string, string, *model.Token) error {
	return nil
}
