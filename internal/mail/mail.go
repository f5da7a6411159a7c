// Package mail is the outbound email transport. Delivery is best-effort:
// callers commit state first and treat a send failure as a warning, never as
// a reason to roll back.
package mail

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"clubconnect/internal/config"
	"clubconnect/lib/sl"
)

type Sender struct {
	dialer *gomail.Dialer
	from   string
	log    *slog.Logger
}

func NewSender(conf *config.Config, logger *slog.Logger) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(conf.Smtp.Host, conf.Smtp.Port, conf.Smtp.User, conf.Smtp.Password),
		from:   conf.Smtp.From,
		log:    logger.With(sl.Module("mail")),
	}
}

func (s *Sender) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	s.log.With(
		slog.Int("recipients", len(to)),
		slog.String("subject", subject),
	).Debug("mail sent")
	return nil
}
