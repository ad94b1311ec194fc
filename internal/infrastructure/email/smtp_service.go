package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
)

// BookAcceptedData is the payload for the creator notification sent when a
// submission passes moderation.
type BookAcceptedData struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	BookTitle string `json:"book_title"`
}

type Service interface {
	SendBookAcceptedEmail(ctx context.Context, data BookAcceptedData) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	cfg SMTPConfig
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{cfg: cfg}
}

func (s *smtpService) SendBookAcceptedEmail(ctx context.Context, data BookAcceptedData) error {
	subject := fmt.Sprintf("Your submission %q was accepted", data.BookTitle)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nGood news: %q passed moderation and is now visible in the catalog.\r\n\r\nThe ReadingHub team\r\n",
		data.Name, data.BookTitle,
	)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.From, data.Email, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var a smtp.Auth
	if s.cfg.Username != "" {
		a = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, a, s.cfg.From, []string{data.Email}, msg); err != nil {
		return fmt.Errorf("send accepted email: %w", err)
	}

	log.Info().Str("email", data.Email).Str("title", data.BookTitle).Msg("Accepted email sent")
	return nil
}
