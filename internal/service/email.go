package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"unilib-backend/internal/config"
	"unilib-backend/internal/logger"
)

type emailService struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.From),
	}
}

func (s *emailService) SendRenewDecision(ctx context.Context, email, username string, approved bool, dueDate time.Time) error {
	subject := "Your renewal request was rejected"
	body := fmt.Sprintf("Hi %s,\n\nYour renewal request was rejected. The book is still due on %s.\n",
		username, dueDate.Format("January 2, 2006"))
	if approved {
		subject = "Your renewal request was approved"
		body = fmt.Sprintf("Hi %s,\n\nYour renewal request was approved. The new due date is %s.\n",
			username, dueDate.Format("January 2, 2006"))
	}
	return s.send(ctx, email, username, subject, body)
}

func (s *emailService) SendDueReminder(ctx context.Context, email, username, bookName string, dueDate time.Time) error {
	subject := "A borrowed book is due soon"
	body := fmt.Sprintf("Hi %s,\n\n%q is due on %s. Return or renew it before then to avoid an overdue mark.\n",
		username, bookName, dueDate.Format("January 2, 2006"))
	return s.send(ctx, email, username, subject, body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, username, bookName string, dueDate time.Time) error {
	subject := "A borrowed book is overdue"
	body := fmt.Sprintf("Hi %s,\n\n%q was due on %s and is now overdue. Please return it as soon as possible.\n",
		username, bookName, dueDate.Format("January 2, 2006"))
	return s.send(ctx, email, username, subject, body)
}

func (s *emailService) send(ctx context.Context, email, username, subject, body string) error {
	to := mail.NewEmail(username, email)
	message := mail.NewSingleEmail(s.from, subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	logger.Debug("Email sent", "to", email, "subject", subject)
	return nil
}
