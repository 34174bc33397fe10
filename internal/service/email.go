package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"localloop-backend/internal/logger"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(ctx context.Context, toEmail, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil)
	return nil
}

func (s *sendGridEmailService) SendRequestNotification(ctx context.Context, toEmail, borrowerName, itemTitle string) error {
	subject := fmt.Sprintf("New borrow request for %s", itemTitle)
	body := fmt.Sprintf("Hello,\n\n%s would like to borrow your item \"%s\". Log in to accept or decline the request.\n\nThe Local-Loop Team", borrowerName, itemTitle)
	return s.send(ctx, toEmail, subject, body)
}

func (s *sendGridEmailService) SendAcceptanceNotification(ctx context.Context, toEmail, itemTitle, lenderName string) error {
	subject := fmt.Sprintf("Your request for %s was accepted", itemTitle)
	body := fmt.Sprintf("Hello,\n\n%s accepted your request to borrow \"%s\". Complete the payment to arrange the pickup.\n\nThe Local-Loop Team", lenderName, itemTitle)
	return s.send(ctx, toEmail, subject, body)
}

func (s *sendGridEmailService) SendDeclineNotification(ctx context.Context, toEmail, itemTitle string) error {
	subject := fmt.Sprintf("Your request for %s was declined", itemTitle)
	body := fmt.Sprintf("Hello,\n\nYour request to borrow \"%s\" was declined by the owner.\n\nThe Local-Loop Team", itemTitle)
	return s.send(ctx, toEmail, subject, body)
}

func (s *sendGridEmailService) SendCompletionNotification(ctx context.Context, toEmail, itemTitle string, refundAmount float64) error {
	subject := fmt.Sprintf("Lending of %s completed", itemTitle)
	body := fmt.Sprintf("Hello,\n\nThe lending of \"%s\" is complete. A deposit amount of %.2f was refunded to the borrower.\n\nThe Local-Loop Team", itemTitle, refundAmount)
	return s.send(ctx, toEmail, subject, body)
}

func (s *sendGridEmailService) SendOverdueReminder(ctx context.Context, toEmail, itemTitle string, dueSince time.Time) error {
	subject := fmt.Sprintf("Return reminder for %s", itemTitle)
	body := fmt.Sprintf("Hello,\n\nThe item \"%s\" was due back on %s. Please arrange the return with the owner.\n\nThe Local-Loop Team", itemTitle, dueSince.Format("2006-01-02"))
	return s.send(ctx, toEmail, subject, body)
}
