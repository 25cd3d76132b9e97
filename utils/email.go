package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"

	"github.com/LorenaGrigorcea/mern-bookstore-backend/models"
)

// EmailService handles sending emails using Postmark.
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes an EmailService from the environment.
// It returns nil when POSTMARK_API_TOKEN is unset, in which case email
// sending is disabled.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		return nil
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a basic email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation to the customer.
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been confirmed.<br><br>Total Amount: <strong>%.2f RON</strong><br><br>Thank you for shopping with us!",
		order.ID,
		order.Total,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
