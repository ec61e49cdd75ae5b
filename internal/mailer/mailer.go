package mailer

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"
)

// MailTransport performs the actual delivery of a rendered email.
type MailTransport interface {
	Send(from, to, subject, htmlBody string) error
}

const (
	TemplateNotification = "message-notification"
	TemplateConfirmation = "message-confirmation"

	timestampLayout = "January 02, 2006 15:04:05"
)

// EmailService renders the named HTML templates and hands the result to
// the mail transport. From and admin addresses are fixed configuration.
type EmailService struct {
	transport MailTransport
	fromAddr  string
	adminAddr string
	templates *template.Template
}

func NewEmailService(transport MailTransport, fromAddr, adminAddr string) (*EmailService, error) {
	tpls := template.New(TemplateNotification)
	if _, err := tpls.Parse(notificationTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse notification template: %w", err)
	}
	if _, err := tpls.New(TemplateConfirmation).Parse(confirmationTemplate); err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}
	return &EmailService{
		transport: transport,
		fromAddr:  fromAddr,
		adminAddr: adminAddr,
		templates: tpls,
	}, nil
}

// SendNotification tells the admin address about a new submission.
func (s *EmailService) SendNotification(name, email, body, fingerprint, messageID string) error {
	log.Printf("Sending notification email to admin for message from: %s", email)
	model := map[string]any{
		"senderName":     name,
		"senderEmail":    email,
		"messageContent": body,
		"fingerPrint":    fingerprint,
		"timestamp":      time.Now().Format(timestampLayout),
	}
	content, err := s.render(TemplateNotification, model)
	if err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	if err := s.transport.Send(s.fromAddr, s.adminAddr, "New Message Received - "+name, content); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	log.Printf("Notification email sent to: %s", s.adminAddr)
	return nil
}

// SendConfirmation acknowledges the submission to the sender's own address.
func (s *EmailService) SendConfirmation(name, email, messageID string) error {
	log.Printf("Sending confirmation email to sender: %s", email)
	model := map[string]any{
		"senderName":  name,
		"senderEmail": email,
		"messageId":   messageID,
		"timestamp":   time.Now().Format(timestampLayout),
	}
	content, err := s.render(TemplateConfirmation, model)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	if err := s.transport.Send(s.fromAddr, email, "Message Received Confirmation", content); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	log.Printf("Confirmation email sent to: %s", email)
	return nil
}

// SendBulk renders the template once and delivers it to each recipient,
// continuing past per-recipient transport failures.
func (s *EmailService) SendBulk(recipients []string, subject, templateName string, model map[string]any) error {
	log.Printf("Sending bulk emails to %d recipients", len(recipients))
	content, err := s.render(templateName, model)
	if err != nil {
		return fmt.Errorf("failed to send bulk emails: %w", err)
	}
	for _, recipient := range recipients {
		if err := s.transport.Send(s.fromAddr, recipient, subject, content); err != nil {
			log.Printf("Failed to send email to %s: %v", recipient, err)
			continue
		}
	}
	return nil
}

func (s *EmailService) render(name string, model map[string]any) (string, error) {
	var sb strings.Builder
	if err := s.templates.ExecuteTemplate(&sb, name, model); err != nil {
		return "", err
	}
	return sb.String(), nil
}
