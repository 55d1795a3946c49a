package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

const welcomeTemplate = `
<h2>Welcome to PixBooth, {{.FullName}}!</h2>
<p>Your operator account is ready. Create an event, print the QR code and
let your guests start capturing.</p>`

const passwordResetTemplate = `
<h2>Reset your password</h2>
<p>Use the token below within 15 minutes to set a new password.</p>
<p><code>{{.Token}}</code></p>
<p>If you didn't request this, you can ignore this email.</p>`

const expiryWarningTemplate = `
<h2>The gallery for "{{.EventTitle}}" expires soon</h2>
<p>All photos and the downloadable album will be permanently deleted on
{{.ExpiresAt}}. Download anything you want to keep before then.</p>`

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(apiKey, from, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

func (s *EmailService) SendWelcomeEmail(to, fullName string) error {
	html, err := render(welcomeTemplate, map[string]interface{}{"FullName": fullName})
	if err != nil {
		return err
	}
	return s.send(to, "Welcome to PixBooth!", html)
}

func (s *EmailService) SendPasswordResetEmail(to, token string) error {
	html, err := render(passwordResetTemplate, map[string]interface{}{"Token": token})
	if err != nil {
		return err
	}
	return s.send(to, "Reset your PixBooth password", html)
}

func (s *EmailService) SendGalleryExpiryWarning(to, eventTitle string, expiresAt time.Time) error {
	html, err := render(expiryWarningTemplate, map[string]interface{}{
		"EventTitle": eventTitle,
		"ExpiresAt":  expiresAt.Format("January 2, 2006"),
	})
	if err != nil {
		return err
	}
	return s.send(to, fmt.Sprintf("Gallery for %q expires soon", eventTitle), html)
}

func (s *EmailService) send(to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	if _, err := s.client.Emails.Send(params); err != nil {
		s.logger.Warn("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func render(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}
