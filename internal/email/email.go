// Package email renders the storefront's transactional messages and hands them
// to a mailer.Sender.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"github.com/epicdreams/storefront-backend/pkg/mailer"
)

const (
	brand              = "Epic Dreams Entertainment"
	PasswordResetTitle = "Reset Your Epic Dreams Admin Password"
	resetPath          = "/admin/reset-password"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Notifier sends the reset and contact emails.
type Notifier struct {
	sender       mailer.Sender
	appURL       string
	contactInbox string
}

type NotifierParams struct {
	Sender       mailer.Sender
	AppURL       string
	ContactInbox string
}

func NewNotifier(p NotifierParams) (*Notifier, error) {
	if p.Sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	return &Notifier{
		sender:       p.Sender,
		appURL:       strings.TrimRight(p.AppURL, "/"),
		contactInbox: strings.TrimSpace(p.ContactInbox),
	}, nil
}

// ResetURL builds the console link carrying the reset token.
func ResetURL(appURL, token string) string {
	return strings.TrimRight(appURL, "/") + resetPath + "?token=" + url.QueryEscape(token)
}

type resetView struct {
	Brand     string
	ResetURL  string
	ExpiresIn string
}

// SendPasswordReset mails the reset link for token to the admin.
func (n *Notifier) SendPasswordReset(ctx context.Context, to, token string, ttl time.Duration) error {
	body, err := render("password_reset.html", resetView{
		Brand:     brand,
		ResetURL:  ResetURL(n.appURL, token),
		ExpiresIn: HumanizeTTL(ttl),
	})
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, mailer.Message{
		To:      []string{to},
		Subject: PasswordResetTitle,
		HTML:    body,
	})
}

type contactView struct {
	TypeLabel  string
	Email      string
	Name       string
	Company    string
	Subject    string
	Message    string
	ReceivedAt string
}

// SendContactNotification forwards a contact submission to the inbox. It is a
// no-op when no inbox is configured.
func (n *Notifier) SendContactNotification(ctx context.Context, msg models.ContactMessage) error {
	if n.contactInbox == "" {
		return nil
	}
	label := ContactTypeLabel(msg.Type)
	received := msg.CreatedAt
	if received.IsZero() {
		received = time.Now()
	}
	body, err := render("contact_notification.html", contactView{
		TypeLabel:  label,
		Email:      msg.Email,
		Name:       msg.Name,
		Company:    msg.Company,
		Subject:    msg.Subject,
		Message:    msg.Message,
		ReceivedAt: received.UTC().Format(time.RFC1123),
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("[%s] %s", brand, label)
	if msg.Subject != "" {
		subject += ": " + msg.Subject
	}
	return n.sender.Send(ctx, mailer.Message{
		To:      []string{n.contactInbox},
		ReplyTo: msg.Email,
		Subject: subject,
		HTML:    body,
	})
}

func ContactTypeLabel(t models.ContactType) string {
	switch t {
	case models.ContactTypeEmailCapture:
		return "Email Signup"
	case models.ContactTypeCorporateInquiry:
		return "Corporate Inquiry"
	default:
		return "Contact Message"
	}
}

// HumanizeTTL renders whole hours as "1 hour"/"N hours" and anything else in minutes.
func HumanizeTTL(d time.Duration) string {
	if d <= 0 {
		d = time.Hour
	}
	if d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return plural(minutes, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
