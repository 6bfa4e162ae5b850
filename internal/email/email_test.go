package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"github.com/epicdreams/storefront-backend/pkg/mailer"
)

type captureSender struct {
	msgs []mailer.Message
	err  error
}

func (c *captureSender) Send(_ context.Context, msg mailer.Message) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func TestSendPasswordResetRendersLink(t *testing.T) {
	sender := &captureSender{}
	n, err := NewNotifier(NotifierParams{Sender: sender, AppURL: "https://shop.example.com/"})
	if err != nil {
		t.Fatalf("new notifier: %v", err)
	}

	if err := n.SendPasswordReset(context.Background(), "admin@example.com", "abc123", time.Hour); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sender.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.msgs))
	}
	msg := sender.msgs[0]
	if msg.Subject != "Reset Your Epic Dreams Admin Password" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if len(msg.To) != 1 || msg.To[0] != "admin@example.com" {
		t.Fatalf("unexpected recipients %v", msg.To)
	}
	if !strings.Contains(msg.HTML, "https://shop.example.com/admin/reset-password?token=abc123") {
		t.Fatalf("reset link missing from body: %s", msg.HTML)
	}
	if !strings.Contains(msg.HTML, "This link will expire in 1 hour") {
		t.Fatal("expected expiry notice")
	}
}

func TestSendPasswordResetPropagatesSenderError(t *testing.T) {
	sender := &captureSender{err: errors.New("relay down")}
	n, _ := NewNotifier(NotifierParams{Sender: sender, AppURL: "http://localhost:3000"})

	if err := n.SendPasswordReset(context.Background(), "a@b.co", "t", time.Hour); err == nil {
		t.Fatal("expected sender error")
	}
}

func TestContactNotificationEscapesInput(t *testing.T) {
	sender := &captureSender{}
	n, _ := NewNotifier(NotifierParams{Sender: sender, ContactInbox: "inbox@example.com"})

	err := n.SendContactNotification(context.Background(), models.ContactMessage{
		Type:    models.ContactTypeCorporateInquiry,
		Name:    "Dana",
		Email:   "dana@example.com",
		Subject: "Licensing",
		Message: "<script>alert(1)</script> we would like to talk",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	msg := sender.msgs[0]
	if msg.To[0] != "inbox@example.com" || msg.ReplyTo != "dana@example.com" {
		t.Fatalf("unexpected routing %+v", msg)
	}
	if msg.Subject != "[Epic Dreams Entertainment] Corporate Inquiry: Licensing" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Fatal("expected message body to be escaped")
	}
}

func TestContactNotificationWithoutInboxIsNoop(t *testing.T) {
	sender := &captureSender{}
	n, _ := NewNotifier(NotifierParams{Sender: sender})

	if err := n.SendContactNotification(context.Background(), models.ContactMessage{Email: "x@y.z"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.msgs) != 0 {
		t.Fatal("expected no message without inbox")
	}
}

func TestHumanizeTTL(t *testing.T) {
	cases := map[time.Duration]string{
		time.Hour:        "1 hour",
		2 * time.Hour:    "2 hours",
		30 * time.Minute: "30 minutes",
		0:                "1 hour",
	}
	for in, want := range cases {
		if got := HumanizeTTL(in); got != want {
			t.Fatalf("HumanizeTTL(%v) = %q, want %q", in, got, want)
		}
	}
}
