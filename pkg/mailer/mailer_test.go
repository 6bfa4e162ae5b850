package mailer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/logger"
)

func TestStripTags(t *testing.T) {
	src := `<h1>Reset</h1><p>Click <a href="https://x">here</a> &amp; go.</p><br/><p>Bye</p>`
	got := StripTags(src)
	want := "Reset\nClick here & go.\n\nBye"
	if got != want {
		t.Fatalf("StripTags() = %q want %q", got, want)
	}
}

func TestNewSelectsSender(t *testing.T) {
	if _, ok := New(config.SMTPConfig{}, nil).(*LogSender); !ok {
		t.Fatal("expected log sender without smtp host")
	}
	if _, ok := New(config.SMTPConfig{Host: "smtp.example.com", Port: 465}, nil).(*SMTPSender); !ok {
		t.Fatal("expected smtp sender when host configured")
	}
}

func TestLogSenderLogsEnvelope(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	sender := &LogSender{logg: logg, from: "noreply@example.com"}

	err := sender.Send(context.Background(), Message{To: []string{"ops@example.com"}, Subject: "Hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(buf.String(), "ops@example.com") || !strings.Contains(buf.String(), "email.dev.logged") {
		t.Fatalf("expected envelope in logs, got %s", buf.String())
	}

	if err := sender.Send(context.Background(), Message{Subject: "x"}); err == nil {
		t.Fatal("expected missing recipient error")
	}
}

func TestBuildMessageValidates(t *testing.T) {
	if _, err := buildMessage("noreply@example.com", Message{To: []string{"a@example.com"}}); err == nil {
		t.Fatal("expected subject error")
	}
	if _, err := buildMessage("not an address", Message{To: []string{"a@example.com"}, Subject: "s"}); err == nil {
		t.Fatal("expected from address error")
	}
	if _, err := buildMessage("noreply@example.com", Message{To: []string{"a@example.com"}, Subject: "s", HTML: "<p>hi</p>"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSMTPClientOptions(t *testing.T) {
	implicit := (&SMTPSender{cfg: config.SMTPConfig{Host: "h", Port: 465, User: "u", Password: "p"}}).clientOptions()
	starttls := (&SMTPSender{cfg: config.SMTPConfig{Host: "h", Port: 587}}).clientOptions()
	if len(implicit) != 6 {
		t.Fatalf("expected port, timeout, ssl and auth options, got %d", len(implicit))
	}
	if len(starttls) != 3 {
		t.Fatalf("expected port, timeout and tls policy, got %d", len(starttls))
	}
}
