// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/logger"
)

// Message is a single outbound email. Text is derived from HTML when empty.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender when a relay is configured and a logging sender otherwise.
func New(cfg config.SMTPConfig, logg *logger.Logger) Sender {
	if !cfg.Enabled() {
		return &LogSender{logg: logg, from: cfg.FromAddress()}
	}
	return &SMTPSender{cfg: cfg}
}

// SMTPSender sends through the configured relay using implicit TLS on port
// 465 and opportunistic STARTTLS elsewhere.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMessage(s.cfg.FromAddress(), msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(15 * time.Second),
	}
	if s.cfg.ImplicitTLS() {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

func buildMessage(from string, msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return nil, errors.New("subject is required")
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)

	text := msg.Text
	if text == "" {
		text = StripTags(msg.HTML)
	}
	m.SetBodyString(mail.TypeTextPlain, text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

// LogSender records messages instead of sending them; used when SMTP is not configured.
type LogSender struct {
	logg *logger.Logger
	from string
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("recipient is required")
	}
	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{
			"from":    l.from,
			"to":      strings.Join(msg.To, ","),
			"subject": msg.Subject,
		})
		l.logg.Info(ctx, "email.dev.logged")
	}
	return nil
}

var (
	blockTagRe = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/h[1-6]|/li|/tr)\s*/?>`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	blankRe    = regexp.MustCompile(`\n{3,}`)
	spaceRe    = regexp.MustCompile(`[ \t]+`)
)

// StripTags derives a plain-text body from rendered HTML.
func StripTags(src string) string {
	out := blockTagRe.ReplaceAllString(src, "\n")
	out = tagRe.ReplaceAllString(out, "")
	out = html.UnescapeString(out)
	out = spaceRe.ReplaceAllString(out, " ")
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	out = strings.Join(lines, "\n")
	out = blankRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
