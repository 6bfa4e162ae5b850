// Package contact stores storefront contact submissions and forwards them to
// the team inbox.
package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
)

const minInquiryMessage = 20

var validate = validator.New()

// Submission is the public contact payload. Type accepts dashes or underscores.
type Submission struct {
	Type    string `json:"type" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Repository persists contact messages.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

type store interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}

type notifier interface {
	SendContactNotification(ctx context.Context, msg models.ContactMessage) error
}

type ServiceParams struct {
	Repo     store
	Notifier notifier
	Logger   *logger.Logger
}

type Service struct {
	repo     store
	notifier notifier
	logg     *logger.Logger
}

func NewService(p ServiceParams) (*Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("contact repository is required")
	}
	return &Service{repo: p.Repo, notifier: p.Notifier, logg: p.Logger}, nil
}

// Submit validates and stores the message, then notifies the inbox. A failed
// notification is logged and does not fail the submission.
func (s *Service) Submit(ctx context.Context, in Submission) (*models.ContactMessage, error) {
	msg, err := normalize(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store contact message")
	}

	if s.notifier != nil {
		if err := s.notifier.SendContactNotification(ctx, *msg); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "contact_id", msg.ID), "contact.notify.failed", err)
		}
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{"contact_id": msg.ID, "type": string(msg.Type)}), "contact.received")
	}
	return msg, nil
}

// ParseType maps "corporate-inquiry" and friends onto the stored enum.
func ParseType(raw string) (models.ContactType, bool) {
	t := models.ContactType(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	switch t {
	case models.ContactTypeEmailCapture, models.ContactTypeCorporateInquiry, models.ContactTypeGeneral:
		return t, true
	default:
		return "", false
	}
}

func normalize(in Submission) (*models.ContactMessage, error) {
	details := map[string]string{}

	kind, ok := ParseType(in.Type)
	if !ok {
		details["type"] = "must be email_capture, corporate_inquiry or general"
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		details["email"] = "is required"
	} else if err := validate.Var(email, "email"); err != nil {
		details["email"] = "must be a valid email"
	}

	msg := &models.ContactMessage{
		Type:    kind,
		Email:   strings.ToLower(email),
		Name:    strings.TrimSpace(in.Name),
		Company: strings.TrimSpace(in.Company),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}

	switch kind {
	case models.ContactTypeCorporateInquiry:
		if msg.Name == "" {
			details["name"] = "is required"
		}
		if msg.Subject == "" {
			details["subject"] = "is required"
		}
		if len([]rune(msg.Message)) < minInquiryMessage {
			details["message"] = "must be at least 20 characters"
		}
	case models.ContactTypeGeneral:
		if msg.Message == "" {
			details["message"] = "is required"
		}
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact submission").WithDetails(details)
	}
	return msg, nil
}
