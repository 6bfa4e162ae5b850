package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/epicdreams/storefront-backend/internal/contact"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
)

type stubContactService struct {
	submitFn func(ctx context.Context, in contact.Submission) (*models.ContactMessage, error)
}

func (s stubContactService) Submit(ctx context.Context, in contact.Submission) (*models.ContactMessage, error) {
	return s.submitFn(ctx, in)
}

func TestContactCreated(t *testing.T) {
	svc := stubContactService{submitFn: func(_ context.Context, in contact.Submission) (*models.ContactMessage, error) {
		if in.Type != "email-capture" || in.Email != "fan@example.com" {
			t.Fatalf("unexpected submission %+v", in)
		}
		return &models.ContactMessage{ID: 5}, nil
	}}
	body := `{"type":"email-capture","email":"fan@example.com"}`
	resp := httptest.NewRecorder()
	Contact(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Success bool  `json:"success"`
			ID      int64 `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Success || envelope.Data.ID != 5 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestContactValidationDetails(t *testing.T) {
	svc := stubContactService{submitFn: func(context.Context, contact.Submission) (*models.ContactMessage, error) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact submission").WithDetails(map[string]string{"subject": "is required"})
	}}
	body := `{"type":"corporate_inquiry","email":"biz@example.com"}`
	resp := httptest.NewRecorder()
	Contact(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "subject") {
		t.Fatalf("expected field details, got %s", resp.Body.String())
	}
}

func TestContactRejectsUnknownFields(t *testing.T) {
	svc := stubContactService{submitFn: func(context.Context, contact.Submission) (*models.ContactMessage, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}
	body := `{"type":"general","email":"fan@example.com","message":"hi","admin":true}`
	resp := httptest.NewRecorder()
	Contact(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
