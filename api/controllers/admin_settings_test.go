package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/epicdreams/storefront-backend/internal/settings"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

type stubSettingsService struct {
	shipping settings.ShippingSettings
	updated  *settings.ShippingSettings
}

func (s *stubSettingsService) Get(_ context.Context, key string) (types.JSONMap, error) {
	if key != settings.KeyTax {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	return types.JSONMap{"enabled": false}, nil
}

func (s *stubSettingsService) Shipping(context.Context) (settings.ShippingSettings, error) {
	return s.shipping, nil
}

func (s *stubSettingsService) UpdateShipping(_ context.Context, in settings.ShippingSettings) (settings.ShippingSettings, error) {
	s.updated = &in
	return in, nil
}

func TestAdminShippingSettingsRoundTrip(t *testing.T) {
	svc := &stubSettingsService{shipping: settings.ShippingSettings{DomesticStandardCents: 500, DomesticExpeditedCents: 1500, InternationalFlatCents: 2500}}

	resp := httptest.NewRecorder()
	AdminShippingSettings(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data settings.ShippingSettings `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DomesticStandardCents != 500 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}

	resp = httptest.NewRecorder()
	body := `{"domestic_standard_cents":600,"domestic_expedited_cents":1600,"international_flat_cents":2600}`
	AdminUpdateShippingSettings(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.updated == nil || svc.updated.InternationalFlatCents != 2600 {
		t.Fatalf("update not forwarded: %+v", svc.updated)
	}
}

func TestAdminUpdateShippingRejectsNegative(t *testing.T) {
	svc := &stubSettingsService{}
	resp := httptest.NewRecorder()
	AdminUpdateShippingSettings(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"domestic_standard_cents":-1}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.updated != nil {
		t.Fatalf("service should not be called")
	}
}

func TestAdminSettingByKey(t *testing.T) {
	svc := &stubSettingsService{}

	resp := httptest.NewRecorder()
	AdminSetting(svc, nil).ServeHTTP(resp, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "key", settings.KeyTax))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	AdminSetting(svc, nil).ServeHTTP(resp, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "key", "secrets"))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
