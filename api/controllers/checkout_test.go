package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	checkoutsvc "github.com/epicdreams/storefront-backend/internal/checkout"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
)

type stubCheckoutService struct {
	createFn func(ctx context.Context, req checkoutsvc.Request) (*checkoutsvc.Session, error)
}

func (s stubCheckoutService) CreateSession(ctx context.Context, req checkoutsvc.Request) (*checkoutsvc.Session, error) {
	return s.createFn(ctx, req)
}

func TestCheckoutReturnsSessionURL(t *testing.T) {
	svc := stubCheckoutService{createFn: func(_ context.Context, req checkoutsvc.Request) (*checkoutsvc.Session, error) {
		if len(req.Items) != 1 || req.Items[0].VariantID != 7 || req.Items[0].Quantity != 2 || req.Discount != "DREAM10" {
			t.Fatalf("unexpected request %+v", req)
		}
		return &checkoutsvc.Session{URL: "https://checkout.stripe.com/c/pay/cs_test_1", ID: "cs_test_1"}, nil
	}}
	body := `{"items":[{"variantId":7,"quantity":2}],"discount":"DREAM10"}`
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkoutsvc.Session `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != "cs_test_1" || envelope.Data.URL == "" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestCheckoutIgnoresClientPriceAndDisplayFields(t *testing.T) {
	var got checkoutsvc.Request
	svc := stubCheckoutService{createFn: func(_ context.Context, req checkoutsvc.Request) (*checkoutsvc.Session, error) {
		got = req
		return &checkoutsvc.Session{URL: "https://checkout.stripe.com/c/pay/cs_test_2", ID: "cs_test_2"}, nil
	}}
	body := `{"items":[{"variantId":7,"quantity":2,"priceCents":1,"title":"Tee","image":"/tee.png","signed":true}]}`
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(got.Items) != 1 || got.Items[0] != (checkoutsvc.LineItem{VariantID: 7, Quantity: 2}) {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestCheckoutRejectsBadQuantity(t *testing.T) {
	svc := stubCheckoutService{createFn: func(context.Context, checkoutsvc.Request) (*checkoutsvc.Session, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}
	body := `{"items":[{"variantId":7,"quantity":0}]}`
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := stubCheckoutService{createFn: func(context.Context, checkoutsvc.Request) (*checkoutsvc.Session, error) {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}}
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[]}`)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeEmptyCart)) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCheckoutProviderFailure(t *testing.T) {
	svc := stubCheckoutService{createFn: func(context.Context, checkoutsvc.Request) (*checkoutsvc.Session, error) {
		return nil, pkgerrors.New(pkgerrors.CodePaymentProvider, "create checkout session")
	}}
	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"variantId":1,"quantity":1}]}`)))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
