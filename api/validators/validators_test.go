package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","password":"short"}`))
	var body loginBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	require.Equal(t, "must be a valid email", details["email"])
	require.Equal(t, "must be at least 8", details["password"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"longenough","role":"owner"}`))
	var body loginBody
	err := DecodeJSONBody(req, &body)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc", nil)
	page, err := ParseQueryInt(req, "page", 1, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 3, page)

	_, err = ParseQueryInt(req, "limit", 25, 1, 100)
	require.Error(t, err)

	def, err := ParseQueryInt(req, "missing", 7, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 7, def)
}

func TestParsePathInt64(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "42")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	id, err := ParsePathInt64(req, "id")
	require.NoError(t, err)
	require.EqualValues(t, 42, id)

	_, err = ParsePathInt64(req, "other")
	require.Error(t, err)
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	require.Equal(t, "tees", SanitizeString(" tees ", 0))
	require.Equal(t, "Café", SanitizeString("Café déjà vu", 4))
	require.Equal(t, "ab", SanitizeString("a\x00b", 10))
}

type cartBody struct {
	Items []struct {
		VariantID int64 `json:"variantId"`
		Quantity  int64 `json:"quantity" validate:"required,gte=1"`
	} `json:"items" validate:"required,dive"`
}

func TestDecodeLenientJSONBodyDropsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"variantId":7,"quantity":2,"priceCents":1,"title":"Tee"}]}`))
	var body cartBody
	require.NoError(t, DecodeLenientJSONBody(req, &body))
	require.Len(t, body.Items, 1)
	require.EqualValues(t, 7, body.Items[0].VariantID)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"variantId":7,"quantity":0}]}`))
	err := DecodeLenientJSONBody(req, &body)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
