package settings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/epicdreams/storefront-backend/pkg/db/dbtest"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)
	return svc, repo
}

func TestShippingDefaultsWhenMissing(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.Shipping(context.Background())
	require.NoError(t, err)
	require.Equal(t, ShippingSettings{500, 1500, 2500}, got)
}

func TestShippingFillsPartialRow(t *testing.T) {
	svc, repo := newTestService(t)
	require.NoError(t, repo.Upsert(context.Background(), KeyShipping, types.JSONMap{"domestic_standard_cents": 700}))

	got, err := svc.Shipping(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(700), got.DomesticStandardCents)
	require.Equal(t, DefaultDomesticExpeditedCents, got.DomesticExpeditedCents)
}

func TestUpdateShippingInvalidatesCachedRates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	require.NoError(t, repo.InsertIfAbsent(ctx, ShippingCacheKey(RateUSStandard), types.JSONMap{"id": "shr_1"}))
	require.NoError(t, repo.InsertIfAbsent(ctx, ShippingCacheKey(RateIntlFlat), types.JSONMap{"id": "shr_2"}))
	require.NoError(t, repo.InsertIfAbsent(ctx, CouponCacheKey("DREAM10"), types.JSONMap{"id": "co_1"}))

	_, err := svc.UpdateShipping(ctx, ShippingSettings{600, 1600, 2600})
	require.NoError(t, err)

	for _, key := range []string{"shipping:us_standard", "shipping:intl_flat"} {
		row, err := repo.FindByKey(ctx, key)
		require.NoError(t, err)
		require.Nil(t, row, key)
	}
	coupon, err := repo.FindByKey(ctx, "coupon:DREAM10")
	require.NoError(t, err)
	require.NotNil(t, coupon)

	got, err := svc.Shipping(ctx)
	require.NoError(t, err)
	require.Equal(t, ShippingSettings{600, 1600, 2600}, got)
}

func TestUpdateShippingRejectsNegative(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UpdateShipping(context.Background(), ShippingSettings{DomesticStandardCents: -1})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestTaxParsesDecimalRate(t *testing.T) {
	svc, repo := newTestService(t)
	require.NoError(t, repo.Upsert(context.Background(), KeyTax, types.JSONMap{"enabled": false, "default_rate_percent": 8.5}))

	got, err := svc.Tax(context.Background())
	require.NoError(t, err)
	require.False(t, got.Enabled)
	require.True(t, got.DefaultRatePercent.Equal(decimal.RequireFromString("8.5")))
}

func TestGetRejectsUnknownKeys(t *testing.T) {
	svc, repo := newTestService(t)
	require.NoError(t, repo.InsertIfAbsent(context.Background(), "coupon:DREAM10", types.JSONMap{"id": "co"}))

	_, err := svc.Get(context.Background(), "coupon:DREAM10")
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, repo.Upsert(context.Background(), KeyAnalytics, types.JSONMap{"provider": "plausible"}))
	doc, err := svc.Get(context.Background(), KeyAnalytics)
	require.NoError(t, err)
	require.Equal(t, "plausible", doc["provider"])

	analytics, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	require.Equal(t, "plausible", analytics.Provider)
}
