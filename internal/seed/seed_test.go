package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/db/dbtest"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"github.com/epicdreams/storefront-backend/pkg/security"
)

func newSeeder(t *testing.T) (*Seeder, *gorm.DB) {
	t.Helper()
	client := dbtest.Client(t)
	s, err := NewSeeder(Params{
		DB: client.DB(),
		Tx: client,
		Admin: config.AdminConfig{
			DefaultEmail:    "Admin@EpicDreamsEnt.com",
			DefaultPassword: "ChangeMe123!",
		},
		Password: config.PasswordConfig{BcryptCost: 4},
	})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, client.DB()
}

func count(t *testing.T, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(model).Count(&n).Error)
	return n
}

func TestRunSeedsEverything(t *testing.T) {
	s, h := newSeeder(t)
	ctx := context.Background()

	report, err := s.Run(ctx, Options{Reset: true})
	require.NoError(t, err)
	require.Equal(t, 2, report.Artists)
	require.Equal(t, 2+len(lloydSingles), report.Releases)
	require.Equal(t, 5, report.Products)
	require.Equal(t, 11, report.Variants)
	require.Equal(t, 6, report.Collections)
	require.Equal(t, 2, report.Discounts)
	require.Equal(t, 2, report.Posts)
	require.Equal(t, 4, report.Settings)
	require.Equal(t, 1, report.Admins)

	require.EqualValues(t, 11, count(t, h, &models.Variant{}))

	var signed models.Variant
	require.NoError(t, h.First(&signed, "sku = ?", "POST-EMPTY-SIGNED").Error)
	require.True(t, signed.Signed)
	require.Equal(t, "18x24", signed.Attributes.Size)

	var admin models.AdminUser
	require.NoError(t, h.First(&admin).Error)
	require.Equal(t, "admin@epicdreamsent.com", admin.Email)
	require.True(t, admin.MustChangePassword)
	ok, err := security.VerifyPassword("ChangeMe123!", admin.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)

	var dream models.Discount
	require.NoError(t, h.First(&dream, "code = ?", "DREAM10").Error)
	require.NotNil(t, dream.UsageLimit)
	require.Equal(t, 500, *dream.UsageLimit)
}

func TestRunResetIsRepeatable(t *testing.T) {
	s, h := newSeeder(t)
	ctx := context.Background()

	_, err := s.Run(ctx, Options{Reset: true})
	require.NoError(t, err)
	_, err = s.Run(ctx, Options{Reset: true})
	require.NoError(t, err)

	require.EqualValues(t, 5, count(t, h, &models.Product{}))
	require.EqualValues(t, 1, count(t, h, &models.AdminUser{}))
}

func TestRunWithoutResetConflicts(t *testing.T) {
	s, _ := newSeeder(t)
	ctx := context.Background()

	_, err := s.Run(ctx, Options{Reset: true})
	require.NoError(t, err)
	_, err = s.Run(ctx, Options{})
	require.Error(t, err)
}

func TestCatalogMemberships(t *testing.T) {
	s, h := newSeeder(t)
	_, err := s.Run(context.Background(), Options{Reset: true})
	require.NoError(t, err)

	var signed models.Collection
	require.NoError(t, h.Preload("Products").First(&signed, "slug = ?", "signed").Error)
	slugs := make([]string, 0, len(signed.Products))
	for _, p := range signed.Products {
		slugs = append(slugs, p.Slug)
	}
	require.ElementsMatch(t, []string{"epic-dreams-signature-tee", "midnight-pulse-hoodie", "empty-chair-blues-poster"}, slugs)

	var poster models.Product
	require.NoError(t, h.Preload("Artists").First(&poster, "slug = ?", "empty-chair-blues-poster").Error)
	require.Len(t, poster.Artists, 1)
	require.Equal(t, kellySlug, poster.Artists[0].Slug)

	var hat models.Product
	require.NoError(t, h.Preload("Artists").First(&hat, "slug = ?", "neon-crest-snapback").Error)
	require.Len(t, hat.Artists, 2)
}

func TestCollectionsFor(t *testing.T) {
	p := models.Product{
		Slug:     "midnight-pulse-hoodie",
		Variants: []models.Variant{{Signed: false}, {Signed: true}},
	}
	require.Equal(t, []string{"hoodies", "signed"}, CollectionsFor(p))
	require.Equal(t, []string{"stickers"}, CollectionsFor(models.Product{Slug: "dream-glyph-sticker-pack"}))
}

func TestArtistsFor(t *testing.T) {
	require.Equal(t, []string{kellySlug}, ArtistsFor("empty-chair-blues-poster"))
	require.Equal(t, []string{lloydSlug}, ArtistsFor("windows-to-heaven-vinyl"))
	require.Equal(t, []string{kellySlug, lloydSlug}, ArtistsFor("neon-crest-snapback"))
}

func TestSpotifyEmbedMergesSocials(t *testing.T) {
	s, h := newSeeder(t)
	ctx := context.Background()

	err := s.SpotifyEmbed(ctx, "")
	require.Error(t, err, "artist must exist")

	_, err = s.Run(ctx, Options{Reset: true})
	require.NoError(t, err)
	require.NoError(t, s.SpotifyEmbed(ctx, ""))

	var lloyd models.Artist
	require.NoError(t, h.First(&lloyd, "slug = ?", lloydSlug).Error)
	require.Equal(t, LloydSpotifyEmbed, lloyd.Socials["spotifyEmbed"])
	require.NotEmpty(t, lloyd.Socials["youtube"])
}
