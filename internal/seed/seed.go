// Package seed loads the demo catalog, content and default admin.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/config"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
	"github.com/epicdreams/storefront-backend/pkg/security"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Params struct {
	DB       *gorm.DB
	Tx       txRunner
	Admin    config.AdminConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
}

type Seeder struct {
	db       *gorm.DB
	tx       txRunner
	admin    config.AdminConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// Options controls a seed run.
type Options struct {
	Reset bool
}

// Report counts the rows written by a run.
type Report struct {
	Artists     int
	Releases    int
	Products    int
	Variants    int
	Collections int
	Discounts   int
	Posts       int
	Settings    int
	Admins      int
}

func (r Report) String() string {
	return fmt.Sprintf(
		"artists=%d releases=%d products=%d variants=%d collections=%d discounts=%d posts=%d settings=%d admins=%d",
		r.Artists, r.Releases, r.Products, r.Variants, r.Collections, r.Discounts, r.Posts, r.Settings, r.Admins,
	)
}

func NewSeeder(p Params) (*Seeder, error) {
	if p.DB == nil {
		return nil, fmt.Errorf("seed database is required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("seed transaction runner is required")
	}
	return &Seeder{
		db:       p.DB,
		tx:       p.Tx,
		admin:    p.Admin,
		password: p.Password,
		logg:     p.Logger,
		now:      time.Now,
	}, nil
}

// Run seeds the full dataset. With Reset set every table is emptied first,
// children before parents.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Reset {
		if err := s.reset(ctx); err != nil {
			return nil, err
		}
	}

	report := &Report{}
	now := s.now().UTC()

	artistIDs, err := s.seedArtists(ctx, report)
	if err != nil {
		return nil, err
	}
	if err := s.seedReleases(ctx, artistIDs, report); err != nil {
		return nil, err
	}
	if err := s.seedCatalog(ctx, artistIDs, report); err != nil {
		return nil, err
	}

	discountRows := discounts(now)
	if err := s.db.WithContext(ctx).Create(&discountRows).Error; err != nil {
		return nil, fmt.Errorf("seed discounts: %w", err)
	}
	report.Discounts = len(discountRows)

	postRows := posts(now)
	if err := s.db.WithContext(ctx).Create(&postRows).Error; err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}
	report.Posts = len(postRows)

	settingRows := settingRows()
	if err := s.db.WithContext(ctx).Create(&settingRows).Error; err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	report.Settings = len(settingRows)

	if err := s.seedAdmin(ctx); err != nil {
		return nil, err
	}
	report.Admins = 1

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "report", report.String()), "seed.completed")
	}
	return report, nil
}

func (s *Seeder) reset(ctx context.Context) error {
	all := models.All()
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for i := len(all) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
				return fmt.Errorf("reset %T: %w", all[i], err)
			}
		}
		return nil
	})
}

func (s *Seeder) seedArtists(ctx context.Context, report *Report) (map[string]int64, error) {
	rows := artists()
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("seed artists: %w", err)
	}
	ids := make(map[string]int64, len(rows))
	for _, a := range rows {
		ids[a.Slug] = a.ID
	}
	report.Artists = len(rows)
	return ids, nil
}

func (s *Seeder) seedReleases(ctx context.Context, artistIDs map[string]int64, report *Report) error {
	seeds := append(albums(), singles()...)
	rows := make([]models.Release, 0, len(seeds))
	for _, rs := range seeds {
		release := rs.release
		release.ArtistID = artistIDs[rs.artist]
		rows = append(rows, release)
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, 50).Error; err != nil {
		return fmt.Errorf("seed releases: %w", err)
	}
	report.Releases = len(rows)
	return nil
}

// seedCatalog writes products, collections and artist links in one
// transaction so a failed variant leaves no half-built catalog.
func (s *Seeder) seedCatalog(ctx context.Context, artistIDs map[string]int64, report *Report) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)

		productRows := products()
		for i := range productRows {
			if err := tx.Create(&productRows[i]).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", productRows[i].Slug, err)
			}
			report.Variants += len(productRows[i].Variants)
		}
		report.Products = len(productRows)

		collectionIDs := make(map[string]int64, len(collectionSeeds))
		for _, cs := range collectionSeeds {
			c := cs.collection
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("seed collection %s: %w", c.Slug, err)
			}
			collectionIDs[c.Slug] = c.ID
		}
		report.Collections = len(collectionSeeds)

		var memberships []models.CollectionProduct
		var links []models.ProductArtist
		for _, p := range productRows {
			for _, slug := range CollectionsFor(p) {
				memberships = append(memberships, models.CollectionProduct{CollectionID: collectionIDs[slug], ProductID: p.ID})
			}
			for _, artist := range ArtistsFor(p.Slug) {
				links = append(links, models.ProductArtist{ProductID: p.ID, ArtistID: artistIDs[artist]})
			}
		}
		if len(memberships) > 0 {
			if err := tx.Create(&memberships).Error; err != nil {
				return fmt.Errorf("seed collection products: %w", err)
			}
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("seed product artists: %w", err)
			}
		}
		return nil
	})
}

// CollectionsFor returns the collection slugs a product belongs to.
func CollectionsFor(p models.Product) []string {
	var out []string
	for _, cs := range collectionSeeds {
		if cs.keyword != "" && strings.Contains(p.Slug, cs.keyword) {
			out = append(out, cs.collection.Slug)
		}
	}
	for _, v := range p.Variants {
		if v.Signed || v.Attributes.Signed {
			out = append(out, signedCollection)
			break
		}
	}
	return out
}

// ArtistsFor maps a product onto the artists it is sold under.
func ArtistsFor(productSlug string) []string {
	switch {
	case strings.Contains(productSlug, "empty-chair-blues"):
		return []string{kellySlug}
	case strings.Contains(productSlug, "windows-to-heaven"):
		return []string{lloydSlug}
	default:
		return []string{kellySlug, lloydSlug}
	}
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(s.admin.DefaultEmail))
	if email == "" || s.admin.DefaultPassword == "" {
		return fmt.Errorf("default admin credentials are required")
	}
	hash, err := security.HashPassword(s.admin.DefaultPassword, s.password)
	if err != nil {
		return err
	}
	admin := models.AdminUser{
		Email:              email,
		PasswordHash:       hash,
		Role:               models.AdminRoleAdmin,
		MustChangePassword: true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// SpotifyEmbed merges the embed player URL into Lloyd Frazier's socials,
// keeping every other link.
func (s *Seeder) SpotifyEmbed(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		url = LloydSpotifyEmbed
	}
	var artist models.Artist
	err := s.db.WithContext(ctx).Where("slug = ?", lloydSlug).First(&artist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "artist lloyd-frazier not found")
		}
		return fmt.Errorf("load artist: %w", err)
	}

	socials := types.StringMap{}
	for k, v := range artist.Socials {
		socials[k] = v
	}
	socials["spotifyEmbed"] = url
	if err := s.db.WithContext(ctx).Model(&artist).Update("socials", socials).Error; err != nil {
		return fmt.Errorf("update socials: %w", err)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "artist", lloydSlug), "seed.spotify_embed.updated")
	}
	return nil
}
