package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/epicdreams/storefront-backend/pkg/db"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
)

// PageSize is the fixed store grid page size.
const PageSize = 12

const relatedLimit = 4

// Store grid sort keys.
const (
	SortNewest      = "newest"
	SortPriceAsc    = "price-asc"
	SortPriceDesc   = "price-desc"
	SortBestSelling = "best-selling"
)

// StoreFilters are the store grid query parameters after normalization.
type StoreFilters struct {
	Category string
	Size     string
	Color    string
	Sort     string
	Page     int
}

// StorePage is one page of the store grid.
type StorePage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

// ProductDetail is a product with up to four related products.
type ProductDetail struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related"`
}

// Link is a named outbound link from an artist profile.
type Link struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// ArtistDetail is an artist with socials split for display.
type ArtistDetail struct {
	Artist       models.Artist `json:"artist"`
	MusicLinks   []Link        `json:"music_links"`
	SocialLinks  []Link        `json:"social_links"`
	SpotifyEmbed string        `json:"spotify_embed,omitempty"`
}

// ReleaseDetail is a release with its artist's merch.
type ReleaseDetail struct {
	Release models.Release   `json:"release"`
	Merch   []models.Product `json:"merch"`
}

// VariantInput is the admin payload for a new variant.
type VariantInput struct {
	Name       string          `json:"name" validate:"required"`
	SKU        string          `json:"sku" validate:"required"`
	PriceCents int64           `json:"price_cents" validate:"gte=0"`
	Inventory  int             `json:"inventory" validate:"gte=0"`
	Signed     bool            `json:"signed"`
	Attributes json.RawMessage `json:"attributes"`
}

// Service serves the public catalog and admin product views.
type Service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repo required")
	}
	return &Service{repo: repo, now: time.Now}, nil
}

// NormalizeFilters drops unknown values instead of failing.
func NormalizeFilters(category, size, color, sort string, page int) StoreFilters {
	f := StoreFilters{
		Category: strings.TrimSpace(category),
		Sort:     SortNewest,
		Page:     page,
	}
	if containsFold(models.ApparelSizes, size) {
		f.Size = canonical(models.ApparelSizes, size)
	}
	if containsFold(models.Colors, color) {
		f.Color = canonical(models.Colors, color)
	}
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case SortPriceAsc:
		f.Sort = SortPriceAsc
	case SortPriceDesc:
		f.Sort = SortPriceDesc
	case SortBestSelling:
		f.Sort = SortBestSelling
	}
	if f.Page < 1 {
		f.Page = 1
	}
	return f
}

func (s *Service) ListStore(ctx context.Context, f StoreFilters) (*StorePage, error) {
	f = NormalizeFilters(f.Category, f.Size, f.Color, f.Sort, f.Page)
	products, total, err := s.repo.ListStore(ctx, f, PageSize, (f.Page-1)*PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list store products")
	}
	if products == nil {
		products = []models.Product{}
	}
	return &StorePage{
		Products: products,
		Total:    total,
		Page:     f.Page,
		Pages:    int(math.Ceil(float64(total) / PageSize)),
	}, nil
}

func (s *Service) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	ids := make([]int64, 0, len(product.Collections))
	for _, c := range product.Collections {
		ids = append(ids, c.ID)
	}
	related, err := s.repo.RelatedProducts(ctx, product.ID, ids, relatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load related products")
	}
	if related == nil {
		related = []models.Product{}
	}
	return &ProductDetail{Product: *product, Related: related}, nil
}

func (s *Service) ListArtists(ctx context.Context) ([]models.Artist, error) {
	artists, err := s.repo.ListArtists(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list artists")
	}
	return artists, nil
}

func (s *Service) GetArtist(ctx context.Context, slug string) (*ArtistDetail, error) {
	artist, err := s.repo.FindArtistBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist")
	}
	if artist == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist not found")
	}
	music, social, embed := SplitSocials(artist.Socials)
	return &ArtistDetail{
		Artist:       *artist,
		MusicLinks:   music,
		SocialLinks:  social,
		SpotifyEmbed: embed,
	}, nil
}

func (s *Service) GetRelease(ctx context.Context, slug string) (*ReleaseDetail, error) {
	release, err := s.repo.FindReleaseBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load release")
	}
	if release == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "release not found")
	}
	merch, err := s.repo.ProductsForArtist(ctx, release.ArtistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load release merch")
	}
	if merch == nil {
		merch = []models.Product{}
	}
	return &ReleaseDetail{Release: *release, Merch: merch}, nil
}

func (s *Service) ListCollections(ctx context.Context) ([]models.Collection, error) {
	collections, err := s.repo.ListCollections(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list collections")
	}
	return collections, nil
}

func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.repo.ListPublishedPosts(ctx, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list posts")
	}
	return posts, nil
}

func (s *Service) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.repo.FindPublishedPost(ctx, strings.TrimSpace(slug), s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load post")
	}
	if post == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return post, nil
}

// ListProductSummaries backs the admin product table.
func (s *Service) ListProductSummaries(ctx context.Context) ([]ProductSummary, error) {
	rows, err := s.repo.ListProductSummaries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return rows, nil
}

// CreateVariant adds a variant to productID after strict attribute validation.
func (s *Service) CreateVariant(ctx context.Context, productID int64, in VariantInput) (*models.Variant, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	details := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(in.SKU) == "" {
		details["sku"] = "is required"
	}
	if in.PriceCents < 0 {
		details["price_cents"] = "must be non-negative"
	}
	if in.Inventory < 0 {
		details["inventory"] = "must be non-negative"
	}
	attrs, err := models.ParseVariantAttributes(in.Attributes)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			var attrErr *models.AttributeError
			if errors.As(e, &attrErr) {
				details["attributes."+attrErr.Key] = attrErr.Reason
				continue
			}
			details["attributes"] = e.Error()
		}
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variant").WithDetails(details)
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	variant := &models.Variant{
		ProductID:  productID,
		Name:       strings.TrimSpace(in.Name),
		SKU:        strings.TrimSpace(in.SKU),
		PriceCents: in.PriceCents,
		Inventory:  in.Inventory,
		Signed:     in.Signed || attrs.Signed,
		Attributes: attrs,
	}
	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create variant")
	}
	return variant, nil
}

func containsFold(values []string, v string) bool {
	return canonical(values, v) != ""
}

func canonical(values []string, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return candidate
		}
	}
	return ""
}
