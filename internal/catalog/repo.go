package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/epicdreams/storefront-backend/pkg/db/models"
)

// Repository runs the catalog read queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func orderedVariants(db *gorm.DB) *gorm.DB {
	return db.Order("price_cents ASC, id ASC")
}

// ListStore returns one page of the store grid plus the total match count.
func (r *Repository) ListStore(ctx context.Context, f StoreFilters, limit, offset int) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM collection_products cp
			JOIN collections c ON c.id = cp.collection_id
			WHERE cp.product_id = products.id AND c.slug = ?)`, f.Category)
	}
	if f.Size != "" || f.Color != "" {
		var clauses []string
		var args []any
		if f.Size != "" {
			clauses = append(clauses, "v.attr_size = ?")
			args = append(args, f.Size)
		}
		if f.Color != "" {
			clauses = append(clauses, "v.attr_color = ?")
			args = append(args, f.Color)
		}
		q = q.Where("EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = products.id AND "+strings.Join(clauses, " AND ")+")", args...)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case SortPriceAsc:
		q = q.Order("(SELECT MIN(v.price_cents) FROM product_variants v WHERE v.product_id = products.id) ASC")
	case SortPriceDesc:
		q = q.Order("(SELECT MAX(v.price_cents) FROM product_variants v WHERE v.product_id = products.id) DESC")
	case SortBestSelling:
		q = q.Order("products.featured DESC").Order("products.created_at DESC")
	default:
		q = q.Order("products.created_at DESC")
	}

	var products []models.Product
	err := q.Order("products.id DESC").
		Preload("Images", orderedImages).
		Preload("Variants", orderedVariants).
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindProductBySlug returns nil when the slug is unknown.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Preload("Variants", orderedVariants).
		Preload("Collections").
		Where("slug = ?", slug).
		Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// RelatedProducts returns up to limit products sharing a collection with
// productID, excluding productID itself.
func (r *Repository) RelatedProducts(ctx context.Context, productID int64, collectionIDs []int64, limit int) ([]models.Product, error) {
	if len(collectionIDs) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Preload("Variants", orderedVariants).
		Where("products.id <> ?", productID).
		Where("EXISTS (SELECT 1 FROM collection_products cp WHERE cp.product_id = products.id AND cp.collection_id IN ?)", collectionIDs).
		Order("products.created_at DESC").
		Order("products.id DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *Repository) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	err := r.db.WithContext(ctx).Order("name ASC").Find(&artists).Error
	return artists, err
}

// FindArtistBySlug loads releases newest first and the artist's merch.
func (r *Repository) FindArtistBySlug(ctx context.Context, slug string) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).
		Preload("Releases", func(db *gorm.DB) *gorm.DB { return db.Order("release_date DESC, id DESC") }).
		Preload("Products.Images", orderedImages).
		Preload("Products.Variants", orderedVariants).
		Where("slug = ?", slug).
		Take(&artist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *Repository) FindReleaseBySlug(ctx context.Context, slug string) (*models.Release, error) {
	var release models.Release
	err := r.db.WithContext(ctx).
		Preload("Artist").
		Where("slug = ?", slug).
		Take(&release).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &release, nil
}

// ProductsForArtist returns the merch linked to artistID.
func (r *Repository) ProductsForArtist(ctx context.Context, artistID int64) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Preload("Variants", orderedVariants).
		Where("EXISTS (SELECT 1 FROM product_artists pa WHERE pa.product_id = products.id AND pa.artist_id = ?)", artistID).
		Order("products.created_at DESC").
		Order("products.id DESC").
		Find(&products).Error
	return products, err
}

func (r *Repository) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.WithContext(ctx).Order("title ASC").Find(&collections).Error
	return collections, err
}

// ListPublishedPosts returns posts published at or before now, newest first.
func (r *Repository) ListPublishedPosts(ctx context.Context, now time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at <= ?", now).
		Order("published_at DESC").
		Order("id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *Repository) FindPublishedPost(ctx context.Context, slug string, now time.Time) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Where("slug = ? AND published_at IS NOT NULL AND published_at <= ?", slug, now).
		Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ProductSummary is a row of the admin product list.
type ProductSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Featured     bool      `json:"featured"`
	VariantCount int64     `json:"variant_count"`
	Inventory    int64     `json:"inventory"`
	Signed       bool      `json:"signed"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type productSummaryRow struct {
	ID           int64
	Title        string
	Slug         string
	Featured     bool
	VariantCount int64
	Inventory    int64
	SignedCount  int64
	UpdatedAt    time.Time
}

// ListProductSummaries aggregates variant counts per product, most recently
// updated first.
func (r *Repository) ListProductSummaries(ctx context.Context) ([]ProductSummary, error) {
	var rows []productSummaryRow
	err := r.db.WithContext(ctx).
		Table("products AS p").
		Select(`p.id, p.title, p.slug, p.featured, p.updated_at,
			COUNT(v.id) AS variant_count,
			COALESCE(SUM(v.inventory), 0) AS inventory,
			COALESCE(SUM(CASE WHEN v.signed THEN 1 ELSE 0 END), 0) AS signed_count`).
		Joins("LEFT JOIN product_variants v ON v.product_id = p.id").
		Group("p.id, p.title, p.slug, p.featured, p.updated_at").
		Order("p.updated_at DESC").
		Order("p.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]ProductSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProductSummary{
			ID:           row.ID,
			Title:        row.Title,
			Slug:         row.Slug,
			Featured:     row.Featured,
			VariantCount: row.VariantCount,
			Inventory:    row.Inventory,
			Signed:       row.SignedCount > 0,
			UpdatedAt:    row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *Repository) ProductExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateVariant(ctx context.Context, variant *models.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}
