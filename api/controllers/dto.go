package controllers

import (
	"time"

	"github.com/epicdreams/storefront-backend/internal/catalog"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	"github.com/epicdreams/storefront-backend/pkg/types"
)

type imageResponse struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	SortOrder int    `json:"sort_order"`
}

type variantResponse struct {
	ID         int64                    `json:"id"`
	ProductID  int64                    `json:"product_id"`
	Name       string                   `json:"name"`
	SKU        string                   `json:"sku"`
	PriceCents int64                    `json:"price_cents"`
	Inventory  int                      `json:"inventory"`
	Signed     bool                     `json:"signed"`
	Attributes models.VariantAttributes `json:"attributes"`
}

type collectionResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type artistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type productResponse struct {
	ID             int64                `json:"id"`
	Title          string               `json:"title"`
	Slug           string               `json:"slug"`
	Description    string               `json:"description"`
	Featured       bool                 `json:"featured"`
	PriceFromCents int64                `json:"price_from_cents"`
	Images         []imageResponse      `json:"images"`
	Variants       []variantResponse    `json:"variants"`
	Collections    []collectionResponse `json:"collections,omitempty"`
	Artists        []artistRef          `json:"artists,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type artistResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	Bio       string            `json:"bio"`
	HeroImage string            `json:"hero_image,omitempty"`
	Socials   map[string]string `json:"socials"`
}

type releaseResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	ReleaseDate time.Time         `json:"release_date"`
	CoverImage  string            `json:"cover_image,omitempty"`
	Tracks      []types.Track     `json:"tracks"`
	Links       map[string]string `json:"links"`
	Artist      *artistRef        `json:"artist,omitempty"`
}

type postResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content,omitempty"`
	HeroImage   string     `json:"hero_image,omitempty"`
	PublishedAt *time.Time `json:"published_at"`
}

type orderItemResponse struct {
	ID         int64  `json:"id"`
	VariantID  *int64 `json:"variant_id"`
	Title      string `json:"title"`
	SKU        string `json:"sku"`
	Quantity   int64  `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	StripeSessionID string              `json:"stripe_session_id"`
	Email           string              `json:"email"`
	Status          string              `json:"status"`
	SubtotalCents   int64               `json:"subtotal_cents"`
	DiscountCents   int64               `json:"discount_cents"`
	ShippingCents   int64               `json:"shipping_cents"`
	TaxCents        int64               `json:"tax_cents"`
	TotalCents      int64               `json:"total_cents"`
	Currency        string              `json:"currency"`
	ShippingName    string              `json:"shipping_name,omitempty"`
	ShippingAddress *types.Address      `json:"shipping_address,omitempty"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

type discountResponse struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Type       string     `json:"type"`
	Value      int64      `json:"value"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	UsageLimit *int       `json:"usage_limit"`
	UsageCount int        `json:"usage_count"`
	CreatedAt  time.Time  `json:"created_at"`
}

func newVariantResponse(v models.Variant) variantResponse {
	return variantResponse{
		ID:         v.ID,
		ProductID:  v.ProductID,
		Name:       v.Name,
		SKU:        v.SKU,
		PriceCents: v.PriceCents,
		Inventory:  v.Inventory,
		Signed:     v.Signed,
		Attributes: v.Attributes,
	}
}

func newProductResponse(p models.Product) productResponse {
	out := productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Featured:    p.Featured,
		Images:      make([]imageResponse, 0, len(p.Images)),
		Variants:    make([]variantResponse, 0, len(p.Variants)),
		CreatedAt:   p.CreatedAt,
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, imageResponse{URL: img.URL, Alt: img.Alt, SortOrder: img.SortOrder})
	}
	for i, v := range p.Variants {
		out.Variants = append(out.Variants, newVariantResponse(v))
		if i == 0 || v.PriceCents < out.PriceFromCents {
			out.PriceFromCents = v.PriceCents
		}
	}
	for _, c := range p.Collections {
		out.Collections = append(out.Collections, newCollectionResponse(c))
	}
	for _, a := range p.Artists {
		out.Artists = append(out.Artists, artistRef{ID: a.ID, Name: a.Name, Slug: a.Slug})
	}
	return out
}

func newProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	return out
}

func newCollectionResponse(c models.Collection) collectionResponse {
	return collectionResponse{ID: c.ID, Title: c.Title, Slug: c.Slug}
}

// newArtistResponse keeps the embed URL out of the socials map; it is served
// separately on the detail view.
func newArtistResponse(a models.Artist) artistResponse {
	socials := make(map[string]string, len(a.Socials))
	for k, v := range a.Socials {
		if catalog.IsSpotifyEmbed(k) {
			continue
		}
		socials[k] = v
	}
	return artistResponse{
		ID:        a.ID,
		Name:      a.Name,
		Slug:      a.Slug,
		Bio:       a.Bio,
		HeroImage: a.HeroImage,
		Socials:   socials,
	}
}

func newReleaseResponse(r models.Release) releaseResponse {
	out := releaseResponse{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		ReleaseDate: r.ReleaseDate,
		CoverImage:  r.CoverImage,
		Tracks:      []types.Track(r.Tracks),
		Links:       map[string]string(r.Links),
	}
	if out.Tracks == nil {
		out.Tracks = []types.Track{}
	}
	if out.Links == nil {
		out.Links = map[string]string{}
	}
	if r.Artist != nil {
		out.Artist = &artistRef{ID: r.Artist.ID, Name: r.Artist.Name, Slug: r.Artist.Slug}
	}
	return out
}

func newPostResponse(p models.Post, withContent bool) postResponse {
	out := postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		HeroImage:   p.HeroImage,
		PublishedAt: p.PublishedAt,
	}
	if withContent {
		out.Content = p.Content
	}
	return out
}

func newOrderResponse(o models.Order) orderResponse {
	out := orderResponse{
		ID:              o.ID,
		StripeSessionID: o.StripeSessionID,
		Email:           o.Email,
		Status:          string(o.Status),
		SubtotalCents:   o.SubtotalCents,
		DiscountCents:   o.DiscountCents,
		ShippingCents:   o.ShippingCents,
		TaxCents:        o.TaxCents,
		TotalCents:      o.TotalCents,
		Currency:        o.Currency,
		ShippingName:    o.ShippingName,
		Items:           make([]orderItemResponse, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
	}
	if !o.ShippingAddress.IsZero() {
		addr := o.ShippingAddress
		out.ShippingAddress = &addr
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, orderItemResponse{
			ID:         it.ID,
			VariantID:  it.VariantID,
			Title:      it.Title,
			SKU:        it.SKU,
			Quantity:   it.Quantity,
			PriceCents: it.PriceCents,
		})
	}
	return out
}

func newDiscountResponse(d models.Discount) discountResponse {
	return discountResponse{
		ID:         d.ID,
		Code:       d.Code,
		Type:       string(d.Type),
		Value:      d.Value,
		StartsAt:   d.StartsAt,
		EndsAt:     d.EndsAt,
		UsageLimit: d.UsageLimit,
		UsageCount: d.UsageCount,
		CreatedAt:  d.CreatedAt,
	}
}
