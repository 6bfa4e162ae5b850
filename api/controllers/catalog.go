package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/epicdreams/storefront-backend/api/responses"
	"github.com/epicdreams/storefront-backend/api/validators"
	"github.com/epicdreams/storefront-backend/internal/catalog"
	"github.com/epicdreams/storefront-backend/pkg/db/models"
	pkgerrors "github.com/epicdreams/storefront-backend/pkg/errors"
	"github.com/epicdreams/storefront-backend/pkg/logger"
)

const maxFilterLen = 64

type CatalogService interface {
	ListStore(ctx context.Context, f catalog.StoreFilters) (*catalog.StorePage, error)
	GetProduct(ctx context.Context, slug string) (*catalog.ProductDetail, error)
	ListCollections(ctx context.Context) ([]models.Collection, error)
	ListArtists(ctx context.Context) ([]models.Artist, error)
	GetArtist(ctx context.Context, slug string) (*catalog.ArtistDetail, error)
	GetRelease(ctx context.Context, slug string) (*catalog.ReleaseDetail, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, slug string) (*models.Post, error)
}

type storePageResponse struct {
	Products []productResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
}

type productDetailResponse struct {
	Product productResponse   `json:"product"`
	Related []productResponse `json:"related"`
}

type artistDetailResponse struct {
	artistResponse
	Releases     []releaseResponse `json:"releases"`
	Products     []productResponse `json:"products"`
	MusicLinks   []catalog.Link    `json:"music_links"`
	SocialLinks  []catalog.Link    `json:"social_links"`
	SpotifyEmbed string            `json:"spotify_embed,omitempty"`
}

type releaseDetailResponse struct {
	Release releaseResponse   `json:"release"`
	Merch   []productResponse `json:"merch"`
}

// StoreProducts serves the filtered store grid. Unknown filter values are
// ignored rather than rejected.
func StoreProducts(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		q := r.URL.Query()
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			page = 1
		}
		filters := catalog.NormalizeFilters(
			validators.SanitizeString(q.Get("category"), maxFilterLen),
			validators.SanitizeString(q.Get("size"), maxFilterLen),
			validators.SanitizeString(q.Get("color"), maxFilterLen),
			validators.SanitizeString(q.Get("sort"), maxFilterLen),
			page,
		)

		result, err := svc.ListStore(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, storePageResponse{
			Products: newProductResponses(result.Products),
			Total:    result.Total,
			Page:     result.Page,
			Pages:    result.Pages,
		})
	}
}

func StoreProduct(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		detail, err := svc.GetProduct(r.Context(), slugParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productDetailResponse{
			Product: newProductResponse(detail.Product),
			Related: newProductResponses(detail.Related),
		})
	}
}

func Collections(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := svc.ListCollections(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]collectionResponse, 0, len(rows))
		for _, c := range rows {
			out = append(out, newCollectionResponse(c))
		}
		responses.WriteSuccess(w, out)
	}
}

func Artists(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := svc.ListArtists(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]artistResponse, 0, len(rows))
		for _, a := range rows {
			out = append(out, newArtistResponse(a))
		}
		responses.WriteSuccess(w, out)
	}
}

func Artist(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		detail, err := svc.GetArtist(r.Context(), slugParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := artistDetailResponse{
			artistResponse: newArtistResponse(detail.Artist),
			Releases:       make([]releaseResponse, 0, len(detail.Artist.Releases)),
			Products:       newProductResponses(detail.Artist.Products),
			MusicLinks:     detail.MusicLinks,
			SocialLinks:    detail.SocialLinks,
			SpotifyEmbed:   detail.SpotifyEmbed,
		}
		for _, rel := range detail.Artist.Releases {
			out.Releases = append(out.Releases, newReleaseResponse(rel))
		}
		responses.WriteSuccess(w, out)
	}
}

func Release(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		detail, err := svc.GetRelease(r.Context(), slugParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, releaseDetailResponse{
			Release: newReleaseResponse(detail.Release),
			Merch:   newProductResponses(detail.Merch),
		})
	}
}

func Posts(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		rows, err := svc.ListPosts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]postResponse, 0, len(rows))
		for _, p := range rows {
			out = append(out, newPostResponse(p, false))
		}
		responses.WriteSuccess(w, out)
	}
}

func Post(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		post, err := svc.GetPost(r.Context(), slugParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPostResponse(*post, true))
	}
}

func slugParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
}
