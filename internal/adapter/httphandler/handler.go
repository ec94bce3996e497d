package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET /products?category=&minPrice=&maxPrice=&color=&search=&inStock=&trending=&seasonal=&sortBy=&sortOrder=&page=&limit=
// always 200 OK, the "error" field is set when the catalog failed to load

type CatalogHandler struct {
	browser port.CatalogBrowser
}

func RegisterCatalog(mux *http.ServeMux, browser port.CatalogBrowser) {
	h := CatalogHandler{browser}
	mux.HandleFunc("GET /products", h.GetProducts)
	mux.HandleFunc("GET /v1/products", h.GetProducts)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	q := parseCatalogQuery(r.URL.Query())

	page, err := h.browse(r.Context(), q)
	if err != nil {
		log.Error("failed to browse catalog", "err", err)
		writeJSON(w, http.StatusOK, emptyResponse(q, "failed to load products"))
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(page))
	log.Debug("served", "nProducts", len(page.Products), "total", page.TotalCount)
}

// browse turns a panic into an error, the storefront never gets a 5xx
// from this endpoint.
func (h CatalogHandler) browse(
	ctx context.Context, q domain.CatalogQuery,
) (page domain.CatalogPage, err error) {
	const op = "CatalogHandler.browse"

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s: panic: %v", op, rec)
		}
	}()

	return h.browser.Browse(ctx, q)
}

func (h CatalogHandler) toResponse(page domain.CatalogPage) ProductsResponse {
	res := ProductsResponse{
		Products:    make([]Product, len(page.Products)),
		TotalCount:  page.TotalCount,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		Facets: Facets{
			Categories:   toFacetCounts(page.Facets.Categories),
			Colors:       toFacetCounts(page.Facets.Colors),
			PriceBuckets: toFacetCounts(page.Facets.PriceBuckets),
		},
	}
	for i, p := range page.Products {
		res.Products[i] = Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			Colors:      nonNil(p.Colors),
			Tags:        nonNil(p.Tags),
			Images:      nonNil(p.Images),
			InStock:     p.InStock,
			Source:      p.Source.String(),
			CreatedAt:   p.CreatedAt,
		}
	}
	return res
}

func emptyResponse(q domain.CatalogQuery, msg string) ProductsResponse {
	return ProductsResponse{
		Products:    []Product{},
		CurrentPage: max(q.Page.Page, 1),
		Facets: Facets{
			Categories:   []FacetCount{},
			Colors:       []FacetCount{},
			PriceBuckets: []FacetCount{},
		},
		Error: msg,
	}
}

func toFacetCounts(fs []domain.FacetCount) []FacetCount {
	out := make([]FacetCount, len(fs))
	for i, f := range fs {
		out[i] = FacetCount{Label: f.Label, Count: f.Count}
	}
	return out
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

// POST v1/filter/product JSON {"product_name" string, "blocked" bool}
// (202 Accepted, 400 Bad request, 503 Service unavailable)

type FilterHandler struct {
	setter port.ProductFilterSetter
}

// RegisterFilter mounts the rule endpoint, which accepts JSON bodies only.
func RegisterFilter(mux *http.ServeMux, setter port.ProductFilterSetter) {
	h := FilterHandler{setter}
	mux.Handle("POST /v1/filter/product", AllowJSON(http.HandlerFunc(h.PostRule)))
}

func (h FilterHandler) PostRule(w http.ResponseWriter, r *http.Request) {
	const op = "FilterHandler.PostRule"
	log := slog.With("op", op)

	var rule FilterRule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	pf := domain.ProductFilter{ProductName: rule.Name, Blocked: rule.Blocked}
	err := h.setter.SetRule(r.Context(), pf)
	switch {
	case errors.Is(err, domain.ErrInvalidRule):
		http.Error(w, "product_name is required", http.StatusBadRequest)
		log.Warn("invalid rule", "err", err)
		return
	case err != nil:
		http.Error(w, "failed to accept rule", http.StatusServiceUnavailable)
		log.Error("failed to set rule", "err", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	if _, err = w.Write([]byte("Accepted")); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}

	log.Info("accepted", "productName", pf.ProductName, "blocked", pf.Blocked)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
