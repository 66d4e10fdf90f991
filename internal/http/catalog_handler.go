package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Service
	timeout time.Duration
}

func NewCatalogHandler(catalog *catalog.Service, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// GET /api/v1/products?search=&category=&brand=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := r.URL.Query()
	filter := catalog.ProductFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Brand:    query.Get("brand"),
	}

	respondJSON(w, http.StatusOK, h.catalog.Products(ctx, filter))
}

// GET /api/v1/events?year=&search=
func (h *CatalogHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := r.URL.Query()
	respondJSON(w, http.StatusOK, h.catalog.Events(ctx, query.Get("year"), query.Get("search")))
}

// GET /api/v1/events/years
func (h *CatalogHandler) ListEventYears(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.catalog.Years(ctx))
}

// GET /api/v1/emcees?search=&sort=asc|desc
func (h *CatalogHandler) ListEmcees(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := r.URL.Query()
	order := catalog.SortOrder(query.Get("sort"))
	if order != catalog.SortAsc && order != catalog.SortDesc {
		order = catalog.SortNone
	}

	respondJSON(w, http.StatusOK, h.catalog.Emcees(ctx, query.Get("search"), order))
}

// GET /api/v1/tickets
func (h *CatalogHandler) ListTicketEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, h.catalog.TicketEvents(ctx))
}
