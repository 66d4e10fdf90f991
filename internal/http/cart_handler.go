package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/cart"
	"github.com/AdonesMapula/rapollo-web/internal/catalog"
	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cart    *cart.Service
	catalog *catalog.Service
	timeout time.Duration
}

func NewCartHandler(cartService *cart.Service, catalogService *catalog.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cartService,
		catalog: catalogService,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
}

type CartResponseDTO struct {
	Lines []domain.CartLine `json:"lines"`
	Total float64           `json:"total"`
}

func cartResponse(c *domain.Cart) CartResponseDTO {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponseDTO{Lines: lines, Total: c.Total()}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	c, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "cart_unavailable", "could not load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, ok := h.catalog.Product(ctx, req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown product")
		return
	}

	c, err := h.cart.AddItem(ctx, userID, *product, req.Size)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(c))
}

// POST /api/v1/cart/items/{index}/increment
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.cart.Increment)
}

// POST /api/v1/cart/items/{index}/decrement
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.cart.Decrement)
}

// DELETE /api/v1/cart/items/{index}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, h.cart.RemoveLine)
}

func (h *CartHandler) adjust(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID string, index int) (*domain.Cart, error),
) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_index", "line index must be an integer")
		return
	}

	c, err := op(ctx, userID, index)
	if err != nil {
		if errors.Is(err, cart.ErrLineOutOfRange) {
			respondError(w, http.StatusBadRequest, "line_out_of_range", "no cart line at that index")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "cart_unavailable", "could not update cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(c))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.cart.Clear(ctx, userID); err != nil {
		respondError(w, http.StatusServiceUnavailable, "cart_unavailable", "could not clear cart")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{Lines: []domain.CartLine{}})
}
