package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
)

type OrdersHandler struct {
	orders  repository.OrderRepository
	timeout time.Duration
}

func NewOrdersHandler(orders repository.OrderRepository, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrderListResponseDTO struct {
	Orders []domain.Order `json:"orders"`
}

// GET /api/v1/orders returns order history for the authenticated
// customer, newest first. Email comes from the verified JWT.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	email := getUserEmailFromContext(r.Context())
	if email == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing authenticated email")
		return
	}

	orders, err := h.orders.OrdersByEmail(ctx, email)
	if err != nil {
		log.Printf("Failed to load orders for %s: %v", email, err)
		respondError(w, http.StatusServiceUnavailable, "orders_unavailable", "could not load order history")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respondJSON(w, http.StatusOK, OrderListResponseDTO{Orders: orders})
}
