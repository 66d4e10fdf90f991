package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/checkout"
	"github.com/AdonesMapula/rapollo-web/internal/domain"
)

const maxReceiptSize = 5 << 20 // 5MB

type CheckoutHandler struct {
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(service *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: service,
		timeout:  timeout,
	}
}

type CheckoutResponseDTO struct {
	TransactionID string             `json:"transactionId"`
	Status        domain.OrderStatus `json:"status"`
	TotalAmount   float64            `json:"totalAmount"`
	OrderDate     string             `json:"orderDate"`
	ReceiptURL    string             `json:"receiptURL,omitempty"`
}

type TicketCheckoutRequestDTO struct {
	EventID       string `json:"event_id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Quantity      int    `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
}

// POST /api/v1/checkout accepts a multipart form with the payment
// details and an optional receipt image part.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "expected multipart form")
		return
	}

	form := &checkout.OrderForm{
		FullName:        r.FormValue("fullName"),
		Email:           r.FormValue("email"),
		Phone:           r.FormValue("phone"),
		ShippingAddress: r.FormValue("shippingAddress"),
		PaymentMethod:   r.FormValue("paymentMethod"),
	}

	if file, header, err := r.FormFile("receipt"); err == nil {
		defer file.Close()
		// Read one byte past the limit so an oversize receipt is
		// rejected rather than truncated and uploaded corrupt.
		data, errRead := io.ReadAll(io.LimitReader(file, maxReceiptSize+1))
		if errRead != nil {
			respondError(w, http.StatusBadRequest, "invalid_receipt", "could not read receipt image")
			return
		}
		if len(data) > maxReceiptSize {
			respondError(w, http.StatusBadRequest, "receipt_too_large", "receipt image exceeds the 5MB limit")
			return
		}
		form.Receipt = data
		form.ReceiptFilename = header.Filename
	}

	order, err := h.checkout.Submit(ctx, userID, form)
	if err != nil {
		recordCheckout("shop", false)
		handleCheckoutError(w, err)
		return
	}

	recordCheckout("shop", true)
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		TransactionID: order.TransactionID,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		OrderDate:     order.OrderDate,
		ReceiptURL:    order.ReceiptURL,
	})
}

// POST /api/v1/tickets/checkout
func (h *CheckoutHandler) SubmitTicket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req TicketCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.checkout.SubmitTicket(ctx, &checkout.TicketForm{
		EventID:       req.EventID,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Quantity:      req.Quantity,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		recordCheckout("ticket", false)
		handleCheckoutError(w, err)
		return
	}

	recordCheckout("ticket", true)
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		TransactionID: order.TransactionID,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		OrderDate:     order.OrderDate,
	})
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrUpload):
		respondError(w, http.StatusBadGateway, "upload_error", "receipt upload failed, order was not placed")
	case errors.Is(err, checkout.ErrPersistence):
		respondError(w, http.StatusServiceUnavailable, "persistence_error", "order could not be saved, please retry")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
