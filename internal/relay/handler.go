package relay

import (
	"encoding/json"
	"log"
	"net/http"
)

// SendEmailRequest is the inbound payload for POST /send-email.
type SendEmailRequest struct {
	CustomerName  string     `json:"customerName"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	OrderType     string     `json:"orderType"`
	CartItems     []CartItem `json:"cartItems"`
	TotalAmount   float64    `json:"totalAmount"`
	TransactionID string     `json:"transactionId"`
	PaymentMethod string     `json:"paymentMethod"`
	ReceiptURL    string     `json:"receiptURL,omitempty"`
}

type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Handler struct {
	mailer Mailer
}

func NewHandler(mailer Mailer) *Handler {
	return &Handler{mailer: mailer}
}

// SendEmail validates the order payload, then formats and dispatches
// the confirmation. Dispatch failure is the caller's 500; the caller
// treats the whole call as fire-and-forget.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, SendEmailResponse{Success: false, Message: "Invalid JSON body!"})
		return
	}

	if req.CustomerName == "" || req.Email == "" || req.Phone == "" ||
		req.OrderType == "" || req.TotalAmount == 0 || req.TransactionID == "" || req.PaymentMethod == "" {
		log.Printf("send-email rejected: missing required fields for txn %q", req.TransactionID)
		respond(w, http.StatusBadRequest, SendEmailResponse{Success: false, Message: "All fields are required!"})
		return
	}

	if req.OrderType == "shop" && len(req.CartItems) == 0 {
		log.Printf("send-email rejected: empty cartItems for shop txn %q", req.TransactionID)
		respond(w, http.StatusBadRequest, SendEmailResponse{Success: false, Message: "Cart items are required for shop orders!"})
		return
	}

	if err := h.mailer.SendConfirmation(&req); err != nil {
		log.Printf("send-email failed for txn %s: %v", req.TransactionID, err)
		respond(w, http.StatusInternalServerError, SendEmailResponse{Success: false, Message: "Failed to send email. Please try again."})
		return
	}

	// Admin copy is best-effort; the customer confirmation already went out.
	if err := h.mailer.SendAdminCopy(&req); err != nil {
		log.Printf("admin copy failed for txn %s: %v", req.TransactionID, err)
	}

	respond(w, http.StatusOK, SendEmailResponse{Success: true, Message: "Email sent successfully!"})
}

func respond(w http.ResponseWriter, status int, body SendEmailResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
