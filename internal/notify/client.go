package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/sony/gobreaker/v2"
)

// ErrNotification means the relay rejected or failed a dispatch. It is
// best-effort from the caller's perspective: an order already persisted
// stays persisted.
var ErrNotification = errors.New("notification dispatch failed")

// Notifier forwards an order payload to the notification relay.
type Notifier interface {
	Notify(ctx context.Context, order *domain.Order) error
}

// OrderPayload is the relay's wire contract for POST /send-email.
type OrderPayload struct {
	CustomerName  string             `json:"customerName"`
	Email         string             `json:"email"`
	Phone         string             `json:"phone"`
	OrderType     string             `json:"orderType"`
	CartItems     []domain.OrderItem `json:"cartItems,omitempty"`
	TotalAmount   float64            `json:"totalAmount"`
	TransactionID string             `json:"transactionId"`
	PaymentMethod string             `json:"paymentMethod"`
	ReceiptURL    string             `json:"receiptURL,omitempty"`
}

// RelayClient posts confirmations to the standalone relay service. The
// relay is an external collaborator that can be down for long stretches,
// so calls go through a circuit breaker.
type RelayClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewRelayClient(baseURL string) *RelayClient {
	settings := gobreaker.Settings{
		Name:    "notification-relay",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &RelayClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (c *RelayClient) Notify(ctx context.Context, order *domain.Order) error {
	payload := OrderPayload{
		CustomerName:  order.CustomerName,
		Email:         order.Email,
		Phone:         order.Phone,
		OrderType:     string(order.OrderType),
		CartItems:     order.CartItems,
		TotalAmount:   order.TotalAmount,
		TransactionID: order.TransactionID,
		PaymentMethod: order.PaymentMethod,
		ReceiptURL:    order.ReceiptURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal relay payload: %w", err)
	}

	_, err = c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.post(ctx, body)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotification, err)
	}
	return nil
}

func (c *RelayClient) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("relay returned %d: %s", resp.StatusCode, msg)
	}
	return nil
}
