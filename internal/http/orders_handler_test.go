package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderRepo struct {
	orders []domain.Order
	err    error
}

func (s *stubOrderRepo) InsertShopOrder(ctx context.Context, order *domain.Order) error   { return nil }
func (s *stubOrderRepo) InsertTicketOrder(ctx context.Context, order *domain.Order) error { return nil }
func (s *stubOrderRepo) OrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	return s.orders, s.err
}

func doOrdersRequest(t *testing.T, repo *stubOrderRepo, email string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewOrdersHandler(repo, 2*time.Second)
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if email != "" {
		req = req.WithContext(context.WithValue(req.Context(), userEmailKey, email))
	}
	w := httptest.NewRecorder()
	h.ListOrders(w, req)
	return w
}

func TestListOrders_ReturnsHistory(t *testing.T) {
	repo := &stubOrderRepo{orders: []domain.Order{
		{TransactionID: "TXN-2", TotalAmount: 600, OrderType: domain.OrderTypeTicket},
		{TransactionID: "TXN-1", TotalAmount: 1000, OrderType: domain.OrderTypeShop},
	}}

	w := doOrdersRequest(t, repo, "juan@example.com")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp OrderListResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, "TXN-2", resp.Orders[0].TransactionID)
}

func TestListOrders_EmptyHistoryIsAList(t *testing.T) {
	w := doOrdersRequest(t, &stubOrderRepo{}, "juan@example.com")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"orders":[]}`, w.Body.String())
}

func TestListOrders_MissingEmail(t *testing.T) {
	w := doOrdersRequest(t, &stubOrderRepo{}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListOrders_RepositoryError(t *testing.T) {
	w := doOrdersRequest(t, &stubOrderRepo{err: errors.New("mongo down")}, "juan@example.com")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
