package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/cache"
	"github.com/AdonesMapula/rapollo-web/internal/cart"
	"github.com/AdonesMapula/rapollo-web/internal/catalog"
	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: make(map[string]*domain.Cart)}
}

func (m *mockCartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCartRepository) ReplaceCart(ctx context.Context, c *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *c
	m.carts[c.UserID] = &copied
	return nil
}

func (m *mockCartRepository) DeleteCart(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(m.carts, userID)
	return nil
}

type noopCartCache struct{}

func (noopCartCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return nil, cache.ErrCacheMiss
}
func (noopCartCache) Set(ctx context.Context, userID string, c *domain.Cart) error { return nil }
func (noopCartCache) Delete(ctx context.Context, userID string) error              { return nil }

type mockCatalogRepository struct {
	products []domain.Product
}

func (m *mockCatalogRepository) Products(ctx context.Context) ([]domain.Product, error) {
	return m.products, nil
}
func (m *mockCatalogRepository) Events(ctx context.Context) ([]domain.Event, error) {
	return nil, nil
}
func (m *mockCatalogRepository) Emcees(ctx context.Context) ([]domain.Emcee, error) {
	return nil, nil
}
func (m *mockCatalogRepository) TicketEvents(ctx context.Context) ([]domain.TicketEvent, error) {
	return nil, nil
}

var testProducts = []domain.Product{
	{ID: "p1", Name: "Classic Tee", Brand: "Rapollo", Category: "Shirts", Price: 500, Sizes: []string{"S", "M", "L"}},
	{ID: "p2", Name: "Snapback", Brand: "Uprock", Category: "Caps", Price: 350},
}

func newCartTestRouter() (*chi.Mux, *mockCartRepository) {
	repo := newMockCartRepository()
	cartSvc := cart.NewService(repo, noopCartCache{})
	catalogSvc := catalog.NewService(&mockCatalogRepository{products: testProducts})
	h := NewCartHandler(cartSvc, catalogSvc, 2*time.Second)

	r := chi.NewRouter()
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Post("/cart/items/{index}/increment", h.Increment)
	r.Post("/cart/items/{index}/decrement", h.Decrement)
	r.Delete("/cart/items/{index}", h.RemoveLine)
	r.Delete("/cart", h.ClearCart)
	return r, repo
}

func doSessionRequest(t *testing.T, router http.Handler, method, target, userID string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), userIDKey, userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) CartResponseDTO {
	t.Helper()
	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetCart_EmptyForFreshSession(t *testing.T) {
	router, _ := newCartTestRouter()

	w := doSessionRequest(t, router, http.MethodGet, "/cart", "user-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, 0.0, resp.Total)
}

func TestGetCart_MissingSession(t *testing.T) {
	router, _ := newCartTestRouter()

	w := doSessionRequest(t, router, http.MethodGet, "/cart", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddItem_SnapshotsProduct(t *testing.T) {
	router, _ := newCartTestRouter()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p1", Size: "L"})
	w := doSessionRequest(t, router, http.MethodPost, "/cart/items", "user-1", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Classic Tee", resp.Lines[0].Name)
	assert.Equal(t, "L", resp.Lines[0].Size)
	assert.Equal(t, 500.0, resp.Lines[0].Price)
	assert.Equal(t, 500.0, resp.Total)
}

func TestAddItem_SameProductAndSizeMerges(t *testing.T) {
	router, _ := newCartTestRouter()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p1", Size: "M"})
	doSessionRequest(t, router, http.MethodPost, "/cart/items", "user-1", body)
	w := doSessionRequest(t, router, http.MethodPost, "/cart/items", "user-1", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeCart(t, w)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.Equal(t, 1000.0, resp.Total)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	router, _ := newCartTestRouter()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "nope"})
	w := doSessionRequest(t, router, http.MethodPost, "/cart/items", "user-1", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddItem_InvalidBody(t *testing.T) {
	router, _ := newCartTestRouter()

	w := doSessionRequest(t, router, http.MethodPost, "/cart/items", "user-1", []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecrement_RemovesLineAtQuantityOne(t *testing.T) {
	router, _ := newCartTestRouter()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p2"})
	doSessionRequest(t, router, http.MethodPost, "/cart/items", "user-1", body)

	w := doSessionRequest(t, router, http.MethodPost, "/cart/items/0/decrement", "user-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeCart(t, w)
	assert.Empty(t, resp.Lines)
}

func TestAdjust_IndexOutOfRange(t *testing.T) {
	router, _ := newCartTestRouter()

	w := doSessionRequest(t, router, http.MethodPost, "/cart/items/7/increment", "user-1", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "line_out_of_range", resp.Code)
}

func TestAdjust_NonNumericIndex(t *testing.T) {
	router, _ := newCartTestRouter()

	w := doSessionRequest(t, router, http.MethodPost, "/cart/items/abc/increment", "user-1", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearCart(t *testing.T) {
	router, repo := newCartTestRouter()

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p1", Size: "M"})
	doSessionRequest(t, router, http.MethodPost, "/cart/items", "user-1", body)

	w := doSessionRequest(t, router, http.MethodDelete, "/cart", "user-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.mu.RLock()
	_, exists := repo.carts["user-1"]
	repo.mu.RUnlock()
	assert.False(t, exists)
}
