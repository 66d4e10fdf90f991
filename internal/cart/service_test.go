package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/cache"
	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	m        sync.RWMutex
	cart     *domain.Cart
	err      error
	getDelay time.Duration
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	if m.getDelay > 0 {
		time.Sleep(m.getDelay)
	}
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) ReplaceCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = c
	return nil
}

func (m *mockRepository) DeleteCart(_ context.Context, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return nil
}

func newTestService() (*Service, *mockRepository) {
	repo := &mockRepository{}
	return NewService(repo, &mockCache{}), repo
}

func shirt() domain.Product {
	return domain.Product{
		ID:       "p1",
		Name:     "FlipTop Tee",
		Brand:    "FlipTop",
		Category: "T-Shirts",
		Price:    500,
		Image:    "https://img.example/p1.jpg",
	}
}

func TestAddItem_MergesOnProductAndSize(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, float64(1000), cart.Total())
}

func TestAddItem_DifferentSizesStaySeparate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)

	cart, err := svc.AddItem(ctx, "u1", shirt(), "L")
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "M", cart.Lines[0].Size)
	assert.Equal(t, "L", cart.Lines[1].Size)
}

func TestAddItem_EmptySizeFallsBackToDefault(t *testing.T) {
	svc, _ := newTestService()

	cart, err := svc.AddItem(context.Background(), "u1", shirt(), "")
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, DefaultSize, cart.Lines[0].Size)
}

func TestAddItem_SnapshotsProductFields(t *testing.T) {
	svc, _ := newTestService()

	cart, err := svc.AddItem(context.Background(), "u1", shirt(), "M")
	require.NoError(t, err)

	line := cart.Lines[0]
	assert.Equal(t, "FlipTop Tee", line.Name)
	assert.Equal(t, float64(500), line.Price)
	assert.Equal(t, "https://img.example/p1.jpg", line.Image)
}

func TestDecrement_RemovesLineAtQuantityOne(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)

	cart, err := svc.Decrement(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestDecrement_AboveOneJustDropsAUnit(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)

	cart, err := svc.Decrement(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestIncrementDecrement_OutOfRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Increment(ctx, "u1", 0)
	assert.ErrorIs(t, err, ErrLineOutOfRange)

	_, err = svc.Decrement(ctx, "u1", -1)
	assert.ErrorIs(t, err, ErrLineOutOfRange)
}

func TestClear_EmptiesCart(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}

func TestClear_MissingCartIsNotAnError(t *testing.T) {
	svc, _ := newTestService()
	assert.NoError(t, svc.Clear(context.Background(), "nobody"))
}

func TestGetCart_MissingCartReturnsEmpty(t *testing.T) {
	svc, _ := newTestService()

	cart, err := svc.GetCart(context.Background(), "fresh-user")
	require.NoError(t, err)
	assert.Equal(t, "fresh-user", cart.UserID)
	assert.Empty(t, cart.Lines)
}

func TestTotal_SumsPriceTimesQuantity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	hoodie := domain.Product{ID: "p2", Name: "Rapollo Hoodie", Brand: "Rapollo", Category: "Hoodies", Price: 1200}

	_, err := svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "u1", shirt(), "M")
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "u1", hoodie, "L")
	require.NoError(t, err)

	assert.Equal(t, float64(500*2+1200), cart.Total())
}

func TestGetCart_CoalescedReadersGetIndependentCarts(t *testing.T) {
	repo := &mockRepository{
		getDelay: 100 * time.Millisecond,
		cart: &domain.Cart{
			UserID: "u1",
			Lines:  []domain.CartLine{{ProductID: "p1", Size: "M", Quantity: 1, Price: 500}},
		},
	}
	svc := NewService(repo, &mockCache{})
	ctx := context.Background()

	var wg sync.WaitGroup
	carts := make([]*domain.Cart, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := svc.GetCart(ctx, "u1")
			assert.NoError(t, err)
			carts[i] = c
		}(i)
	}
	wg.Wait()
	require.NotNil(t, carts[0])
	require.NotNil(t, carts[1])

	// The slow read coalesces both calls onto one result; mutating one
	// caller's cart must not leak into the other's.
	carts[0].Lines[0].Quantity = 99
	assert.Equal(t, 1, carts[1].Lines[0].Quantity)
}

func TestAddItem_ConcurrentWritersDoNotCorruptLines(t *testing.T) {
	repo := &mockRepository{getDelay: 50 * time.Millisecond}
	svc := NewService(repo, &mockCache{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.AddItem(ctx, "u1", shirt(), "M")
			if assert.NoError(t, err) && assert.Len(t, c.Lines, 1) {
				assert.GreaterOrEqual(t, c.Lines[0].Quantity, 1)
			}
		}()
	}
	wg.Wait()

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Contains(t, []int{1, 2}, cart.Lines[0].Quantity)
}
