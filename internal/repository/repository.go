package repository

import (
	"context"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ReplaceCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// CatalogRepository reads the externally managed catalog collections.
type CatalogRepository interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Events(ctx context.Context) ([]domain.Event, error)
	Emcees(ctx context.Context) ([]domain.Emcee, error)
	TicketEvents(ctx context.Context) ([]domain.TicketEvent, error)
}

// OrderRepository persists checkout results. Shop orders land in
// solditems, ticket orders in soldtickets.
type OrderRepository interface {
	InsertShopOrder(ctx context.Context, order *domain.Order) error
	InsertTicketOrder(ctx context.Context, order *domain.Order) error
	OrdersByEmail(ctx context.Context, email string) ([]domain.Order, error)
}

// OutboxRepository tracks confirmation emails that still need to reach
// the relay.
type OutboxRepository interface {
	Enqueue(ctx context.Context, entry *domain.NotificationOutbox) error
	Pending(ctx context.Context, limit int) ([]domain.NotificationOutbox, error)
	Unpublished(ctx context.Context, limit int) ([]domain.NotificationOutbox, error)
	MarkSent(ctx context.Context, transactionID string) error
	MarkPublished(ctx context.Context, transactionID string) error
	RecordAttempt(ctx context.Context, transactionID string) error
}
