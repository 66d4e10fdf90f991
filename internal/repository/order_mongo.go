package repository

import (
	"context"
	"fmt"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOrderRepository struct {
	shopOrders   *mongo.Collection
	ticketOrders *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		shopOrders:   db.Collection("solditems"),
		ticketOrders: db.Collection("soldtickets"),
	}
}

func (m *mongoOrderRepository) InsertShopOrder(ctx context.Context, order *domain.Order) error {
	if _, err := m.shopOrders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert shop order: %w", err)
	}
	return nil
}

func (m *mongoOrderRepository) InsertTicketOrder(ctx context.Context, order *domain.Order) error {
	if _, err := m.ticketOrders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert ticket order: %w", err)
	}
	return nil
}

// OrdersByEmail returns a customer's shop orders, newest first.
func (m *mongoOrderRepository) OrdersByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}})
	cursor, err := m.shopOrders.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}
