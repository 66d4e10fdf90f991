package repository

import (
	"context"
	"fmt"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCatalogRepository struct {
	products *mongo.Collection
	events   *mongo.Collection
	emcees   *mongo.Collection
	tickets  *mongo.Collection
}

func NewMongoCatalogRepository(db *mongo.Database) CatalogRepository {
	return &mongoCatalogRepository{
		products: db.Collection("products"),
		events:   db.Collection("events"),
		emcees:   db.Collection("emcees"),
		tickets:  db.Collection("tickets"),
	}
}

func (m *mongoCatalogRepository) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := findAll(ctx, m.products, &products); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (m *mongoCatalogRepository) Events(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := findAll(ctx, m.events, &events); err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	return events, nil
}

func (m *mongoCatalogRepository) Emcees(ctx context.Context) ([]domain.Emcee, error) {
	var emcees []domain.Emcee
	if err := findAll(ctx, m.emcees, &emcees); err != nil {
		return nil, fmt.Errorf("failed to load emcees: %w", err)
	}
	return emcees, nil
}

func (m *mongoCatalogRepository) TicketEvents(ctx context.Context) ([]domain.TicketEvent, error) {
	var tickets []domain.TicketEvent
	if err := findAll(ctx, m.tickets, &tickets); err != nil {
		return nil, fmt.Errorf("failed to load ticket events: %w", err)
	}
	return tickets, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}
