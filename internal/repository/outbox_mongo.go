package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoOutboxRepository struct {
	collection *mongo.Collection
}

func NewMongoOutboxRepository(db *mongo.Database) OutboxRepository {
	return &mongoOutboxRepository{
		collection: db.Collection("notifications"),
	}
}

func (m *mongoOutboxRepository) Enqueue(ctx context.Context, entry *domain.NotificationOutbox) error {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if _, err := m.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

func (m *mongoOutboxRepository) Pending(ctx context.Context, limit int) ([]domain.NotificationOutbox, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, bson.M{"sent": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.NotificationOutbox
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode pending notifications: %w", err)
	}
	return entries, nil
}

func (m *mongoOutboxRepository) Unpublished(ctx context.Context, limit int) ([]domain.NotificationOutbox, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, bson.M{"published": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query unpublished events: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []domain.NotificationOutbox
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode unpublished events: %w", err)
	}
	return entries, nil
}

func (m *mongoOutboxRepository) MarkPublished(ctx context.Context, transactionID string) error {
	update := bson.M{"$set": bson.M{"published": true, "updated_at": time.Now()}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"transaction_id": transactionID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark event as published: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no outbox entry for transaction %s", transactionID)
	}
	return nil
}

func (m *mongoOutboxRepository) MarkSent(ctx context.Context, transactionID string) error {
	update := bson.M{"$set": bson.M{"sent": true, "updated_at": time.Now()}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"transaction_id": transactionID}, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification as sent: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no outbox entry for transaction %s", transactionID)
	}
	return nil
}

func (m *mongoOutboxRepository) RecordAttempt(ctx context.Context, transactionID string) error {
	update := bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	if _, err := m.collection.UpdateOne(ctx, bson.M{"transaction_id": transactionID}, update); err != nil {
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}
	return nil
}
