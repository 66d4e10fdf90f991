package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
	"github.com/segmentio/kafka-go"
)

// OutboxPoller drains the notification outbox: it retries confirmation
// emails the checkout path could not deliver, and publishes an order
// event to Kafka for back-office consumers (stock reconciliation,
// approval queue). Neither side ever touches the persisted order.
type OutboxPoller struct {
	timeout     time.Duration
	retryTick   time.Duration
	publishTick time.Duration
	repo        repository.OutboxRepository
	notifier    Notifier
	writer      *kafka.Writer
}

func NewOutboxPoller(repo repository.OutboxRepository, notifier Notifier, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{time.Second * 5, time.Second * 30, time.Second * 5, repo, notifier, w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	retryTicker := time.NewTicker(p.retryTick)
	publishTicker := time.NewTicker(p.publishTick)
	defer retryTicker.Stop()
	defer publishTicker.Stop()
	for {
		select {
		case <-retryTicker.C:
			p.retryPendingNotifications(ctx)
		case <-publishTicker.C:
			p.publishOrderEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) Close() error {
	return p.writer.Close()
}

func (p *OutboxPoller) retryPendingNotifications(ctx context.Context) {
	entries, err := p.repo.Pending(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch pending notifications: %v", err)
		return
	}

	for _, entry := range entries {
		notifyCtx, cancel := context.WithTimeout(ctx, p.timeout)
		errNotify := p.notifier.Notify(notifyCtx, &entry.Order)
		cancel()

		if errNotify != nil {
			log.Printf("notification retry failed for txn = %v with error %v", entry.TransactionID, errNotify)
			if errAttempt := p.repo.RecordAttempt(ctx, entry.TransactionID); errAttempt != nil {
				log.Printf("failed to record attempt for txn = %v: %v", entry.TransactionID, errAttempt)
			}
			continue
		}

		errMark := p.repo.MarkSent(ctx, entry.TransactionID)
		if errMark != nil {
			log.Printf("failed to mark notification as sent txn = %v with error %v", entry.TransactionID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publishOrderEvents(ctx context.Context) {
	entries, err := p.repo.Unpublished(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch unpublished events: %v", err)
		return
	}

	for _, entry := range entries {
		errPublish := p.publishToKafka(ctx, &entry)
		if errPublish != nil {
			log.Printf("failed to publish event txn = %v with error %v", entry.TransactionID, errPublish)
			continue
		}

		errMark := p.repo.MarkPublished(ctx, entry.TransactionID)
		if errMark != nil {
			log.Printf("failed to mark event as published txn = %v with error %v", entry.TransactionID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, entry *domain.NotificationOutbox) error {
	payload := map[string]interface{}{
		"transaction_id": entry.Order.TransactionID,
		"order_type":     entry.Order.OrderType,
		"email":          entry.Order.Email,
		"total_amount":   entry.Order.TotalAmount,
		"status":         entry.Order.Status,
		"order_date":     entry.Order.OrderDate,
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(entry.TransactionID), // transaction_id for ordering
		Value: payloadJSON,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order-created")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
