package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AdonesMapula/rapollo-web/internal/domain"
	"github.com/AdonesMapula/rapollo-web/internal/notify"
	"github.com/AdonesMapula/rapollo-web/internal/repository"
	"github.com/AdonesMapula/rapollo-web/internal/upload"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// CartStore is the slice of the cart service the orchestrator needs.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// TicketCatalog resolves the event a ticket order is for.
type TicketCatalog interface {
	TicketEvents(ctx context.Context) ([]domain.TicketEvent, error)
}

// OrderForm is the transient checkout input. It exists only for the
// duration of one submission.
type OrderForm struct {
	FullName        string
	Email           string
	Phone           string
	ShippingAddress string
	PaymentMethod   string
	Receipt         []byte
	ReceiptFilename string
}

// TicketForm is the ticket-purchase input.
type TicketForm struct {
	EventID       string
	FullName      string
	Email         string
	Phone         string
	Quantity      int
	PaymentMethod string
}

// Service runs the checkout pipeline: validate, upload receipt, assemble
// an immutable order, persist, then clear the cart and notify. Side
// effects are strictly ordered: no order write before a required upload
// succeeds, no cart clear before a successful order write.
type Service struct {
	cart     CartStore
	tickets  TicketCatalog
	orders   repository.OrderRepository
	outbox   repository.OutboxRepository
	uploader upload.ReceiptUploader
	notifier notify.Notifier
	sfg      singleflight.Group // Coalesces double submits per user
}

func NewService(
	cart CartStore,
	tickets TicketCatalog,
	orders repository.OrderRepository,
	outbox repository.OutboxRepository,
	uploader upload.ReceiptUploader,
	notifier notify.Notifier,
) *Service {
	return &Service{
		cart:     cart,
		tickets:  tickets,
		orders:   orders,
		outbox:   outbox,
		uploader: uploader,
		notifier: notifier,
	}
}

// Submit runs one shop checkout. Concurrent submits for the same user
// coalesce into a single order instead of double-writing.
func (s *Service) Submit(ctx context.Context, userID string, form *OrderForm) (*domain.Order, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		return s.submit(ctx, userID, form)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Order), nil
}

func (s *Service) submit(ctx context.Context, userID string, form *OrderForm) (*domain.Order, error) {
	if err := validateOrderForm(form); err != nil {
		return nil, err
	}

	cart, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	// A GCash order without a receipt is accepted on purpose: receipts
	// are reconciled manually by the back office.
	receiptURL := ""
	if len(form.Receipt) > 0 {
		receiptURL, err = s.uploader.Upload(ctx, form.ReceiptFilename, form.Receipt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpload, err)
		}
	}

	transactionID := "TXN-" + uuid.NewString()

	// Snapshot the cart lines and compute the total from the snapshot
	// itself, so a cart mutated mid-flight can never skew the persisted
	// amount.
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	names := make([]string, 0, len(cart.Lines))
	var total float64
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
		names = append(names, line.Name)
	}
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	order := &domain.Order{
		TransactionID:   transactionID,
		OrderType:       domain.OrderTypeShop,
		CustomerName:    form.FullName,
		Email:           form.Email,
		Phone:           form.Phone,
		ShippingAddress: form.ShippingAddress,
		PaymentMethod:   form.PaymentMethod,
		ItemsPurchased:  names,
		CartItems:       items,
		TotalAmount:     total,
		OrderDate:       time.Now().UTC().Format(time.RFC3339),
		Status:          domain.OrderStatusPending,
		ReceiptURL:      receiptURL,
	}

	if err := s.orders.InsertShopOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.finishOrder(ctx, userID, order)
	return order, nil
}

// SubmitTicket runs one ticket order. Same pipeline without a cart or
// receipt: validate, assemble, persist to soldtickets, notify.
func (s *Service) SubmitTicket(ctx context.Context, form *TicketForm) (*domain.Order, error) {
	if err := validateTicketForm(form); err != nil {
		return nil, err
	}

	event, err := s.findTicketEvent(ctx, form.EventID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		TransactionID:  "TXN-" + uuid.NewString(),
		OrderType:      domain.OrderTypeTicket,
		CustomerName:   form.FullName,
		Email:          form.Email,
		Phone:          form.Phone,
		PaymentMethod:  form.PaymentMethod,
		ItemsPurchased: []string{event.Name},
		TicketQuantity: form.Quantity,
		TotalAmount:    event.Price * float64(form.Quantity),
		OrderDate:      time.Now().UTC().Format(time.RFC3339),
		Status:         domain.OrderStatusPending,
	}

	if err := s.orders.InsertTicketOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.finishOrder(ctx, "", order)
	return order, nil
}

// finishOrder runs the post-persistence steps. All of them are
// best-effort: the order already exists and nothing here rolls it back.
func (s *Service) finishOrder(ctx context.Context, userID string, order *domain.Order) {
	if userID != "" {
		if err := s.cart.Clear(ctx, userID); err != nil {
			log.Printf("failed to clear cart after order %s: %v", order.TransactionID, err)
		}
	}

	entry := &domain.NotificationOutbox{
		TransactionID: order.TransactionID,
		Order:         *order,
	}
	if err := s.outbox.Enqueue(ctx, entry); err != nil {
		log.Printf("failed to enqueue notification for order %s: %v", order.TransactionID, err)
	}

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := s.notifier.Notify(notifyCtx, order); err != nil {
			log.Printf("confirmation email for order %s not sent, poller will retry: %v", order.TransactionID, err)
			return
		}
		if err := s.outbox.MarkSent(notifyCtx, order.TransactionID); err != nil {
			log.Printf("failed to mark notification as sent for order %s: %v", order.TransactionID, err)
		}
	}()
}

func (s *Service) findTicketEvent(ctx context.Context, eventID string) (*domain.TicketEvent, error) {
	events, err := s.tickets.TicketEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket events: %w", err)
	}
	for i := range events {
		if events[i].ID == eventID {
			return &events[i], nil
		}
	}
	return nil, fmt.Errorf("%w: unknown event %q", ErrValidation, eventID)
}

func validateOrderForm(form *OrderForm) error {
	required := []struct {
		name, value string
	}{
		{"fullName", form.FullName},
		{"email", form.Email},
		{"phone", form.Phone},
		{"shippingAddress", form.ShippingAddress},
		{"paymentMethod", form.PaymentMethod},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrValidation, f.name)
		}
	}
	return nil
}

func validateTicketForm(form *TicketForm) error {
	required := []struct {
		name, value string
	}{
		{"eventId", form.EventID},
		{"fullName", form.FullName},
		{"email", form.Email},
		{"phone", form.Phone},
		{"paymentMethod", form.PaymentMethod},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s", ErrValidation, f.name)
		}
	}
	if form.Quantity < 1 {
		return fmt.Errorf("%w: quantity", ErrValidation)
	}
	return nil
}
