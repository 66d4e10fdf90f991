package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusDeclined OrderStatus = "declined"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type OrderType string

const (
	OrderTypeShop   OrderType = "shop"
	OrderTypeTicket OrderType = "ticket"
)

// OrderItem is a line-item snapshot frozen into an order at submission
// time. Totals are always computed from these, never from the live cart.
type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Size      string  `bson:"size" json:"size"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// Order is the persisted record of one checkout. The storefront writes
// it exactly once with status "pending"; approval or decline happens in
// an external back-office process.
type Order struct {
	ID              string      `bson:"_id,omitempty" json:"id,omitempty"`
	TransactionID   string      `bson:"transaction_id" json:"transactionId"`
	OrderType       OrderType   `bson:"order_type" json:"orderType"`
	CustomerName    string      `bson:"customer_name" json:"customerName"`
	Email           string      `bson:"email" json:"email"`
	Phone           string      `bson:"phone" json:"phone"`
	ShippingAddress string      `bson:"shipping_address,omitempty" json:"shippingAddress,omitempty"`
	PaymentMethod   string      `bson:"payment_method" json:"paymentMethod"`
	ItemsPurchased  []string    `bson:"items_purchased,omitempty" json:"itemsPurchased,omitempty"`
	CartItems       []OrderItem `bson:"cart_items,omitempty" json:"cartItems,omitempty"`
	TicketQuantity  int         `bson:"ticket_quantity,omitempty" json:"ticketQuantity,omitempty"`
	TotalAmount     float64     `bson:"total_amount" json:"totalAmount"`
	OrderDate       string      `bson:"order_date" json:"orderDate"`
	Status          OrderStatus `bson:"status" json:"status"`
	ReceiptURL      string      `bson:"receipt_url,omitempty" json:"receiptURL,omitempty"`
}

// NotificationOutbox is one pending or dispatched confirmation email.
// The poller retries pending entries until the relay accepts them.
type NotificationOutbox struct {
	ID            string    `bson:"_id,omitempty" json:"id,omitempty"`
	TransactionID string    `bson:"transaction_id" json:"transaction_id"`
	Order         Order     `bson:"order" json:"order"`
	Sent          bool      `bson:"sent" json:"sent"`
	Published     bool      `bson:"published" json:"published"`
	Attempts      int       `bson:"attempts" json:"attempts"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
