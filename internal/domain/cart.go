package domain

import "time"

// Cart holds one user's open shopping cart. Line order is insertion
// order and is preserved for display.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Lines     []CartLine `bson:"lines" json:"lines"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartLine is one (product, size) entry. Name, brand, price and image
// are snapshotted at add time so the cart renders without a catalog
// round trip. The uniqueness key is (ProductID, Size).
type CartLine struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Size      string    `bson:"size" json:"size"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Name      string    `bson:"name" json:"name"`
	Brand     string    `bson:"brand" json:"brand"`
	Price     float64   `bson:"price" json:"price"`
	Image     string    `bson:"image" json:"image"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Total is the sum of price times quantity over all lines. It is
// recomputed on every call; consistency with the live lines matters
// more than recomputation cost at this scale.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
