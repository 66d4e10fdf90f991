package domain

// Product is a catalog entry for the merch shop. Products are owned by
// an external catalog-management process; the storefront only reads them.
type Product struct {
	ID       string   `bson:"_id,omitempty" json:"id"`
	Name     string   `bson:"name" json:"name"`
	Brand    string   `bson:"brand" json:"brand"`
	Category string   `bson:"category" json:"category"`
	Price    float64  `bson:"price" json:"price"`
	Image    string   `bson:"image" json:"image"`
	Sizes    []string `bson:"sizes,omitempty" json:"sizes,omitempty"`
}

// TicketEvent is an upcoming event with tickets on sale.
type TicketEvent struct {
	ID        string  `bson:"_id,omitempty" json:"id"`
	Name      string  `bson:"name" json:"name"`
	Date      string  `bson:"date" json:"date"`
	Venue     string  `bson:"venue" json:"venue"`
	Price     float64 `bson:"price" json:"price"`
	Remaining int     `bson:"remaining" json:"remaining"`
	Image     string  `bson:"image" json:"image"`
}
