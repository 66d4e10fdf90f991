package checkout

import "errors"

var (
	// ErrValidation means a required checkout field was missing. Nothing
	// was uploaded or written; the form is re-shown with a message.
	ErrValidation = errors.New("missing required checkout field")

	// ErrUpload means the receipt image could not be stored. The whole
	// checkout aborts before any order is written.
	ErrUpload = errors.New("receipt upload failed")

	// ErrPersistence means the order write failed. Cart and form state
	// survive so the customer can retry.
	ErrPersistence = errors.New("order persistence failed")

	// ErrEmptyCart rejects a checkout with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
)
