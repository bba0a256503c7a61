package services

import (
	"errors"
	"fmt"
)

// Workflow errors surfaced to handlers, which map them onto HTTP statuses.
var (
	// ErrInvalidAddress indicates the shipping address does not exist or
	// does not belong to the ordering user.
	ErrInvalidAddress = errors.New("invalid shipping address")

	// ErrInvalidTransition indicates an order status change that the
	// lifecycle does not allow, e.g. cancelling a shipped order.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrForbidden indicates the caller does not own the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned for any failed login. It is
	// deliberately the same for a wrong password and an unknown username.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateAccount indicates a registration with a username or
	// email that is already in use.
	ErrDuplicateAccount = errors.New("account already exists")
)

// InsufficientStockError reports that a product (or the sum of its variant
// stocks) cannot cover a requested quantity. It surfaces both at
// order-creation time (no side effects yet) and at decrement time (where the
// caller reverts statuses before propagating it).
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.ProductName, e.Requested, e.Available)
}

// ValidationError carries a human-readable message for rejected input, such
// as card details that fail the Luhn check.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
