package ports

import (
	"context"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
)

// CreateOrderInput is the send-package form as entered by a customer.
type CreateOrderInput struct {
	PickupAddress  string  `validate:"required"`
	DropoffAddress string  `validate:"required"`
	Description    string  `validate:"required"`
	Price          float64 `validate:"gt=0"`
	DistanceKM     float64 `validate:"gt=0"`
}

// DeliveryService exposes the order operations available to an authenticated
// session.
type DeliveryService interface {
	// CreateOrder places a delivery order and returns the confirmation the
	// payment step consumes. The same logical submission retried with the
	// same idempotency key must not create a second order server-side.
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)

	// History lists the current user's past deliveries.
	History(ctx context.Context) ([]domain.HistoryEntry, error)

	// Locations lists the current user's in-flight delivery locations.
	Locations(ctx context.Context) ([]domain.ActiveLocation, error)
}
