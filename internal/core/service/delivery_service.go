package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
	"github.com/hunterxpress/courier-cli/internal/core/ports"
	"github.com/hunterxpress/courier-cli/internal/infrastructure/api"
)

// DeliveryService places orders and reads delivery lists for the current
// session. Every call requires an authenticated session and fails fast with
// domain.ErrNotAuthenticated otherwise; the token itself travels via the
// client's auth transport.
type DeliveryService struct {
	client   *api.Client
	sessions ports.SessionService
	log      zerolog.Logger
}

func NewDeliveryService(client *api.Client, sessions ports.SessionService, log zerolog.Logger) *DeliveryService {
	return &DeliveryService{client: client, sessions: sessions, log: log}
}

// createOrderRequest is the wire shape of POST /deliveries. The backend
// accepts package details as a JSON-encoded string but returns them as an
// object on the confirmation.
type createOrderRequest struct {
	PickupAddress  string  `json:"pickup_address"`
	DropoffAddress string  `json:"dropoff_address"`
	PackageDetails string  `json:"package_details"`
	Price          float64 `json:"price"`
	DistanceKM     float64 `json:"distance_km"`
}

type createOrderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// CreateOrder places a delivery order. Each submission carries a fresh
// idempotency key so a network-level duplicate cannot create a second order.
func (s *DeliveryService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	if !s.sessions.Session().Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	details, err := json.Marshal(domain.PackageDetails{Description: input.Description})
	if err != nil {
		return nil, fmt.Errorf("encode package details: %w", err)
	}

	body := createOrderRequest{
		PickupAddress:  input.PickupAddress,
		DropoffAddress: input.DropoffAddress,
		PackageDetails: string(details),
		Price:          input.Price,
		DistanceKM:     input.DistanceKM,
	}

	key := uuid.NewString()
	resp, err := s.client.Post(ctx, "/deliveries", body, api.WithHeader("Idempotency-Key", key))
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	var data createOrderResponse
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	if !data.Success || data.Order == nil {
		return nil, fmt.Errorf("place order rejected: %s", orDefault(data.Message, "unknown reason"))
	}

	s.log.Info().
		Str("order_reference", data.Order.OrderReference).
		Str("idempotency_key", key).
		Msg("order placed")
	return data.Order, nil
}

// History lists the current user's past deliveries.
func (s *DeliveryService) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	sess := s.sessions.Session()
	if !sess.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	resp, err := s.client.Get(ctx, "/deliveries/history/"+sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	var data struct {
		Deliveries []domain.HistoryEntry `json:"deliveries"`
	}
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return data.Deliveries, nil
}

// Locations lists the current user's in-flight delivery locations.
func (s *DeliveryService) Locations(ctx context.Context) ([]domain.ActiveLocation, error) {
	sess := s.sessions.Session()
	if !sess.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	resp, err := s.client.Get(ctx, "/deliveries/locations/"+sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}

	var data struct {
		Locations []domain.ActiveLocation `json:"locations"`
	}
	if err := resp.DecodeJSON(&data); err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}
	return data.Locations, nil
}

var _ ports.DeliveryService = (*DeliveryService)(nil)
