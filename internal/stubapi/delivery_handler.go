package stubapi

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
)

type deliveryHandler struct {
	store *memoryStore
	log   zerolog.Logger
}

// Create places a delivery order. A replayed Idempotency-Key returns the
// previously created order without side effects.
//
// @Summary      Create a delivery order
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Param        body  body      createDeliveryRequest  true  "Order details"
// @Success      200   {object}  createDeliveryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /deliveries [post]
func (h *deliveryHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	}

	idemKey := c.Request().Header.Get("Idempotency-Key")
	if existing := h.store.orderByIdempotencyKey(idemKey); existing != nil {
		h.log.Info().Str("idempotency_key", idemKey).Str("order_reference", existing.OrderReference).Msg("idempotent replay")
		return c.JSON(http.StatusOK, createDeliveryResponse{Success: true, Order: existing})
	}

	// The client sends package details as a JSON-encoded string; the
	// confirmation returns them decoded.
	var details domain.PackageDetails
	if err := json.Unmarshal([]byte(req.PackageDetails), &details); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "package_details must be a JSON string"})
	}

	order := &domain.Order{
		OrderReference: generateOrderReference(),
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		Package:        details,
		Price:          req.Price,
		DistanceKM:     req.DistanceKM,
		Status:         domain.StatusPending,
	}
	h.store.saveOrder(userID, order, idemKey)

	h.log.Info().Str("order_reference", order.OrderReference).Str("user_id", userID).Msg("order created")
	return c.JSON(http.StatusOK, createDeliveryResponse{Success: true, Order: order})
}

// History lists a user's past deliveries.
//
// @Summary      Delivery history
// @Tags         deliveries
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  historyResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /deliveries/history/{userID} [get]
func (h *deliveryHandler) History(c echo.Context) error {
	userID, err := h.authorizedUser(c)
	if err != nil {
		return err
	}

	orders := h.store.ordersForUser(userID)
	entries := make([]domain.HistoryEntry, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, domain.HistoryEntry{
			ID:              o.OrderReference,
			Recipient:       o.Package.Description,
			Status:          string(o.Status),
			DropOffLocation: o.DropoffAddress,
		})
	}
	return c.JSON(http.StatusOK, historyResponse{Deliveries: entries})
}

// Locations lists a user's in-flight delivery locations.
//
// @Summary      Active delivery locations
// @Tags         deliveries
// @Produce      json
// @Param        userID  path      string  true  "User ID"
// @Success      200     {object}  locationsResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /deliveries/locations/{userID} [get]
func (h *deliveryHandler) Locations(c echo.Context) error {
	userID, err := h.authorizedUser(c)
	if err != nil {
		return err
	}

	orders := h.store.ordersForUser(userID)
	locations := make([]domain.ActiveLocation, 0, len(orders))
	for _, o := range orders {
		if o.Status == domain.StatusCompleted || o.Status == domain.StatusCancelled {
			continue
		}
		locations = append(locations, domain.ActiveLocation{
			ID:      o.OrderReference,
			Type:    "Drop off",
			Address: o.DropoffAddress,
			Status:  string(o.Status),
			OrderID: o.OrderReference,
		})
	}
	return c.JSON(http.StatusOK, locationsResponse{Locations: locations})
}

// authorizedUser checks that the path's user ID matches the token identity.
func (h *deliveryHandler) authorizedUser(c echo.Context) (string, error) {
	userID, err := ctxUserID(c)
	if err != nil {
		return "", err
	}
	if pathID := c.Param("userID"); pathID != userID {
		return "", echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return userID, nil
}

// generateOrderReference returns a reference in the format HX-XXXXXXXX.
func generateOrderReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("HX-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("HX-%08X", b)
}
