package stubapi

import "github.com/hunterxpress/courier-cli/internal/core/domain"

// successResponse is the backend's envelope on every endpoint: a success
// flag plus an optional human-readable message, with endpoint-specific
// payload fields alongside.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=customer courier"`

	// Customer fields.
	PickupAddress   string `json:"pickupAddress,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`

	// Courier fields.
	VehicleModel  string `json:"vehicleModel,omitempty"`
	VehiclePlate  string `json:"vehiclePlate,omitempty"`
	VehicleColor  string `json:"vehicleColor,omitempty"`
	PayoutMethod  string `json:"payoutMethod,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	LicenseURI    string `json:"licenseUri,omitempty"`
	InsuranceURI  string `json:"insuranceUri,omitempty"`
}

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" validate:"required"`
	Password     string `json:"password"     validate:"required"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type createDeliveryRequest struct {
	PickupAddress  string  `json:"pickup_address"  validate:"required"`
	DropoffAddress string  `json:"dropoff_address" validate:"required"`
	PackageDetails string  `json:"package_details" validate:"required"`
	Price          float64 `json:"price"           validate:"required,gt=0"`
	DistanceKM     float64 `json:"distance_km"     validate:"required,gt=0"`
}

type createDeliveryResponse struct {
	Success bool          `json:"success"`
	Order   *domain.Order `json:"order"`
}

type historyResponse struct {
	Deliveries []domain.HistoryEntry `json:"deliveries"`
}

type locationsResponse struct {
	Locations []domain.ActiveLocation `json:"locations"`
}
