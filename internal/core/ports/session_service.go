package ports

import (
	"context"

	"github.com/hunterxpress/courier-cli/internal/core/domain"
)

// SignUpInput carries the role-shaped registration form. Customer and courier
// signups share the identity fields; the remaining fields are only populated
// for the role they belong to. Validation happens in the form layer before
// the service is called.
type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`

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

// AuthOutcome is the normalized result of a session-affecting call. A nil
// error with OK=false means the backend handled the request and rejected it;
// Message then carries the server-provided reason for display.
type AuthOutcome struct {
	OK      bool
	Message string
	User    *domain.User
	Token   string
}

// SessionService orchestrates sign-up, login, logout, and session
// restoration. It is the only component allowed to mutate the in-memory
// session and the persisted session keys.
type SessionService interface {
	// Restore loads a previously persisted session. It never fails the
	// caller; on any storage problem the session is simply left anonymous.
	Restore(ctx context.Context) domain.Session

	// Login authenticates and, on success, commits the session to memory and
	// storage as one logical unit. A non-nil error indicates a transport,
	// decode, or storage failure; a server rejection comes back as
	// AuthOutcome{OK: false}.
	Login(ctx context.Context, identifier, password string) (*AuthOutcome, error)

	// SignUp registers a new account. Registration does not authenticate:
	// on success only the chosen role is persisted, the user is expected to
	// log in afterwards.
	SignUp(ctx context.Context, input SignUpInput) (*AuthOutcome, error)

	// Logout clears memory and storage. Calling it while anonymous is a
	// no-op.
	Logout(ctx context.Context) error

	// SendOTP asks the backend to send a one-time password to phone.
	SendOTP(ctx context.Context, phone string) (*AuthOutcome, error)

	// Session returns a copy of the current session.
	Session() domain.Session
}
