package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hunterxpress/courier-cli/internal/core/ports"
)

// Forms are validated locally before any service call; a field problem never
// reaches the session or delivery services.

var formValidator = validator.New()

// LoginForm is the login screen's input.
type LoginForm struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
}

// SignUpForm is the role-conditional registration form: customer signups
// need addresses, courier signups need vehicle and payout details.
type SignUpForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=customer courier"`

	PickupAddress   string `validate:"required_if=Role customer"`
	DeliveryAddress string `validate:"required_if=Role customer"`

	VehicleModel  string `validate:"required_if=Role courier"`
	VehiclePlate  string `validate:"required_if=Role courier"`
	VehicleColor  string `validate:"required_if=Role courier"`
	PayoutMethod  string `validate:"required_if=Role courier"`
	BankName      string `validate:"required_if=Role courier"`
	AccountNumber string
	LicenseURI    string
	InsuranceURI  string
}

// Input converts the validated form into the service-layer shape.
func (f SignUpForm) Input() ports.SignUpInput {
	return ports.SignUpInput{
		Name:            f.Name,
		Email:           f.Email,
		Phone:           f.Phone,
		Password:        f.Password,
		Role:            f.Role,
		PickupAddress:   f.PickupAddress,
		DeliveryAddress: f.DeliveryAddress,
		VehicleModel:    f.VehicleModel,
		VehiclePlate:    f.VehiclePlate,
		VehicleColor:    f.VehicleColor,
		PayoutMethod:    f.PayoutMethod,
		BankName:        f.BankName,
		AccountNumber:   f.AccountNumber,
		LicenseURI:      f.LicenseURI,
		InsuranceURI:    f.InsuranceURI,
	}
}

// SendForm is the send-package screen's input.
type SendForm struct {
	PickupAddress  string  `validate:"required"`
	DropoffAddress string  `validate:"required"`
	Description    string  `validate:"required"`
	Price          float64 `validate:"required,gt=0"`
	DistanceKM     float64 `validate:"required,gt=0"`
}

// Input converts the validated form into the service-layer shape.
func (f SendForm) Input() ports.CreateOrderInput {
	return ports.CreateOrderInput{
		PickupAddress:  f.PickupAddress,
		DropoffAddress: f.DropoffAddress,
		Description:    f.Description,
		Price:          f.Price,
		DistanceKM:     f.DistanceKM,
	}
}

// ValidateForm checks a form struct and returns a single human-readable
// error listing every failing field.
func ValidateForm(form any) error {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldMessage(fe))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return err
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
