package domain

const (
	RoleCustomer = "customer"
	RoleCourier  = "courier"
)

// User models the authenticated actor as returned by the backend.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

// ValidRole reports whether role is one of the roles the backend assigns.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleCourier
}

// DisplayLabel maps a role to the label shown in the profile header.
func DisplayLabel(role string) string {
	if role == RoleCourier {
		return "Courier"
	}
	return "User"
}
