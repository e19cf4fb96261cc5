package domain

// DeliveryStatus represents the lifecycle state of a delivery order.
type DeliveryStatus string

const (
	StatusPending    DeliveryStatus = "pending"
	StatusInProgress DeliveryStatus = "in_progress"
	StatusCompleted  DeliveryStatus = "completed"
	StatusCancelled  DeliveryStatus = "cancelled"
)

// PackageDetails describes what is being sent. The backend accepts it as a
// JSON-encoded string inside the order payload but returns it as an object
// on the confirmation; both shapes map onto this struct.
type PackageDetails struct {
	Description string `json:"description"`
}

// Order is a delivery order as confirmed by the backend. The reference is
// what the payment step and tracking screens key on.
type Order struct {
	OrderReference string         `json:"order_reference"`
	PickupAddress  string         `json:"pickup_address"`
	DropoffAddress string         `json:"dropoff_address"`
	Package        PackageDetails `json:"package_details"`
	Price          float64        `json:"price"`
	DistanceKM     float64        `json:"distance_km"`
	Status         DeliveryStatus `json:"status,omitempty"`
}

// HistoryEntry is one line of the delivery history list.
type HistoryEntry struct {
	ID              string `json:"id"`
	Recipient       string `json:"recipient"`
	Status          string `json:"status"`
	DropOffLocation string `json:"dropOffLocation"`
	EstimatedTime   string `json:"estimatedTime,omitempty"`
	Date            string `json:"date,omitempty"`
}

// ActiveLocation is an in-flight pickup/drop-off point shown on the
// locations screen.
type ActiveLocation struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Address       string `json:"address"`
	EstimatedTime string `json:"estimatedTime,omitempty"`
	Status        string `json:"status"`
	OrderID       string `json:"orderId"`
}
