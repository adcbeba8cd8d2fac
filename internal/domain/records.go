package domain

import (
	"errors"
	"time"
)

// Route status set at creation time by the import pipeline.
const RouteStatusActive = "active"

// Delivery status on first insert. Later transitions happen outside the
// import pipeline and never overwrite each other through the upsert.
const DeliveryStatusCreated = "created"

// Stop statuses a driver can move a pending stop into.
const (
	StopStatusPending   = "pending"
	StopStatusDelivered = "delivered"
	StopStatusFailed    = "failed"
)

// ErrStopNotFound is returned by stores when a stop id does not exist.
var ErrStopNotFound = errors.New("stop not found")

// ValidStopTransition reports whether status is a state a driver may set.
func ValidStopTransition(status string) bool {
	return status == StopStatusDelivered || status == StopStatusFailed
}

// Zone is reference data the pipeline matches shipment rows against.
// Keywords are stored lowercase; matching is substring-based.
type Zone struct {
	ID       string
	Name     string
	Keywords []string
}

// Represents one delivery route created for a single driver on a single date.
// ZoneID is empty in single-driver mode.
type RouteRecord struct {
	ID        string
	RouteDate time.Time
	ZoneID    string
	DriverID  string
	Status    string
}

// RouteSummary is a RouteRecord together with its current stop count,
// as served to the driver view.
type RouteSummary struct {
	RouteRecord
	StopCount int
}

// DeliveryMetadata is the bag of row fields persisted alongside a delivery
// for later display; Raw keeps the submitted row verbatim.
type DeliveryMetadata struct {
	Carrier      string            `json:"carrier,omitempty"`
	City         string            `json:"city,omitempty"`
	Neighborhood string            `json:"neighborhood,omitempty"`
	PostalCode   string            `json:"postal_code,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Raw          map[string]string `json:"raw,omitempty"`
	Source       string            `json:"source,omitempty"`
}

// Represents a shipment to a recipient, unique per tracking code.
// Re-imports of the same tracking code update the record in place.
type DeliveryRecord struct {
	ID            string
	TrackingCode  string
	RecipientName string
	Phone         string
	Address       string
	ZoneID        string
	Status        string
	Metadata      DeliveryMetadata
}

// StopMetadata carries the submitted row identifiers a stop was built from.
type StopMetadata struct {
	OrderID      string `json:"order_id,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ZoneHint     string `json:"zone_hint,omitempty"`
}

// Represents one delivery attempt within a route. Order is 1-based and
// contiguous within the owning route.
type StopRecord struct {
	ID         string
	RouteID    string
	DeliveryID string
	Order      int
	Title      string
	Address    string
	Phone      string
	Status     string
	Note       string
	Metadata   StopMetadata
}
