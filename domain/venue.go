package domain

import "time"

// Venue statuses. New venues always start pending; moderation happens in the
// platform catalog, not in the merchant's own copy.
const (
	VenueStatusPending  = "Pending Approval"
	VenueStatusApproved = "Approved"
	VenueStatusRejected = "Rejected"
)

// Venue is a dining location owned by a merchant. Merchants only ever append
// venues; there is no update or delete path on the merchant side.
type Venue struct {
	ID          int64             `json:"id"`
	MerchantID  int64             `json:"merchant_id"`
	Name        string            `json:"name"`
	Area        string            `json:"area,omitempty"`
	Cuisine     string            `json:"cuisine,omitempty"`
	Capacity    int               `json:"capacity,omitempty"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
