package domain

// Merchant statuses reachable through the onboarding flow.
const (
	MerchantStatusPending  = "Pending Approval"
	MerchantStatusApproved = "Approved"
)

// Roles carried in access tokens. The session itself does not grant a role;
// the token issuer assigns one when the session is created.
const (
	RoleMerchant   = "merchant"
	RoleSuperAdmin = "super_admin"
)

// Merchant represents the authenticated merchant session. Exactly one merchant
// session is active per store instance.
type Merchant struct {
	ID               int64         `json:"id"`
	Email            string        `json:"email"`
	BusinessName     string        `json:"business_name"`
	Phone            string        `json:"phone,omitempty"`
	JoinedDate       string        `json:"joined_date"`
	Status           string        `json:"status"`
	Role             string        `json:"role,omitempty"`
	SubscriptionType string        `json:"subscription_type"`
	TotalRevenue     float64       `json:"total_revenue"`
	TotalBookings    int           `json:"total_bookings"`
	TotalEvents      int           `json:"total_events"`
	Rating           float64       `json:"rating"`
	Venue            *VenueDetails `json:"venue,omitempty"`
}

// VenueDetails captures the venue information supplied during onboarding.
// It is attached to the merchant record as-is and never validated.
type VenueDetails struct {
	Name     string `json:"name,omitempty"`
	Area     string `json:"area,omitempty"`
	Cuisine  string `json:"cuisine,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

func (m *Merchant) IsApproved() bool {
	return m != nil && m.Status == MerchantStatusApproved
}
