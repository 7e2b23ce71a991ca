package transport

// VenuePayload mirrors the venue fields a merchant can supply; ownership and
// moderation fields are stamped server-side.
type VenuePayload struct {
	Name        string            `json:"name"`
	Area        string            `json:"area"`
	Cuisine     string            `json:"cuisine"`
	Capacity    int               `json:"capacity"`
	Description string            `json:"description"`
	Attributes  map[string]string `json:"attributes"`
}

type RegisterRequest struct {
	BusinessName string             `json:"business_name"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	Password     string             `json:"password"`
	Venue        *VenueDetailsInput `json:"venue,omitempty"`
}

type VenueDetailsInput struct {
	Name     string `json:"name"`
	Area     string `json:"area"`
	Cuisine  string `json:"cuisine"`
	Capacity int    `json:"capacity"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MerchantUpdateRequest is a partial update; absent fields stay untouched.
type MerchantUpdateRequest struct {
	BusinessName     *string            `json:"business_name,omitempty"`
	Email            *string            `json:"email,omitempty"`
	Phone            *string            `json:"phone,omitempty"`
	SubscriptionType *string            `json:"subscription_type,omitempty"`
	Venue            *VenueDetailsInput `json:"venue,omitempty"`
}

type EventPayload struct {
	VenueID     int64             `json:"venue_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Date        string            `json:"date"`
	Price       float64           `json:"price"`
	Attributes  map[string]string `json:"attributes"`
}

// EventUpdateRequest is a partial update; absent fields stay untouched.
type EventUpdateRequest struct {
	VenueID     *int64            `json:"venue_id,omitempty"`
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Date        *string           `json:"date,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type VenueStatusRequest struct {
	Status string `json:"status"`
}
