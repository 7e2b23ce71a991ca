package domain

import "time"

// Booking is a guest reservation against a merchant's venue or event. The
// merchant surface treats bookings as read-only: the collection is populated
// by rehydration from storage and never mutated by the session store.
type Booking struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	MerchantID int64     `json:"merchant_id"`
	EventID    int64     `json:"event_id,omitempty"`
	VenueID    int64     `json:"venue_id,omitempty"`
	GuestName  string    `json:"guest_name"`
	GuestCount int       `json:"guest_count"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	Date       string    `json:"date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
