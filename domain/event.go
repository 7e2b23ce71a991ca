package domain

import "time"

// Event statuses controlled by the merchant.
const (
	EventStatusDraft     = "Draft"
	EventStatusPublished = "Published"
)

// CloneTitleSuffix is appended to the title of a duplicated event.
const CloneTitleSuffix = " (Copy)"

// Event is a bookable dining or entertainment event owned by a merchant.
type Event struct {
	ID          int64             `json:"id"`
	MerchantID  int64             `json:"merchant_id"`
	VenueID     int64             `json:"venue_id,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Date        string            `json:"date,omitempty"`
	Price       float64           `json:"price,omitempty"`
	Status      string            `json:"status"`
	Views       int               `json:"views"`
	Bookings    int               `json:"bookings"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Clone returns a copy of the event suitable for re-editing: callers must
// still assign a fresh ID and creation timestamp.
func (e Event) Clone() Event {
	dup := e
	dup.Title = e.Title + CloneTitleSuffix
	dup.Status = EventStatusDraft
	dup.Views = 0
	dup.Bookings = 0
	if e.Attributes != nil {
		dup.Attributes = make(map[string]string, len(e.Attributes))
		for k, v := range e.Attributes {
			dup.Attributes[k] = v
		}
	}
	return dup
}
