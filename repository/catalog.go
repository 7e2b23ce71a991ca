package repository

import (
	"context"

	"github.com/sttmarket/backend/domain"
)

// CatalogFilter narrows public browse queries. Query matches against names,
// titles and descriptions.
type CatalogFilter struct {
	Status   string
	Area     string
	Cuisine  string
	Category string
	Query    string
	Limit    int
	Offset   int
}

// CatalogRepository is the platform-wide read model fed by merchant
// submissions. Upserts never overwrite a moderation decision: venue status is
// only changed through SetVenueStatus.
type CatalogRepository interface {
	ListVenues(ctx context.Context, filter CatalogFilter) ([]domain.Venue, error)
	ListEvents(ctx context.Context, filter CatalogFilter) ([]domain.Event, error)
	UpsertVenue(ctx context.Context, venue *domain.Venue) error
	UpsertEvent(ctx context.Context, event *domain.Event) error
	SetVenueStatus(ctx context.Context, id int64, status string) error
}
