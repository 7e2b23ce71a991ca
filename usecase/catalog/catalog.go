// Package catalog serves the public browse surface and the super-admin
// moderation workflow over the platform-wide read model.
package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/repository"
)

type UseCase struct {
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

func New(catalog repository.CatalogRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		catalog: catalog,
		logger:  logger,
	}
}

// BrowseVenues lists approved venues only, regardless of the caller's filter.
func (uc *UseCase) BrowseVenues(ctx context.Context, filter repository.CatalogFilter) ([]domain.Venue, error) {
	filter.Status = domain.VenueStatusApproved
	return uc.catalog.ListVenues(ctx, filter)
}

// BrowseEvents lists published events only.
func (uc *UseCase) BrowseEvents(ctx context.Context, filter repository.CatalogFilter) ([]domain.Event, error) {
	filter.Status = domain.EventStatusPublished
	return uc.catalog.ListEvents(ctx, filter)
}

// PendingVenues lists venues awaiting moderation.
func (uc *UseCase) PendingVenues(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	return uc.catalog.ListVenues(ctx, repository.CatalogFilter{
		Status: domain.VenueStatusPending,
		Limit:  limit,
		Offset: offset,
	})
}

// ApproveVenue makes a venue visible on the public surface.
func (uc *UseCase) ApproveVenue(ctx context.Context, id int64) error {
	if err := uc.catalog.SetVenueStatus(ctx, id, domain.VenueStatusApproved); err != nil {
		return err
	}
	uc.logger.Info("venue approved", zap.Int64("venue_id", id))
	return nil
}

// RejectVenue removes a venue from moderation without exposing it publicly.
func (uc *UseCase) RejectVenue(ctx context.Context, id int64) error {
	if err := uc.catalog.SetVenueStatus(ctx, id, domain.VenueStatusRejected); err != nil {
		return err
	}
	uc.logger.Info("venue rejected", zap.Int64("venue_id", id))
	return nil
}
