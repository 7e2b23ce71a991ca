package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sttmarket/backend/domain"
)

// EventPatch is a partial event update; nil fields are left untouched. A
// non-nil Attributes map replaces the whole map (shallow merge per field).
type EventPatch struct {
	VenueID     *int64
	Title       *string
	Description *string
	Category    *string
	Date        *string
	Price       *float64
	Status      *string
	Views       *int
	Bookings    *int
	Attributes  map[string]string
}

// AddVenue stamps ownership and moderation fields onto the supplied venue,
// appends it and persists the whole sequence. Venues are append-only on the
// merchant side. The mutex is held across the substrate write so concurrent
// mutators cannot land their snapshots out of order.
func (s *Store) AddVenue(ctx context.Context, venue domain.Venue) (*domain.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merchant == nil {
		return nil, domain.ErrNoActiveSession
	}
	venue.ID = s.ids.Next()
	venue.MerchantID = s.merchant.ID
	venue.Status = domain.VenueStatusPending
	venue.CreatedAt = time.Now().UTC()
	s.venues = append(s.venues, venue)

	if err := s.persist(ctx, KeyVenues, s.venues); err != nil {
		return nil, err
	}

	s.logger.Info("venue added", zap.Int64("venue_id", venue.ID), zap.Int64("merchant_id", venue.MerchantID))
	return &venue, nil
}

// AddEvent stamps ownership and lifecycle fields onto the supplied event,
// appends it and persists the whole sequence.
func (s *Store) AddEvent(ctx context.Context, event domain.Event) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merchant == nil {
		return nil, domain.ErrNoActiveSession
	}
	event.ID = s.ids.Next()
	event.MerchantID = s.merchant.ID
	event.Status = domain.EventStatusDraft
	event.Views = 0
	event.Bookings = 0
	event.CreatedAt = time.Now().UTC()
	s.events = append(s.events, event)

	if err := s.persist(ctx, KeyEvents, s.events); err != nil {
		return nil, err
	}

	s.logger.Info("event added", zap.Int64("event_id", event.ID), zap.Int64("merchant_id", event.MerchantID))
	return &event, nil
}

// UpdateEvent shallow-merges the patch into the matching event in place,
// preserving order. An unknown id is a silent no-op; the sequence is
// persisted either way.
func (s *Store) UpdateEvent(ctx context.Context, eventID int64, patch EventPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merchant == nil {
		return domain.ErrNoActiveSession
	}
	for i := range s.events {
		if s.events[i].ID != eventID {
			continue
		}
		applyEventPatch(&s.events[i], patch)
		break
	}
	return s.persist(ctx, KeyEvents, s.events)
}

// CloneEvent duplicates the matching event with a fresh id and timestamp, a
// "(Copy)" title, draft status and zeroed counters. An unknown id returns nil
// without mutating anything.
func (s *Store) CloneEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merchant == nil {
		return nil, domain.ErrNoActiveSession
	}

	var source *domain.Event
	for i := range s.events {
		if s.events[i].ID == eventID {
			source = &s.events[i]
			break
		}
	}
	if source == nil {
		return nil, nil
	}

	clone := source.Clone()
	clone.ID = s.ids.Next()
	clone.CreatedAt = time.Now().UTC()
	s.events = append(s.events, clone)

	if err := s.persist(ctx, KeyEvents, s.events); err != nil {
		return nil, err
	}

	s.logger.Info("event cloned", zap.Int64("source_id", eventID), zap.Int64("clone_id", clone.ID))
	return &clone, nil
}

// DeleteEvent removes the matching event and persists the result. An unknown
// id is a no-op, and deleting twice is the same as deleting once.
func (s *Store) DeleteEvent(ctx context.Context, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.merchant == nil {
		return domain.ErrNoActiveSession
	}
	filtered := make([]domain.Event, 0, len(s.events))
	for _, event := range s.events {
		if event.ID != eventID {
			filtered = append(filtered, event)
		}
	}
	s.events = filtered
	return s.persist(ctx, KeyEvents, s.events)
}

func applyEventPatch(event *domain.Event, patch EventPatch) {
	if patch.VenueID != nil {
		event.VenueID = *patch.VenueID
	}
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.Price != nil {
		event.Price = *patch.Price
	}
	if patch.Status != nil {
		event.Status = *patch.Status
	}
	if patch.Views != nil {
		event.Views = *patch.Views
	}
	if patch.Bookings != nil {
		event.Bookings = *patch.Bookings
	}
	if patch.Attributes != nil {
		event.Attributes = patch.Attributes
	}
}
