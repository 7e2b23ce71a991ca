// Package session owns the active merchant identity and the collections that
// belong to it. It is the single writer of the four fixed substrate keys and
// the capability surface every protected route depends on.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/pkg/ident"
	"github.com/sttmarket/backend/repository"
)

// Fixed substrate keys. No other component writes to these.
const (
	KeyMerchant = "stt_merchant"
	KeyVenues   = "stt_merchant_venues"
	KeyEvents   = "stt_merchant_events"
	KeyBookings = "stt_merchant_bookings"
)

// Store holds the active merchant session and its owned collections, backed
// by a key-value substrate. Mutators run under a single mutex held across the
// substrate write, so snapshots reach storage in mutation order and a slow
// write cannot be overtaken by a later one.
type Store struct {
	kv     repository.KVStore
	ids    *ident.Generator
	logger *zap.Logger

	mu       sync.RWMutex
	merchant *domain.Merchant
	venues   []domain.Venue
	events   []domain.Event
	bookings []domain.Booking
	loading  bool
}

// New builds a store in the loading state. Initialize must run before any
// consumer relies on the read model.
func New(kv repository.KVStore, ids *ident.Generator, logger *zap.Logger) *Store {
	if ids == nil {
		ids = ident.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		kv:       kv,
		ids:      ids,
		logger:   logger,
		venues:   []domain.Venue{},
		events:   []domain.Event{},
		bookings: []domain.Booking{},
		loading:  true,
	}
}

// Initialize rehydrates the session and, when one is found, its collections.
// Loading is cleared unconditionally, whether or not a session was present.
// A corrupt stored session is logged and treated as absence.
func (s *Store) Initialize(ctx context.Context) error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	raw, err := s.kv.Get(ctx, KeyMerchant)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil
		}
		return err
	}

	var merchant domain.Merchant
	if err := json.Unmarshal(raw, &merchant); err != nil {
		s.logger.Warn("discarding corrupt session record", zap.String("key", KeyMerchant), zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.merchant = &merchant
	s.mu.Unlock()

	s.rehydrateCollections(ctx)
	return nil
}

// Loading reports whether the initial rehydration pass is still running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsMerchantAuthenticated reports whether a session is active.
func (s *Store) IsMerchantAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.merchant != nil
}

// Merchant returns a copy of the active session, or nil.
func (s *Store) Merchant() *domain.Merchant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.merchant == nil {
		return nil
	}
	copied := *s.merchant
	if s.merchant.Venue != nil {
		venue := *s.merchant.Venue
		copied.Venue = &venue
	}
	return &copied
}

// Venues returns the owned venues in insertion order.
func (s *Store) Venues() []domain.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Venue{}, s.venues...)
}

// Events returns the owned events in insertion order.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Event{}, s.events...)
}

// Bookings returns the owned bookings. The collection is read-only: it is
// populated by rehydration and never mutated here.
func (s *Store) Bookings() []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Booking{}, s.bookings...)
}

// rehydrateCollections loads the three collection keys, defaulting each to an
// empty sequence when absent or unparseable.
func (s *Store) rehydrateCollections(ctx context.Context) {
	venues := loadCollection[domain.Venue](ctx, s, KeyVenues)
	events := loadCollection[domain.Event](ctx, s, KeyEvents)
	bookings := loadCollection[domain.Booking](ctx, s, KeyBookings)

	s.mu.Lock()
	s.venues = venues
	s.events = events
	s.bookings = bookings
	s.mu.Unlock()
}

func loadCollection[T any](ctx context.Context, s *Store, key string) []T {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.logger.Warn("collection read failed", zap.String("key", key), zap.Error(err))
		}
		return []T{}
	}

	var decoded []T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		s.logger.Warn("discarding corrupt collection", zap.String("key", key), zap.Error(err))
		return []T{}
	}
	if decoded == nil {
		return []T{}
	}
	return decoded
}

func (s *Store) persist(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, payload)
}
