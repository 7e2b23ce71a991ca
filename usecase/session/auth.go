package session

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/sttmarket/backend/domain"
)

const minPasswordLength = 6

// Summary figures handed to returning merchants. There is no credential store
// behind the login path; these stand in for account history.
const (
	mockTotalRevenue  = 45230
	mockTotalBookings = 128
	mockTotalEvents   = 12
	mockRating        = 4.7
)

// RegisterInput carries the onboarding form fields. Venue is attached to the
// session record as supplied.
type RegisterInput struct {
	BusinessName string
	Email        string
	Phone        string
	Password     string
	Venue        *domain.VenueDetails
}

// MerchantPatch is a partial session update; nil fields are left untouched.
type MerchantPatch struct {
	BusinessName     *string
	Email            *string
	Phone            *string
	SubscriptionType *string
	Venue            *domain.VenueDetails
}

// Register creates a fresh pending-approval session and persists it. It does
// not rehydrate collections: a new registrant starts from whatever is already
// in memory. Validation failures leave all state untouched.
func (s *Store) Register(ctx context.Context, input RegisterInput) (*domain.Merchant, error) {
	if input.BusinessName == "" || input.Email == "" || input.Phone == "" || len(input.Password) < minPasswordLength {
		return nil, domain.ErrMissingFields
	}

	merchant := &domain.Merchant{
		ID:               s.ids.Next(),
		Email:            input.Email,
		BusinessName:     input.BusinessName,
		Phone:            input.Phone,
		JoinedDate:       time.Now().Format("January 2006"),
		Status:           domain.MerchantStatusPending,
		Role:             domain.RoleMerchant,
		SubscriptionType: "Free",
		Venue:            input.Venue,
	}

	s.mu.Lock()
	s.merchant = merchant
	err := s.persist(ctx, KeyMerchant, merchant)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("merchant registered",
		zap.Int64("merchant_id", merchant.ID),
		zap.String("business_name", merchant.BusinessName))
	return s.Merchant(), nil
}

// Login activates an approved session for the given email and rehydrates the
// owned collections. Any password of sufficient length is accepted; the
// check is a stand-in, not authentication.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.Merchant, error) {
	if email == "" || len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	merchant := &domain.Merchant{
		ID:               s.ids.Next(),
		Email:            email,
		BusinessName:     businessNameFromEmail(email),
		JoinedDate:       time.Now().Format("January 2006"),
		Status:           domain.MerchantStatusApproved,
		Role:             domain.RoleMerchant,
		SubscriptionType: "Premium",
		TotalRevenue:     mockTotalRevenue,
		TotalBookings:    mockTotalBookings,
		TotalEvents:      mockTotalEvents,
		Rating:           mockRating,
	}

	s.mu.Lock()
	s.merchant = merchant
	err := s.persist(ctx, KeyMerchant, merchant)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.rehydrateCollections(ctx)

	s.logger.Info("merchant logged in", zap.Int64("merchant_id", merchant.ID))
	return s.Merchant(), nil
}

// Logout clears the active session and the in-memory collections, and removes
// the session key from the substrate. The three collection keys are left in
// place: the next login rehydrates whatever was last persisted under them.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merchant = nil
	s.venues = []domain.Venue{}
	s.events = []domain.Event{}
	s.bookings = []domain.Booking{}
	return s.kv.Delete(ctx, KeyMerchant)
}

// UpdateMerchant shallow-merges the patch into the active session and
// persists the result. Calling without an active session is an error.
func (s *Store) UpdateMerchant(ctx context.Context, patch MerchantPatch) (*domain.Merchant, error) {
	s.mu.Lock()
	if s.merchant == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoActiveSession
	}
	if patch.BusinessName != nil {
		s.merchant.BusinessName = *patch.BusinessName
	}
	if patch.Email != nil {
		s.merchant.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.merchant.Phone = *patch.Phone
	}
	if patch.SubscriptionType != nil {
		s.merchant.SubscriptionType = *patch.SubscriptionType
	}
	if patch.Venue != nil {
		s.merchant.Venue = patch.Venue
	}

	if err := s.persist(ctx, KeyMerchant, s.merchant); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	merchant := *s.merchant
	if s.merchant.Venue != nil {
		venue := *s.merchant.Venue
		merchant.Venue = &venue
	}
	s.mu.Unlock()
	return &merchant, nil
}

// businessNameFromEmail derives a display name from the local part of the
// email: letters-only words, title-cased, with a " Restaurant" suffix.
func businessNameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}

	words := strings.FieldsFunc(local, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(append(words, "Restaurant"), " ")
}
