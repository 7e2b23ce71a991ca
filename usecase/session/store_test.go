package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/pkg/ident"
	"github.com/sttmarket/backend/repository/memory"
)

func newTestStore() (*Store, *memory.Store) {
	kv := memory.New()
	return New(kv, ident.New(), zap.NewNop()), kv
}

func mustLogin(t *testing.T, s *Store) *domain.Merchant {
	t.Helper()
	merchant, err := s.Login(context.Background(), "john.doe@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, merchant)
	return merchant
}

func TestLoadingClearsAfterInitialize(t *testing.T) {
	s, _ := newTestStore()
	assert.True(t, s.Loading())

	require.NoError(t, s.Initialize(context.Background()))
	assert.False(t, s.Loading())
	assert.False(t, s.IsMerchantAuthenticated())
	assert.Empty(t, s.Venues())
	assert.Empty(t, s.Events())
	assert.Empty(t, s.Bookings())
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"missing business name", RegisterInput{Email: "a@b.com", Phone: "+971", Password: "secret1"}},
		{"missing email", RegisterInput{BusinessName: "Acme", Phone: "+971", Password: "secret1"}},
		{"missing phone", RegisterInput{BusinessName: "Acme", Email: "a@b.com", Password: "secret1"}},
		{"short password", RegisterInput{BusinessName: "Acme", Email: "a@b.com", Phone: "+971", Password: "12345"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, kv := newTestStore()
			require.NoError(t, s.Initialize(context.Background()))

			_, err := s.Register(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrMissingFields)
			assert.Equal(t, "Please fill all required fields", err.Error())
			assert.False(t, s.IsMerchantAuthenticated())
			assert.Empty(t, kv.Keys(), "no partial state may be written")
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))

	merchant, err := s.Register(context.Background(), RegisterInput{
		BusinessName: "Acme Diner",
		Email:        "a@acme.com",
		Phone:        "+1000",
		Password:     "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MerchantStatusPending, merchant.Status)
	assert.Equal(t, "Acme Diner", merchant.BusinessName)
	assert.Equal(t, "Free", merchant.SubscriptionType)
	assert.Zero(t, merchant.TotalRevenue)
	assert.Zero(t, merchant.TotalBookings)
	assert.Zero(t, merchant.TotalEvents)
	assert.Zero(t, merchant.Rating)
	assert.NotZero(t, merchant.ID)
	assert.NotEmpty(t, merchant.JoinedDate)
	assert.True(t, s.IsMerchantAuthenticated())
}

func TestRegisterAttachesVenueDetails(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))

	merchant, err := s.Register(context.Background(), RegisterInput{
		BusinessName: "Acme Diner",
		Email:        "a@acme.com",
		Phone:        "+1000",
		Password:     "secret1",
		Venue:        &domain.VenueDetails{Name: "Acme Marina", Area: "Dubai Marina", Cuisine: "Levantine"},
	})
	require.NoError(t, err)
	require.NotNil(t, merchant.Venue)
	assert.Equal(t, "Acme Marina", merchant.Venue.Name)
	assert.Equal(t, "Dubai Marina", merchant.Venue.Area)
}

func TestLoginValidation(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))

	_, err := s.Login(context.Background(), "", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "a@b.com", "12345")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, s.IsMerchantAuthenticated())
}

func TestLoginDerivesBusinessName(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))

	merchant := mustLogin(t, s)
	assert.Equal(t, "John Doe Restaurant", merchant.BusinessName)
	assert.Equal(t, domain.MerchantStatusApproved, merchant.Status)
	assert.NotZero(t, merchant.TotalRevenue)
	assert.NotZero(t, merchant.TotalBookings)
}

func TestBusinessNameFromEmail(t *testing.T) {
	cases := map[string]string{
		"john.doe@example.com": "John Doe Restaurant",
		"MARY_JANE@corp.ae":    "Mary Jane Restaurant",
		"chef99@kitchen.io":    "Chef Restaurant",
		"42@numbers.com":       "Restaurant",
	}
	for email, want := range cases {
		assert.Equal(t, want, businessNameFromEmail(email), email)
	}
}

func TestAuthGate(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	assert.False(t, s.IsMerchantAuthenticated())

	mustLogin(t, s)
	assert.True(t, s.IsMerchantAuthenticated())
	assert.NotNil(t, s.Merchant())

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, s.IsMerchantAuthenticated())
	assert.Nil(t, s.Merchant())
	assert.Empty(t, s.Venues())
	assert.Empty(t, s.Events())
	assert.Empty(t, s.Bookings())
}

func TestSessionRoundTripsThroughSubstrate(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	want := mustLogin(t, s)

	// A fresh store over the same substrate reproduces the session without
	// another login.
	restored := New(kv, ident.New(), zap.NewNop())
	require.NoError(t, restored.Initialize(context.Background()))

	got := restored.Merchant()
	require.NotNil(t, got)
	assert.Equal(t, *want, *got)
	assert.True(t, restored.IsMerchantAuthenticated())
}

func TestCollectionsRoundTripThroughSubstrate(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	venue, err := s.AddVenue(context.Background(), domain.Venue{Name: "Marina Terrace", Area: "Dubai Marina"})
	require.NoError(t, err)
	event, err := s.AddEvent(context.Background(), domain.Event{Title: "Friday Brunch"})
	require.NoError(t, err)

	restored := New(kv, ident.New(), zap.NewNop())
	require.NoError(t, restored.Initialize(context.Background()))

	venues := restored.Venues()
	require.Len(t, venues, 1)
	assert.Equal(t, venue.ID, venues[0].ID)

	events := restored.Events()
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
}

func TestCorruptSessionRecordIsTreatedAsAbsent(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, kv.Set(context.Background(), KeyMerchant, []byte("{not json")))

	require.NoError(t, s.Initialize(context.Background()))
	assert.False(t, s.Loading())
	assert.False(t, s.IsMerchantAuthenticated())
}

func TestCorruptCollectionDefaultsToEmpty(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)
	_, err := s.AddEvent(context.Background(), domain.Event{Title: "Brunch"})
	require.NoError(t, err)

	require.NoError(t, kv.Set(context.Background(), KeyEvents, []byte("]][[")))
	require.NoError(t, kv.Set(context.Background(), KeyBookings, []byte(`[{"id":7,"guest_name":"Sara"}]`)))

	restored := New(kv, ident.New(), zap.NewNop())
	require.NoError(t, restored.Initialize(context.Background()))

	assert.Empty(t, restored.Events())
	require.Len(t, restored.Bookings(), 1)
	assert.Equal(t, "Sara", restored.Bookings()[0].GuestName)
}

func TestLogoutLeavesCollectionKeysBehind(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	_, err := s.AddVenue(context.Background(), domain.Venue{Name: "Marina Terrace"})
	require.NoError(t, err)
	_, err = s.AddEvent(context.Background(), domain.Event{Title: "Brunch"})
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))

	_, err = kv.Get(context.Background(), KeyMerchant)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	// Known data-bleed: collection keys survive logout, and the next login
	// (for any account) rehydrates them.
	_, err = kv.Get(context.Background(), KeyVenues)
	assert.NoError(t, err)
	_, err = kv.Get(context.Background(), KeyEvents)
	assert.NoError(t, err)

	mustLogin(t, s)
	assert.Len(t, s.Venues(), 1)
	assert.Len(t, s.Events(), 1)
}

func TestAddVenueStampsOwnership(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	merchant := mustLogin(t, s)

	venue, err := s.AddVenue(context.Background(), domain.Venue{
		Name:    "Marina Terrace",
		Cuisine: "Levantine",
		Status:  "Approved", // caller-supplied status must be overridden
	})
	require.NoError(t, err)

	assert.Equal(t, merchant.ID, venue.MerchantID)
	assert.Equal(t, domain.VenueStatusPending, venue.Status)
	assert.NotZero(t, venue.ID)
	assert.False(t, venue.CreatedAt.IsZero())
}

func TestAddEventStampsDefaults(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	merchant := mustLogin(t, s)

	event, err := s.AddEvent(context.Background(), domain.Event{
		Title:    "Friday Brunch",
		Status:   "Published",
		Views:    99,
		Bookings: 42,
	})
	require.NoError(t, err)

	assert.Equal(t, merchant.ID, event.MerchantID)
	assert.Equal(t, domain.EventStatusDraft, event.Status)
	assert.Zero(t, event.Views)
	assert.Zero(t, event.Bookings)
	assert.NotZero(t, event.ID)
}

func TestUpdateEventMergesAndPreservesOrder(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	first, err := s.AddEvent(context.Background(), domain.Event{Title: "First"})
	require.NoError(t, err)
	second, err := s.AddEvent(context.Background(), domain.Event{Title: "Second", Price: 150})
	require.NoError(t, err)

	title := "Second Edition"
	status := domain.EventStatusPublished
	require.NoError(t, s.UpdateEvent(context.Background(), second.ID, EventPatch{Title: &title, Status: &status}))

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].ID)
	assert.Equal(t, "Second Edition", events[1].Title)
	assert.Equal(t, domain.EventStatusPublished, events[1].Status)
	assert.Equal(t, 150.0, events[1].Price, "unpatched fields keep their values")
}

func TestUpdateEventUnknownIDIsNoOp(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	event, err := s.AddEvent(context.Background(), domain.Event{Title: "Brunch"})
	require.NoError(t, err)

	title := "Changed"
	require.NoError(t, s.UpdateEvent(context.Background(), event.ID+1, EventPatch{Title: &title}))

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Brunch", events[0].Title)

	// The unchanged sequence is still written back.
	raw, err := kv.Get(context.Background(), KeyEvents)
	require.NoError(t, err)
	var persisted []domain.Event
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Len(t, persisted, 1)
}

func TestCloneEventFidelity(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	source, err := s.AddEvent(context.Background(), domain.Event{
		Title:       "Brunch",
		Category:    "Dining",
		Price:       250,
		Description: "Bottomless",
		Attributes:  map[string]string{"dress_code": "smart casual"},
	})
	require.NoError(t, err)

	published := domain.EventStatusPublished
	views := 10
	require.NoError(t, s.UpdateEvent(context.Background(), source.ID, EventPatch{Status: &published, Views: &views}))

	clone, err := s.CloneEvent(context.Background(), source.ID)
	require.NoError(t, err)
	require.NotNil(t, clone)

	assert.NotEqual(t, source.ID, clone.ID)
	assert.Equal(t, "Brunch (Copy)", clone.Title)
	assert.Equal(t, domain.EventStatusDraft, clone.Status)
	assert.Zero(t, clone.Views)
	assert.Zero(t, clone.Bookings)
	assert.Equal(t, source.Category, clone.Category)
	assert.Equal(t, source.Price, clone.Price)
	assert.Equal(t, source.Description, clone.Description)
	assert.Equal(t, source.Attributes, clone.Attributes)
	assert.Len(t, s.Events(), 2)
}

func TestCloneEventUnknownIDReturnsNothing(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	clone, err := s.CloneEvent(context.Background(), 12345)
	assert.NoError(t, err)
	assert.Nil(t, clone)
	assert.Empty(t, s.Events())
}

func TestDeleteEventIsIdempotent(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	event, err := s.AddEvent(context.Background(), domain.Event{Title: "Brunch"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEvent(context.Background(), event.ID+1))
	assert.Len(t, s.Events(), 1)

	require.NoError(t, s.DeleteEvent(context.Background(), event.ID))
	assert.Empty(t, s.Events())

	require.NoError(t, s.DeleteEvent(context.Background(), event.ID))
	assert.Empty(t, s.Events())
}

func TestEventLifecycle(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	event, err := s.AddEvent(context.Background(), domain.Event{Title: "X"})
	require.NoError(t, err)

	status := domain.EventStatusPublished
	require.NoError(t, s.UpdateEvent(context.Background(), event.ID, EventPatch{Status: &status}))
	require.NoError(t, s.DeleteEvent(context.Background(), event.ID))

	assert.Empty(t, s.Events())
}

func TestUpdateMerchant(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	name := "Renamed Restaurant"
	subscription := "Enterprise"
	merchant, err := s.UpdateMerchant(context.Background(), MerchantPatch{
		BusinessName:     &name,
		SubscriptionType: &subscription,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Restaurant", merchant.BusinessName)
	assert.Equal(t, "Enterprise", merchant.SubscriptionType)
	assert.Equal(t, "john.doe@example.com", merchant.Email, "unpatched fields survive")

	raw, err := kv.Get(context.Background(), KeyMerchant)
	require.NoError(t, err)
	var persisted domain.Merchant
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, "Renamed Restaurant", persisted.BusinessName)
}

func TestMutatorsRequireActiveSession(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))
	ctx := context.Background()

	_, err := s.UpdateMerchant(ctx, MerchantPatch{})
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	_, err = s.AddVenue(ctx, domain.Venue{Name: "Marina Terrace"})
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	_, err = s.AddEvent(ctx, domain.Event{Title: "Brunch"})
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)

	assert.ErrorIs(t, s.UpdateEvent(ctx, 1, EventPatch{}), domain.ErrNoActiveSession)
	assert.ErrorIs(t, s.DeleteEvent(ctx, 1), domain.ErrNoActiveSession)

	_, err = s.CloneEvent(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNoActiveSession)
}

// gatedKV stalls the first write to the events key until released, so a
// second mutator can race the first one's substrate write.
type gatedKV struct {
	*memory.Store
	mu      sync.Mutex
	entered chan struct{}
	release chan struct{}
	gated   bool
}

func newGatedKV() *gatedKV {
	return &gatedKV{
		Store:   memory.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedKV) Set(ctx context.Context, key string, value []byte) error {
	if key == KeyEvents {
		g.mu.Lock()
		first := !g.gated
		g.gated = true
		g.mu.Unlock()
		if first {
			close(g.entered)
			<-g.release
		}
	}
	return g.Store.Set(ctx, key, value)
}

func TestConcurrentMutatorsPersistInOrder(t *testing.T) {
	kv := newGatedKV()
	s := New(kv, ident.New(), zap.NewNop())
	require.NoError(t, s.Initialize(context.Background()))
	mustLogin(t, s)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := s.AddEvent(context.Background(), domain.Event{Title: "First"})
		assert.NoError(t, err)
	}()

	// Wait until the first mutator is stuck mid-write, then start a second
	// one and give it a chance to run before releasing the first.
	<-kv.entered
	go func() {
		defer wg.Done()
		_, err := s.AddEvent(context.Background(), domain.Event{Title: "Second"})
		assert.NoError(t, err)
	}()
	time.Sleep(100 * time.Millisecond)
	close(kv.release)
	wg.Wait()

	assert.Len(t, s.Events(), 2)

	restored := New(kv, ident.New(), zap.NewNop())
	require.NoError(t, restored.Initialize(context.Background()))
	assert.Len(t, restored.Events(), 2, "a restart must not lose a persisted event")
}

func TestRegisterDoesNotRehydrateCollections(t *testing.T) {
	s, kv := newTestStore()
	require.NoError(t, s.Initialize(context.Background()))

	// Leftovers from a previous account remain on the substrate.
	leftover, err := json.Marshal([]domain.Event{{ID: 1, Title: "Old"}})
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), KeyEvents, leftover))

	_, err = s.Register(context.Background(), RegisterInput{
		BusinessName: "Acme Diner",
		Email:        "a@acme.com",
		Phone:        "+1000",
		Password:     "secret1",
	})
	require.NoError(t, err)

	assert.Empty(t, s.Events(), "fresh registrants start without old data")
}
