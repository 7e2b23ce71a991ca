package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/repository"
)

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a Postgres-backed implementation of CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) repository.CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) ListVenues(ctx context.Context, filter repository.CatalogFilter) ([]domain.Venue, error) {
	const query = `
	SELECT id, merchant_id, name, area, cuisine, capacity, description, status, attributes, created_at
	FROM catalog_venues
	WHERE ($1 = '' OR status = $1)
	  AND ($2 = '' OR area = $2)
	  AND ($3 = '' OR cuisine = $3)
	  AND ($4 = '' OR name ILIKE '%' || $4 || '%' OR description ILIKE '%' || $4 || '%')
	ORDER BY created_at DESC
	LIMIT $5 OFFSET $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.Status,
		filter.Area,
		filter.Cuisine,
		filter.Query,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *venue)
	}
	return venues, rows.Err()
}

func (r *catalogRepository) ListEvents(ctx context.Context, filter repository.CatalogFilter) ([]domain.Event, error) {
	const query = `
	SELECT id, merchant_id, venue_id, title, description, category, event_date, price, status, views, bookings, attributes, created_at
	FROM catalog_events
	WHERE ($1 = '' OR status = $1)
	  AND ($2 = '' OR category = $2)
	  AND ($3 = '' OR title ILIKE '%' || $3 || '%' OR description ILIKE '%' || $3 || '%')
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.Status,
		filter.Category,
		filter.Query,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *catalogRepository) UpsertVenue(ctx context.Context, venue *domain.Venue) error {
	if venue == nil {
		return domain.ErrInvalidPayload
	}

	// Status is deliberately absent from the update set: moderation decisions
	// made through SetVenueStatus must survive the next merchant sync.
	const query = `
	INSERT INTO catalog_venues (id, merchant_id, name, area, cuisine, capacity, description, status, attributes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()))
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		area = EXCLUDED.area,
		cuisine = EXCLUDED.cuisine,
		capacity = EXCLUDED.capacity,
		description = EXCLUDED.description,
		attributes = EXCLUDED.attributes,
		updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		venue.ID,
		venue.MerchantID,
		venue.Name,
		venue.Area,
		venue.Cuisine,
		venue.Capacity,
		venue.Description,
		venue.Status,
		marshalMap(venue.Attributes),
		nullTime(venue.CreatedAt),
	)
	return err
}

func (r *catalogRepository) UpsertEvent(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO catalog_events (id, merchant_id, venue_id, title, description, category, event_date, price, status, views, bookings, attributes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, NOW()))
	ON CONFLICT (id) DO UPDATE
	SET venue_id = EXCLUDED.venue_id,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		category = EXCLUDED.category,
		event_date = EXCLUDED.event_date,
		price = EXCLUDED.price,
		status = EXCLUDED.status,
		views = EXCLUDED.views,
		bookings = EXCLUDED.bookings,
		attributes = EXCLUDED.attributes,
		updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.MerchantID,
		event.VenueID,
		event.Title,
		event.Description,
		event.Category,
		event.Date,
		event.Price,
		event.Status,
		event.Views,
		event.Bookings,
		marshalMap(event.Attributes),
		nullTime(event.CreatedAt),
	)
	return err
}

func (r *catalogRepository) SetVenueStatus(ctx context.Context, id int64, status string) error {
	const query = `
	UPDATE catalog_venues
	SET status = $2, updated_at = NOW()
	WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVenueNotFound
	}
	return nil
}

func scanVenue(row pgx.Row) (*domain.Venue, error) {
	var venue domain.Venue
	var attributes []byte

	if err := row.Scan(
		&venue.ID,
		&venue.MerchantID,
		&venue.Name,
		&venue.Area,
		&venue.Cuisine,
		&venue.Capacity,
		&venue.Description,
		&venue.Status,
		&attributes,
		&venue.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(attributes) > 0 {
		_ = json.Unmarshal(attributes, &venue.Attributes)
	}
	return &venue, nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	var attributes []byte

	if err := row.Scan(
		&event.ID,
		&event.MerchantID,
		&event.VenueID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.Date,
		&event.Price,
		&event.Status,
		&event.Views,
		&event.Bookings,
		&attributes,
		&event.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(attributes) > 0 {
		_ = json.Unmarshal(attributes, &event.Attributes)
	}
	return &event, nil
}
