package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HexHunters/Tickr-sub000/internal/domain"
)

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// eventColumns defines the columns to select for events
const eventColumns = `id, organizer_id, title,
	COALESCE(description, '') as description,
	category,
	COALESCE(address, '') as address,
	city, country, latitude, longitude,
	start_date, end_date,
	COALESCE(image_url, '') as image_url,
	status, sold_tickets, revenue_amount,
	COALESCE(revenue_currency, '') as revenue_currency,
	created_at, updated_at, published_at, cancelled_at,
	COALESCE(cancellation_reason, '') as cancellation_reason`

const ticketTypeColumns = `id, event_id, name,
	COALESCE(description, '') as description,
	price_amount, currency, quantity, sold_quantity,
	sales_start, sales_end, is_active, created_at, updated_at`

// Save persists the aggregate, its ticket types and the given outbox
// messages in one transaction. Ticket types removed from the aggregate are
// deleted; the rest are upserted.
func (r *PostgresEventRepository) Save(ctx context.Context, event *domain.Event, outbox []*domain.OutboxMessage) error {
	state := event.State()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO events (
			id, organizer_id, title, description, category,
			address, city, country, latitude, longitude,
			start_date, end_date, image_url, status,
			sold_tickets, revenue_amount, revenue_currency,
			created_at, updated_at, published_at, cancelled_at, cancellation_reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			image_url = EXCLUDED.image_url,
			status = EXCLUDED.status,
			sold_tickets = EXCLUDED.sold_tickets,
			revenue_amount = EXCLUDED.revenue_amount,
			revenue_currency = EXCLUDED.revenue_currency,
			updated_at = EXCLUDED.updated_at,
			published_at = EXCLUDED.published_at,
			cancelled_at = EXCLUDED.cancelled_at,
			cancellation_reason = EXCLUDED.cancellation_reason
	`
	_, err = tx.Exec(ctx, query,
		state.ID, state.OrganizerID, state.Title, state.Description, string(state.Category),
		state.Address, state.City, state.Country, state.Latitude, state.Longitude,
		state.StartDate, state.EndDate, state.ImageURL, string(state.Status),
		state.SoldTickets, state.RevenueAmount, string(state.RevenueCurrency),
		state.CreatedAt, state.UpdatedAt, state.PublishedAt, state.CancelledAt, state.CancellationReason,
	)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}

	if err := r.saveTicketTypes(ctx, tx, state); err != nil {
		return err
	}

	for _, msg := range outbox {
		if err := createOutboxMessageTx(ctx, tx, msg); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) saveTicketTypes(ctx context.Context, tx pgx.Tx, state domain.EventState) error {
	keep := make([]string, 0, len(state.TicketTypes))
	for _, ts := range state.TicketTypes {
		keep = append(keep, ts.ID)
	}

	// Drop ticket types the aggregate no longer owns.
	if len(keep) == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM ticket_types WHERE event_id = $1`, state.ID); err != nil {
			return fmt.Errorf("failed to delete ticket types: %w", err)
		}
	} else {
		if _, err := tx.Exec(ctx,
			`DELETE FROM ticket_types WHERE event_id = $1 AND id != ALL($2)`,
			state.ID, keep,
		); err != nil {
			return fmt.Errorf("failed to delete removed ticket types: %w", err)
		}
	}

	query := `
		INSERT INTO ticket_types (
			id, event_id, name, description, price_amount, currency,
			quantity, sold_quantity, sales_start, sales_end,
			is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price_amount = EXCLUDED.price_amount,
			currency = EXCLUDED.currency,
			quantity = EXCLUDED.quantity,
			sold_quantity = EXCLUDED.sold_quantity,
			sales_start = EXCLUDED.sales_start,
			sales_end = EXCLUDED.sales_end,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`
	for _, ts := range state.TicketTypes {
		_, err := tx.Exec(ctx, query,
			ts.ID, ts.EventID, ts.Name, ts.Description, ts.PriceAmount, string(ts.Currency),
			ts.Quantity, ts.SoldQuantity, ts.SalesStart, ts.SalesEnd,
			ts.IsActive, ts.CreatedAt, ts.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save ticket type %s: %w", ts.ID, err)
		}
	}
	return nil
}

// FindByID retrieves an event with its ticket types. Returns (nil, nil) when
// the event does not exist.
func (r *PostgresEventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)

	state, err := scanEventState(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := r.loadTicketTypes(ctx, []*domain.EventState{state}); err != nil {
		return nil, err
	}
	return domain.RehydrateEvent(*state), nil
}

// List lists events with filters and pagination
func (r *PostgresEventRepository) List(ctx context.Context, filter *EventFilter, limit, offset int) ([]*domain.Event, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	argn := 1

	if filter != nil {
		if filter.Status != "" {
			where = append(where, fmt.Sprintf("status = $%d", argn))
			args = append(args, filter.Status)
			argn++
		}
		if filter.Category != "" {
			where = append(where, fmt.Sprintf("category = $%d", argn))
			args = append(args, filter.Category)
			argn++
		}
		if filter.City != "" {
			where = append(where, fmt.Sprintf("city ILIKE $%d", argn))
			args = append(args, filter.City)
			argn++
		}
		if filter.OrganizerID != "" {
			where = append(where, fmt.Sprintf("organizer_id = $%d", argn))
			args = append(args, filter.OrganizerID)
			argn++
		}
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM events WHERE %s`, cond)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM events WHERE %s ORDER BY start_date ASC LIMIT $%d OFFSET $%d`,
		eventColumns, cond, argn, argn+1,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	states, err := scanEventStates(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadTicketTypes(ctx, states); err != nil {
		return nil, 0, err
	}

	events := make([]*domain.Event, 0, len(states))
	for _, s := range states {
		events = append(events, domain.RehydrateEvent(*s))
	}
	return events, total, nil
}

// ListEndedPublished lists published events whose end date has passed. Used
// by the completion worker.
func (r *PostgresEventRepository) ListEndedPublished(ctx context.Context, limit int) ([]*domain.Event, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM events WHERE status = 'published' AND end_date < NOW() ORDER BY end_date ASC LIMIT $1`,
		eventColumns,
	)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ended events: %w", err)
	}
	defer rows.Close()

	states, err := scanEventStates(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadTicketTypes(ctx, states); err != nil {
		return nil, err
	}

	events := make([]*domain.Event, 0, len(states))
	for _, s := range states {
		events = append(events, domain.RehydrateEvent(*s))
	}
	return events, nil
}

func (r *PostgresEventRepository) loadTicketTypes(ctx context.Context, states []*domain.EventState) error {
	if len(states) == 0 {
		return nil
	}

	byEvent := make(map[string]*domain.EventState, len(states))
	ids := make([]string, 0, len(states))
	for _, s := range states {
		byEvent[s.ID] = s
		ids = append(ids, s.ID)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM ticket_types WHERE event_id = ANY($1) ORDER BY created_at ASC`,
		ticketTypeColumns,
	)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load ticket types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ts domain.TicketTypeState
		var currency string
		err := rows.Scan(
			&ts.ID, &ts.EventID, &ts.Name, &ts.Description,
			&ts.PriceAmount, &currency, &ts.Quantity, &ts.SoldQuantity,
			&ts.SalesStart, &ts.SalesEnd, &ts.IsActive, &ts.CreatedAt, &ts.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan ticket type: %w", err)
		}
		ts.Currency = domain.Currency(currency)
		if s, ok := byEvent[ts.EventID]; ok {
			s.TicketTypes = append(s.TicketTypes, ts)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating ticket types: %w", err)
	}
	return nil
}

// scanEventState scans a row into an EventState
func scanEventState(row pgx.Row) (*domain.EventState, error) {
	s := &domain.EventState{}
	var category, status, currency string

	err := row.Scan(
		&s.ID, &s.OrganizerID, &s.Title, &s.Description, &category,
		&s.Address, &s.City, &s.Country, &s.Latitude, &s.Longitude,
		&s.StartDate, &s.EndDate, &s.ImageURL, &status,
		&s.SoldTickets, &s.RevenueAmount, &currency,
		&s.CreatedAt, &s.UpdatedAt, &s.PublishedAt, &s.CancelledAt, &s.CancellationReason,
	)
	if err != nil {
		return nil, err
	}

	s.Category = domain.EventCategory(category)
	s.Status = domain.EventStatus(status)
	s.RevenueCurrency = domain.Currency(currency)
	return s, nil
}

// scanEventStates scans multiple rows into EventState structs
func scanEventStates(rows pgx.Rows) ([]*domain.EventState, error) {
	var states []*domain.EventState
	for rows.Next() {
		s, err := scanEventState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return states, nil
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)
