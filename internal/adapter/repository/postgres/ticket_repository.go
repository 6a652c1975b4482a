package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id                      TEXT PRIMARY KEY,
	category                TEXT NOT NULL,
	route                   TEXT NOT NULL,
	destination             TEXT NOT NULL,
	purchased_at            TIMESTAMPTZ NOT NULL,
	validity_window_minutes INTEGER NOT NULL CHECK (validity_window_minutes > 0),
	price                   NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	holder_name             TEXT NOT NULL,
	validated               BOOLEAN NOT NULL DEFAULT FALSE,
	validated_at            TIMESTAMPTZ,
	payment_reference       TEXT NOT NULL,
	transaction_reference   TEXT NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK (validated = (validated_at IS NOT NULL))
)`

const selectColumns = `
	id, category, route, destination, purchased_at, validity_window_minutes,
	price, holder_name, validated, validated_at, payment_reference, transaction_reference`

type TicketRepository struct {
	db  *sql.DB
	loc *time.Location
}

// NewTicketRepository returns a store whose timestamps are read back in loc,
// independent of the session time zone. A nil loc means UTC.
func NewTicketRepository(db *sql.DB, loc *time.Location) *TicketRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &TicketRepository{db: db, loc: loc}
}

func (r *TicketRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tickets table: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TicketRepository) scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		t           domain.Ticket
		category    string
		validatedAt sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&category,
		&t.Route,
		&t.Destination,
		&t.PurchasedAt,
		&t.ValidityWindowMinutes,
		&t.Price,
		&t.HolderName,
		&t.Validated,
		&validatedAt,
		&t.PaymentReference,
		&t.TransactionReference,
	)
	if err != nil {
		return nil, err
	}

	t.Category = domain.Category(category)
	t.PurchasedAt = t.PurchasedAt.In(r.loc)
	if validatedAt.Valid {
		at := validatedAt.Time.In(r.loc)
		t.ValidatedAt = &at
	}

	return &t, nil
}

func (r *TicketRepository) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT` + selectColumns + ` FROM tickets WHERE id = $1`

	ticket, err := r.scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket %s: %w", id, err)
	}

	return ticket, nil
}

func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	query := `SELECT` + selectColumns + ` FROM tickets ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := r.scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}

		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

func (r *TicketRepository) Insert(ctx context.Context, t *domain.Ticket) error {
	query := `
	INSERT INTO tickets (id, category, route, destination, purchased_at, validity_window_minutes,
		price, holder_name, validated, validated_at, payment_reference, transaction_reference)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, string(t.Category), t.Route, t.Destination, t.PurchasedAt, t.ValidityWindowMinutes,
		t.Price, t.HolderName, t.Validated, t.ValidatedAt, t.PaymentReference, t.TransactionReference,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateTicket
		}
		return fmt.Errorf("failed to insert ticket %s: %w", t.ID, err)
	}

	return nil
}

// Update persists the validation fields. The WHERE clause only matches an
// unvalidated row, so a second writer loses even without the service lock.
func (r *TicketRepository) Update(ctx context.Context, t *domain.Ticket) error {
	query := `
	UPDATE tickets
	SET validated = $2, validated_at = $3
	WHERE id = $1 AND validated = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, t.ID, t.Validated, t.ValidatedAt)
	if err != nil {
		return fmt.Errorf("failed to update ticket %s: %w", t.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		if _, err := r.Get(ctx, t.ID); err != nil {
			return err
		}
		return domain.ErrAlreadyValidated
	}

	return nil
}
