package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
)

var ticketColumns = []string{
	"id", "category", "route", "destination", "purchased_at", "validity_window_minutes",
	"price", "holder_name", "validated", "validated_at", "payment_reference", "transaction_reference",
}

var (
	selectByID = regexp.QuoteMeta(`FROM tickets WHERE id = $1`)
	insertSQL  = regexp.QuoteMeta(`INSERT INTO tickets`)
	updateSQL  = regexp.QuoteMeta(`UPDATE tickets SET validated = $2, validated_at = $3 WHERE id = $1 AND validated = FALSE`)
)

func newMockRepository(t *testing.T, loc *time.Location) (*TicketRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewTicketRepository(db, loc), mock
}

func purchasedAt() time.Time {
	return time.Date(2025, 4, 16, 7, 35, 0, 0, time.UTC)
}

func sampleTicket(id string) *domain.Ticket {
	return &domain.Ticket{
		ID:                    id,
		Category:              domain.CategoryMonbus,
		Route:                 "Ligne 12",
		Destination:           "Plateau",
		PurchasedAt:           purchasedAt(),
		ValidityWindowMinutes: 45,
		Price:                 500,
		HolderName:            "Awa",
		PaymentReference:      "PAY-1",
		TransactionReference:  "TXN-1",
	}
}

func ticketRow(id string, validatedAt any) *sqlmock.Rows {
	return sqlmock.NewRows(ticketColumns).AddRow(
		id, "Monbus", "Ligne 12", "Plateau", purchasedAt(), int64(45),
		500.0, "Awa", validatedAt != nil, validatedAt, "PAY-1", "TXN-1",
	)
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS tickets`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestGet(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectQuery(selectByID).WithArgs("t-1").WillReturnRows(ticketRow("t-1", nil))

	ticket, err := repo.Get(context.Background(), "t-1")

	require.NoError(t, err)
	assert.Equal(t, "t-1", ticket.ID)
	assert.Equal(t, domain.CategoryMonbus, ticket.Category)
	assert.Equal(t, 45, ticket.ValidityWindowMinutes)
	assert.True(t, purchasedAt().Equal(ticket.PurchasedAt))
	assert.False(t, ticket.Validated)
	assert.Nil(t, ticket.ValidatedAt)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectQuery(selectByID).WithArgs("missing").WillReturnRows(sqlmock.NewRows(ticketColumns))

	ticket, err := repo.Get(context.Background(), "missing")

	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestGet_QueryError(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectQuery(selectByID).WithArgs("t-1").WillReturnError(errors.New("connection reset"))

	_, err := repo.Get(context.Background(), "t-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestGet_ReturnsTimesInConfiguredLocation(t *testing.T) {
	plus2 := time.FixedZone("UTC+2", 2*60*60)
	repo, mock := newMockRepository(t, plus2)

	validatedAt := time.Date(2025, 4, 16, 7, 50, 0, 0, time.UTC)
	mock.ExpectQuery(selectByID).WithArgs("t-1").WillReturnRows(ticketRow("t-1", validatedAt))

	ticket, err := repo.Get(context.Background(), "t-1")

	require.NoError(t, err)
	assert.Equal(t, plus2, ticket.PurchasedAt.Location())
	assert.Equal(t, "09:35", ticket.PurchaseTime())
	assert.Equal(t, "2025-04-16", ticket.PurchaseDate())
	require.NotNil(t, ticket.ValidatedAt)
	assert.Equal(t, plus2, ticket.ValidatedAt.Location())
	assert.True(t, validatedAt.Equal(*ticket.ValidatedAt))
}

func TestList_PreservesRowOrder(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	rows := sqlmock.NewRows(ticketColumns).
		AddRow("b", "Express", "Ligne 7", "Cocody", purchasedAt(), int64(30), 300.0, "Aya", false, nil, "PAY-2", "TXN-2").
		AddRow("a", "Monbus", "Ligne 12", "Plateau", purchasedAt(), int64(45), 500.0, "Awa", false, nil, "PAY-1", "TXN-1")
	mock.ExpectQuery(regexp.QuoteMeta(`FROM tickets ORDER BY created_at, id`)).WillReturnRows(rows)

	tickets, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "b", tickets[0].ID)
	assert.Equal(t, "a", tickets[1].ID)
}

func TestInsert(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectExec(insertSQL).
		WithArgs("t-1", "Monbus", "Ligne 12", "Plateau", purchasedAt(), 45, 500.0, "Awa", false, nil, "PAY-1", "TXN-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Insert(context.Background(), sampleTicket("t-1")))
}

func TestInsert_DuplicateID(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectExec(insertSQL).WillReturnError(&pq.Error{Code: uniqueViolation})

	err := repo.Insert(context.Background(), sampleTicket("t-1"))

	assert.ErrorIs(t, err, domain.ErrDuplicateTicket)
}

func TestInsert_OtherError(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectExec(insertSQL).WillReturnError(sql.ErrConnDone)

	err := repo.Insert(context.Background(), sampleTicket("t-1"))

	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NotErrorIs(t, err, domain.ErrDuplicateTicket)
}

func TestUpdate_MarksValidated(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	ticket := sampleTicket("t-1")
	ticket.MarkValidated(purchasedAt().Add(2 * time.Minute))

	mock.ExpectExec(updateSQL).
		WithArgs("t-1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Update(context.Background(), ticket))
}

func TestUpdate_AlreadyValidatedRow(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	ticket := sampleTicket("t-1")
	ticket.MarkValidated(purchasedAt().Add(2 * time.Minute))

	mock.ExpectExec(updateSQL).
		WithArgs("t-1", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectByID).WithArgs("t-1").
		WillReturnRows(ticketRow("t-1", purchasedAt().Add(time.Minute)))

	err := repo.Update(context.Background(), ticket)

	assert.ErrorIs(t, err, domain.ErrAlreadyValidated)
}

func TestUpdate_MissingRow(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	ticket := sampleTicket("ghost")
	ticket.MarkValidated(purchasedAt().Add(2 * time.Minute))

	mock.ExpectExec(updateSQL).
		WithArgs("ghost", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectByID).WithArgs("ghost").WillReturnRows(sqlmock.NewRows(ticketColumns))

	err := repo.Update(context.Background(), ticket)

	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestUpdate_ExecError(t *testing.T) {
	repo, mock := newMockRepository(t, nil)

	mock.ExpectExec(updateSQL).WillReturnError(sql.ErrConnDone)

	err := repo.Update(context.Background(), sampleTicket("t-1"))

	assert.ErrorIs(t, err, sql.ErrConnDone)
}
