package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
)

func sampleTicket(id string) *domain.Ticket {
	return &domain.Ticket{
		ID:                    id,
		Category:              domain.CategoryExpress,
		Route:                 "Ligne 3",
		Destination:           "Yopougon",
		PurchasedAt:           time.Date(2025, 4, 16, 7, 35, 0, 0, time.UTC),
		ValidityWindowMinutes: 60,
		Price:                 300,
		HolderName:            "Koffi",
	}
}

func TestNewTicketRepository(t *testing.T) {
	repo := NewTicketRepository()

	tickets, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestInsertAndGet(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleTicket("a")))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Yopougon", got.Destination)

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestInsert_Duplicate(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, sampleTicket("a")))
	assert.ErrorIs(t, repo.Insert(ctx, sampleTicket("a")), domain.ErrDuplicateTicket)
}

func TestGet_NotFound(t *testing.T) {
	_, err := NewTicketRepository().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, sampleTicket("a")))

	got, _ := repo.Get(ctx, "a")
	got.MarkValidated(time.Now())

	again, _ := repo.Get(ctx, "a")
	assert.False(t, again.Validated)
	assert.Nil(t, again.ValidatedAt)
}

func TestUpdate(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, sampleTicket("a")))

	ticket, _ := repo.Get(ctx, "a")
	validatedAt := ticket.PurchasedAt.Add(2 * time.Minute)
	ticket.MarkValidated(validatedAt)
	require.NoError(t, repo.Update(ctx, ticket))

	got, _ := repo.Get(ctx, "a")
	assert.True(t, got.Validated)
	assert.Equal(t, validatedAt, *got.ValidatedAt)

	assert.ErrorIs(t, repo.Update(ctx, sampleTicket("missing")), domain.ErrTicketNotFound)
}

func TestList_InsertionOrder(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Insert(ctx, sampleTicket(id)))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)

	got := make([]string, len(list))
	for i, tk := range list {
		got[i] = tk.ID
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
}
