package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
)

var abidjan = time.FixedZone("GMT", 0)

func at(hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", "2025-04-16 "+hhmm, abidjan)
	if err != nil {
		panic(err)
	}
	return t
}

func newTicket(purchased string, window int) *domain.Ticket {
	return &domain.Ticket{
		ID:                    "20250416-abc",
		Category:              domain.CategoryMonbus,
		PurchasedAt:           at(purchased),
		ValidityWindowMinutes: window,
	}
}

func TestComputeValidity_UnvalidatedKeepsFullWindow(t *testing.T) {
	ticket := newTicket("07:35", 45)

	v := domain.ComputeValidity(ticket, at("07:50"))

	assert.False(t, v.Expired)
	assert.Equal(t, 45, v.RemainingMinutes)
}

func TestComputeValidity_ValidatedCountsFromValidation(t *testing.T) {
	ticket := newTicket("07:35", 45)
	ticket.MarkValidated(at("07:37"))

	v := domain.ComputeValidity(ticket, at("08:00"))

	assert.False(t, v.Expired)
	assert.Equal(t, 43, v.RemainingMinutes)
}

func TestComputeValidity_PastExpirationIsExpired(t *testing.T) {
	unvalidated := newTicket("07:35", 45)
	validated := newTicket("07:35", 45)
	validated.MarkValidated(at("07:37"))

	for _, ticket := range []*domain.Ticket{unvalidated, validated} {
		v := domain.ComputeValidity(ticket, at("08:25"))
		assert.True(t, v.Expired)
	}
}

func TestComputeValidity_ExpirationInstantIsStillValid(t *testing.T) {
	ticket := newTicket("07:35", 45)

	v := domain.ComputeValidity(ticket, at("08:20"))

	assert.False(t, v.Expired)
	assert.True(t, ticket.IsExpired(at("08:20").Add(time.Second)))
}

func TestComputeValidity_FloorsPartialMinutes(t *testing.T) {
	ticket := newTicket("07:35", 45)
	ticket.MarkValidated(at("07:37").Add(30 * time.Second))

	v := domain.ComputeValidity(ticket, at("07:40"))

	assert.Equal(t, 42, v.RemainingMinutes)
}

func TestComputeValidity_ValidatedAtExpirationClampsToZero(t *testing.T) {
	ticket := newTicket("07:35", 45)
	ticket.MarkValidated(at("08:20"))

	v := domain.ComputeValidity(ticket, at("08:20"))

	assert.False(t, v.Expired)
	assert.Equal(t, 0, v.RemainingMinutes)
}

func TestTicket_CloneDoesNotShareValidatedAt(t *testing.T) {
	ticket := newTicket("07:35", 45)
	ticket.MarkValidated(at("07:37"))

	clone := ticket.Clone()
	*clone.ValidatedAt = at("07:40")

	assert.Equal(t, at("07:37"), *ticket.ValidatedAt)
	assert.Equal(t, "2025-04-16", ticket.PurchaseDate())
	assert.Equal(t, "07:35", ticket.PurchaseTime())
}

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, domain.CategoryBateauBus.IsValid())
	assert.True(t, domain.Category("MarchéBus").IsValid())
	assert.False(t, domain.Category("Tram").IsValid())
	assert.False(t, domain.Category("").IsValid())
}
