package ports

import (
	"context"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
)

// TicketRepository owns the canonical ticket records. Implementations return
// copies; mutation goes through Insert and Update only.
type TicketRepository interface {
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
	Insert(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
}

type TicketEventType string

const (
	TicketCreated   TicketEventType = "ticket.created"
	TicketValidated TicketEventType = "ticket.validated"
	TicketExpired   TicketEventType = "ticket.expired"
)

// TicketEventPublisher notifies the rendering client that a ticket changed.
type TicketEventPublisher interface {
	Publish(ctx context.Context, event TicketEventType, ticket *domain.Ticket) error
}
