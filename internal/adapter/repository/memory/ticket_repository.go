package memory

import (
	"context"
	"sync"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
)

// TicketRepository keeps tickets in process memory. Records are cloned on
// the way in and out so callers never hold a reference into the store.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	order   []string
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{
		tickets: make(map[string]*domain.Ticket),
	}
}

func (r *TicketRepository) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ticket, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}

	return ticket.Clone(), nil
}

// List returns tickets in insertion order.
func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tickets[id].Clone())
	}

	return out, nil
}

func (r *TicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[ticket.ID]; exists {
		return domain.ErrDuplicateTicket
	}

	r.tickets[ticket.ID] = ticket.Clone()
	r.order = append(r.order, ticket.ID)

	return nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tickets[ticket.ID]; !exists {
		return domain.ErrTicketNotFound
	}

	r.tickets[ticket.ID] = ticket.Clone()

	return nil
}
