package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
	"github.com/srgjo27/transport_ticket/internal/core/ports"
)

type ticketEvent struct {
	Type        ports.TicketEventType `json:"type"`
	TicketID    string                `json:"ticket_id"`
	Category    domain.Category       `json:"category"`
	Validated   bool                  `json:"validated"`
	ValidatedAt *time.Time            `json:"validated_at,omitempty"`
	ExpiresAt   time.Time             `json:"expires_at"`
}

// TicketPublisher fans lifecycle events out on a Redis pub/sub channel.
type TicketPublisher struct {
	client  redis.Cmdable
	channel string
}

func NewTicketPublisher(client redis.Cmdable, channel string) *TicketPublisher {
	return &TicketPublisher{client: client, channel: channel}
}

func (p *TicketPublisher) Publish(ctx context.Context, event ports.TicketEventType, ticket *domain.Ticket) error {
	payload, err := Encode(event, ticket)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s for ticket %s: %w", event, ticket.ID, err)
	}

	return nil
}

// Encode renders the message body published for a ticket event.
func Encode(event ports.TicketEventType, ticket *domain.Ticket) ([]byte, error) {
	payload, err := json.Marshal(ticketEvent{
		Type:        event,
		TicketID:    ticket.ID,
		Category:    ticket.Category,
		Validated:   ticket.Validated,
		ValidatedAt: ticket.ValidatedAt,
		ExpiresAt:   ticket.ExpiresAt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	return payload, nil
}
