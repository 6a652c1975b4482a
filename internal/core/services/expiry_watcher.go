package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/transport_ticket/internal/core/ports"
)

// RunExpiryWatcher announces tickets as they cross their expiration instant.
// Tickets are never removed; expiry stays a read-time classification.
func (s *TicketService) RunExpiryWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("expiry watcher started", zap.Duration("interval", interval))

	last := s.now()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry watcher stopped")
			return
		case <-ticker.C:
			now := s.now()
			if _, err := s.SweepExpired(ctx, last, now); err != nil {
				s.log.Error("expiry sweep failed", zap.Error(err))
				continue
			}
			last = now
		}
	}
}

// SweepExpired publishes an expiry event for every ticket that was live at
// since and is expired at until, and returns how many it found.
func (s *TicketService) SweepExpired(ctx context.Context, since, until time.Time) (int, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	expired := 0
	for _, t := range tickets {
		if t.IsExpired(since) || !t.IsExpired(until) {
			continue
		}

		expired++
		s.log.Info("ticket expired",
			zap.String("ticket_id", t.ID),
			zap.Bool("validated", t.Validated),
			zap.Time("expired_at", t.ExpiresAt()),
		)
		s.publish(ctx, ports.TicketExpired, t)
	}

	s.metrics.TicketsExpired(expired)

	return expired, nil
}
