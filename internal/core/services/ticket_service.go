package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
	"github.com/srgjo27/transport_ticket/internal/core/ports"
	"github.com/srgjo27/transport_ticket/internal/platform/metrics"
)

const (
	maxIDAttempts = 5

	// 366 days.
	maxValidityWindowMinutes = 366 * 24 * 60
)

type CreateTicketRequest struct {
	Category              string  `json:"category"`
	Route                 string  `json:"route"`
	Destination           string  `json:"destination"`
	PurchaseDate          string  `json:"purchase_date"`
	PurchaseTime          string  `json:"purchase_time"`
	ValidityWindowMinutes int     `json:"validity_window_minutes"`
	Price                 float64 `json:"price"`
	HolderName            string  `json:"holder_name"`
	PaymentReference      string  `json:"payment_reference"`
	TransactionReference  string  `json:"transaction_reference"`
}

type TicketService struct {
	repo      ports.TicketRepository
	publisher ports.TicketEventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	ids       *IDGenerator
	loc       *time.Location
	now       func() time.Time

	// mu serializes Create and Validate; both are read-check-write against
	// the repository.
	mu sync.Mutex
}

type Option func(*TicketService)

func WithPublisher(p ports.TicketEventPublisher) Option {
	return func(s *TicketService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TicketService) { s.metrics = m }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *TicketService) { s.log = log }
}

func WithLocation(loc *time.Location) Option {
	return func(s *TicketService) { s.loc = loc }
}

func WithClock(now func() time.Time) Option {
	return func(s *TicketService) { s.now = now }
}

func WithIDGenerator(g *IDGenerator) Option {
	return func(s *TicketService) { s.ids = g }
}

func NewTicketService(repo ports.TicketRepository, opts ...Option) *TicketService {
	s := &TicketService{
		repo: repo,
		log:  zap.NewNop(),
		loc:  time.UTC,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.ids == nil {
		s.ids = NewIDGenerator(s.loc)
	}

	return s
}

func (s *TicketService) Create(ctx context.Context, req CreateTicketRequest) (*domain.Ticket, error) {
	now := s.now().In(s.loc)

	purchasedAt, err := s.parsePurchase(req.PurchaseDate, req.PurchaseTime, now)
	if err != nil {
		return nil, err
	}

	if err := validateCreate(req); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Category:              domain.Category(req.Category),
		Route:                 strings.TrimSpace(req.Route),
		Destination:           strings.TrimSpace(req.Destination),
		PurchasedAt:           purchasedAt,
		ValidityWindowMinutes: req.ValidityWindowMinutes,
		Price:                 req.Price,
		HolderName:            strings.TrimSpace(req.HolderName),
		PaymentReference:      strings.TrimSpace(req.PaymentReference),
		TransactionReference:  strings.TrimSpace(req.TransactionReference),
	}

	if ticket.PaymentReference == "" {
		ticket.PaymentReference = newPaymentReference()
	}
	if ticket.TransactionReference == "" {
		ticket.TransactionReference = newTransactionReference()
	}

	if err := s.insert(ctx, ticket, now); err != nil {
		return nil, err
	}

	s.metrics.TicketCreated(string(ticket.Category))
	s.log.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("category", string(ticket.Category)),
		zap.Int("validity_window_minutes", ticket.ValidityWindowMinutes),
	)
	s.publish(ctx, ports.TicketCreated, ticket)

	return ticket, nil
}

func (s *TicketService) insert(ctx context.Context, ticket *domain.Ticket, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id := s.ids.NewID(now)

		_, err := s.repo.Get(ctx, id)
		if err == nil {
			s.log.Warn("ticket id collision, regenerating", zap.String("ticket_id", id), zap.Int("attempt", attempt))
			continue
		}
		if !errors.Is(err, domain.ErrTicketNotFound) {
			return fmt.Errorf("failed to check ticket id: %w", err)
		}

		ticket.ID = id
		if err := s.repo.Insert(ctx, ticket); err != nil {
			return fmt.Errorf("failed to insert ticket: %w", err)
		}

		return nil
	}

	return fmt.Errorf("failed to allocate a unique ticket id after %d attempts", maxIDAttempts)
}

// Validate moves a ticket from purchased to validated. The expiry check runs
// before any mutation, so a rejected ticket is left untouched.
func (s *TicketService) Validate(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.validate(ctx, id)
	if err != nil {
		s.metrics.ValidationRejected(rejectionReason(err))
		s.log.Warn("ticket validation rejected", zap.String("ticket_id", id), zap.Error(err))
		return nil, err
	}

	s.metrics.TicketValidated(string(ticket.Category))
	s.log.Info("ticket validated",
		zap.String("ticket_id", ticket.ID),
		zap.Time("validated_at", *ticket.ValidatedAt),
	)
	s.publish(ctx, ports.TicketValidated, ticket)

	return ticket, nil
}

func (s *TicketService) validate(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if ticket.Validated {
		return nil, domain.ErrAlreadyValidated
	}

	now := s.now().In(s.loc)
	if ticket.IsExpired(now) {
		return nil, domain.ErrTicketExpired
	}

	ticket.MarkValidated(now)

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	return ticket, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.repo.Get(ctx, id)
}

// List ranks a snapshot of the repository for display.
func (s *TicketService) List(ctx context.Context) ([]domain.RankedTicket, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	return domain.RankTickets(tickets, s.now()), nil
}

// Validity reports the read-time validity of a single ticket.
func (s *TicketService) Validity(ticket *domain.Ticket) domain.Validity {
	return domain.ComputeValidity(ticket, s.now())
}

// QRPayload is the document handed to the QR encoder. Scanners only need
// the id; everything else is looked up.
func (s *TicketService) QRPayload(ctx context.Context, id string) ([]byte, error) {
	ticket, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		ID string `json:"id"`
	}{ID: ticket.ID})
}

func (s *TicketService) parsePurchase(date, clock string, now time.Time) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)

	if date == "" && clock == "" {
		return now.Truncate(time.Minute), nil
	}
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("%w: purchase_date and purchase_time must be given together", domain.ErrInvalidInput)
	}

	var (
		purchasedAt time.Time
		err         error
	)
	for _, layout := range []string{domain.TimeLayout, "15:04:05"} {
		purchasedAt, err = time.ParseInLocation(domain.DateLayout+" "+layout, date+" "+clock, s.loc)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: purchase date/time %q %q", domain.ErrInvalidInput, date, clock)
	}
	purchasedAt = purchasedAt.Truncate(time.Minute)

	if purchasedAt.After(now) {
		return time.Time{}, fmt.Errorf("%w: purchase time is in the future", domain.ErrInvalidInput)
	}

	return purchasedAt, nil
}

func validateCreate(req CreateTicketRequest) error {
	if !domain.Category(req.Category).IsValid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, req.Category)
	}

	required := []struct{ name, value string }{
		{"route", req.Route},
		{"destination", req.Destination},
		{"holder_name", req.HolderName},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field.name)
		}
	}

	if req.ValidityWindowMinutes <= 0 {
		return fmt.Errorf("%w: validity_window_minutes must be positive", domain.ErrInvalidInput)
	}
	if req.ValidityWindowMinutes > maxValidityWindowMinutes {
		return fmt.Errorf("%w: validity_window_minutes must not exceed %d", domain.ErrInvalidInput, maxValidityWindowMinutes)
	}

	if req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}

	return nil
}

func (s *TicketService) publish(ctx context.Context, event ports.TicketEventType, ticket *domain.Ticket) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event, ticket); err != nil {
		s.log.Warn("failed to publish ticket event",
			zap.String("event", string(event)),
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAlreadyValidated):
		return "already_validated"
	case errors.Is(err, domain.ErrTicketExpired):
		return "expired"
	default:
		return "error"
	}
}
