package handler

import (
	"time"

	"github.com/srgjo27/transport_ticket/internal/core/domain"
)

// TicketResponse is the flat record sent to the rendering client. Expired
// and RemainingMinutes are computed at read time.
type TicketResponse struct {
	ID                    string     `json:"id"`
	Category              string     `json:"category"`
	Route                 string     `json:"route"`
	Destination           string     `json:"destination"`
	PurchaseDate          string     `json:"purchase_date"`
	PurchaseTime          string     `json:"purchase_time"`
	ValidityWindowMinutes int        `json:"validity_window_minutes"`
	Price                 float64    `json:"price"`
	HolderName            string     `json:"holder_name"`
	Validated             bool       `json:"validated"`
	ValidatedAt           *time.Time `json:"validated_at,omitempty"`
	PaymentReference      string     `json:"payment_reference"`
	TransactionReference  string     `json:"transaction_reference"`
	Expired               bool       `json:"expired"`
	RemainingMinutes      *int       `json:"remaining_minutes"`
}

func toTicketResponse(t *domain.Ticket, v domain.Validity) TicketResponse {
	resp := TicketResponse{
		ID:                    t.ID,
		Category:              string(t.Category),
		Route:                 t.Route,
		Destination:           t.Destination,
		PurchaseDate:          t.PurchaseDate(),
		PurchaseTime:          t.PurchaseTime(),
		ValidityWindowMinutes: t.ValidityWindowMinutes,
		Price:                 t.Price,
		HolderName:            t.HolderName,
		Validated:             t.Validated,
		ValidatedAt:           t.ValidatedAt,
		PaymentReference:      t.PaymentReference,
		TransactionReference:  t.TransactionReference,
		Expired:               v.Expired,
	}

	if !v.Expired {
		remaining := v.RemainingMinutes
		resp.RemainingMinutes = &remaining
	}

	return resp
}
