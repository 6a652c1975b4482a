package domain

import (
	"sort"
	"time"
)

type RankedTicket struct {
	Ticket   *Ticket
	Validity Validity
}

// RankTickets orders tickets for display: live before expired, expired by
// purchase time newest first, unvalidated before validated, then soonest to
// expire first. The sort is stable so remaining ties keep input order.
func RankTickets(tickets []*Ticket, now time.Time) []RankedTicket {
	ranked := make([]RankedTicket, len(tickets))
	for i, t := range tickets {
		ranked[i] = RankedTicket{Ticket: t, Validity: ComputeValidity(t, now)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j])
	})

	return ranked
}

func rankLess(a, b RankedTicket) bool {
	if a.Validity.Expired != b.Validity.Expired {
		return !a.Validity.Expired
	}

	if a.Validity.Expired {
		return a.Ticket.PurchasedAt.After(b.Ticket.PurchasedAt)
	}

	if a.Ticket.Validated != b.Ticket.Validated {
		return !a.Ticket.Validated
	}

	return a.Validity.RemainingMinutes < b.Validity.RemainingMinutes
}
