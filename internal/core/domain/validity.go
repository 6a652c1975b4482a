package domain

import "time"

type Validity struct {
	Expired          bool
	RemainingMinutes int
}

// ComputeValidity derives the read-time validity of t at now. An unvalidated
// ticket keeps its full window; the countdown starts at validation and runs
// to the expiration instant.
func ComputeValidity(t *Ticket, now time.Time) Validity {
	expiresAt := t.ExpiresAt()
	if now.After(expiresAt) {
		return Validity{Expired: true}
	}

	if !t.Validated || t.ValidatedAt == nil {
		return Validity{RemainingMinutes: t.ValidityWindowMinutes}
	}

	remaining := int(expiresAt.Sub(*t.ValidatedAt) / time.Minute)
	if remaining < 0 {
		remaining = 0
	}

	return Validity{RemainingMinutes: remaining}
}

func (t *Ticket) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt())
}
