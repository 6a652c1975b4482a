package domain

import "time"

type Category string

const (
	CategoryMonbus    Category = "Monbus"
	CategoryMarcheBus Category = "MarchéBus"
	CategoryExpress   Category = "Express"
	CategoryNavette   Category = "Navette"
	CategoryBateauBus Category = "BateauBus"
)

var categories = map[Category]struct{}{
	CategoryMonbus:    {},
	CategoryMarcheBus: {},
	CategoryExpress:   {},
	CategoryNavette:   {},
	CategoryBateauBus: {},
}

func (c Category) IsValid() bool {
	_, ok := categories[c]
	return ok
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Ticket struct {
	ID                    string
	Category              Category
	Route                 string
	Destination           string
	PurchasedAt           time.Time
	ValidityWindowMinutes int
	Price                 float64
	HolderName            string
	Validated             bool
	ValidatedAt           *time.Time
	PaymentReference      string
	TransactionReference  string
}

func (t *Ticket) ValidityWindow() time.Duration {
	return time.Duration(t.ValidityWindowMinutes) * time.Minute
}

// ExpiresAt is the end of the validity window, counted from purchase.
func (t *Ticket) ExpiresAt() time.Time {
	return t.PurchasedAt.Add(t.ValidityWindow())
}

func (t *Ticket) PurchaseDate() string {
	return t.PurchasedAt.Format(DateLayout)
}

func (t *Ticket) PurchaseTime() string {
	return t.PurchasedAt.Format(TimeLayout)
}

// MarkValidated flips the ticket to validated. Callers must have checked
// AlreadyValidated and expiry first.
func (t *Ticket) MarkValidated(at time.Time) {
	t.Validated = true
	t.ValidatedAt = &at
}

// Clone returns a deep copy so repositories never share ValidatedAt.
func (t *Ticket) Clone() *Ticket {
	c := *t
	if t.ValidatedAt != nil {
		at := *t.ValidatedAt
		c.ValidatedAt = &at
	}
	return &c
}
