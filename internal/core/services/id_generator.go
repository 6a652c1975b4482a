package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dayCodeLayout = "20060102"
	suffixLength  = 12
)

// IDGenerator issues ticket ids of the form <YYYYMMDD>-<suffix>. The suffix
// carries 48 random bits taken from a v4 UUID; uniqueness against existing
// tickets is checked by the caller.
type IDGenerator struct {
	loc *time.Location
}

func NewIDGenerator(loc *time.Location) *IDGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &IDGenerator{loc: loc}
}

func (g *IDGenerator) NewID(now time.Time) string {
	return now.In(g.loc).Format(dayCodeLayout) + "-" + randomHex(suffixLength)
}

// The first 12 hex digits of a v4 UUID precede the version nibble, so all of
// them are random.
func randomHex(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

func newPaymentReference() string {
	return "PAY-" + strings.ToUpper(randomHex(16))
}

func newTransactionReference() string {
	return "TXN-" + strings.ToUpper(randomHex(16))
}
