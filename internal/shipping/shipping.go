package shipping

import (
	"context"

	"github.com/shopspring/decimal"
)

// Rate is one shipping option for a destination.
type Rate struct {
	Service       string          `json:"service"`
	Price         decimal.Decimal `json:"price"`
	EstimatedDays string          `json:"days"`
}

// Quoter produces shipping rates for a destination postal code.
// Implementations may call a carrier rate API; callers only see 0..N rates.
type Quoter interface {
	Rates(ctx context.Context, postalCode string) ([]Rate, error)
}

// StaticQuoter returns a fixed tier table. It stands in for the UPS rate
// lookup until carrier credentials are wired up.
type StaticQuoter struct{}

func NewStaticQuoter() *StaticQuoter {
	return &StaticQuoter{}
}

// Rates returns the fixed tiers for any plausible postal code. A code
// shorter than 5 characters yields no rates rather than an error so the
// storefront can quote while the customer is still typing.
func (q *StaticQuoter) Rates(_ context.Context, postalCode string) ([]Rate, error) {
	if len(postalCode) < 5 {
		return []Rate{}, nil
	}
	return []Rate{
		{Service: "Ground", Price: decimal.RequireFromString("12.99"), EstimatedDays: "3-5"},
		{Service: "2-Day Air", Price: decimal.RequireFromString("24.99"), EstimatedDays: "2"},
		{Service: "Next Day Air", Price: decimal.RequireFromString("39.99"), EstimatedDays: "1"},
	}, nil
}
