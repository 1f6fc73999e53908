package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerInfo is the contact and shipping address captured at checkout.
type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

// Line is a snapshot of one cart line at order time. It is deliberately not
// live-linked to the catalog: later price or name edits must not rewrite
// history.
type Line struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	PricePerPound decimal.Decimal `json:"pricePerPound"`
}

// ManualPaymentRef marks orders paid by the manual bank-transfer flow.
const ManualPaymentRef = "Zelle Payment"

// Order is a persisted purchase. OrderID is the business key; PaymentRef
// holds the external payment system's confirmation id and is never reused
// as the order identifier.
type Order struct {
	OrderID      string          `json:"orderId"`
	Customer     CustomerInfo    `json:"customerInfo"`
	Lines        []Line          `json:"items"`
	BoxSize      string          `json:"boxSize"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	BoxPrice     decimal.Decimal `json:"boxPrice"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
	PaymentRef   string          `json:"paymentIntentId"`
	Status       Status          `json:"status"`
	CreatedAt    string          `json:"createdAt"`
}

// NewOrderID generates a timestamp-derived business identifier like
// JP-1756700000000.
func NewOrderID() string {
	return fmt.Sprintf("JP-%d", time.Now().UnixMilli())
}
