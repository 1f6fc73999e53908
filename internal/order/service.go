package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/johnsonproduce/produce-box-backend/internal/pricing"
)

var ErrMissingCustomerInfo = errors.New("missing required customer fields")

// PricingService is the slice of the pricing engine checkout needs.
type PricingService interface {
	Quote(cart map[string]int, boxSizeID string, shippingCost decimal.Decimal) (pricing.Breakdown, error)
}

// Service owns order creation and the status lifecycle.
type Service struct {
	repo    Repository
	pricing PricingService
}

func NewService(repo Repository, pricing PricingService) *Service {
	return &Service{repo: repo, pricing: pricing}
}

// CheckoutRequest carries everything a checkout needs. Totals are always
// recomputed server-side from the cart; client-supplied totals are never
// trusted.
type CheckoutRequest struct {
	Customer     CustomerInfo
	Cart         map[string]int
	BoxSize      string
	ShippingCost decimal.Decimal
	// PaymentRef is the card payment-confirmation id; empty for the
	// manual-transfer flow.
	PaymentRef string
}

func (req CheckoutRequest) validate() error {
	c := req.Customer
	if c.Email == "" || c.FirstName == "" || c.LastName == "" || c.Address == "" || c.City == "" || c.State == "" || c.Zip == "" {
		return ErrMissingCustomerInfo
	}
	return nil
}

// Checkout prices the cart, snapshots the lines and persists the order.
// Card payments come in already confirmed; manual transfers start pending
// before any money has moved and rely on admin reconciliation. Persistence
// failure fails the checkout: a confirmation is never shown for an order
// that was not recorded.
func (s *Service) Checkout(req CheckoutRequest) (Order, error) {
	if err := req.validate(); err != nil {
		return Order{}, err
	}
	if req.ShippingCost.IsNegative() {
		return Order{}, errors.New("shipping cost must be non-negative")
	}

	breakdown, err := s.pricing.Quote(req.Cart, req.BoxSize, req.ShippingCost)
	if err != nil {
		return Order{}, err
	}

	lines := make([]Line, 0, len(breakdown.Lines))
	for _, l := range breakdown.Lines {
		lines = append(lines, Line{
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
			PricePerPound: l.PricePerPound,
		})
	}

	status := StatusConfirmed
	paymentRef := req.PaymentRef
	if paymentRef == "" {
		status = StatusPending
		paymentRef = ManualPaymentRef
	}

	ord := Order{
		OrderID:      NewOrderID(),
		Customer:     req.Customer,
		Lines:        lines,
		BoxSize:      req.BoxSize,
		Subtotal:     breakdown.Subtotal,
		BoxPrice:     breakdown.BoxPrice,
		ShippingCost: breakdown.ShippingCost,
		Total:        breakdown.Total,
		PaymentRef:   paymentRef,
		Status:       status,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	return s.repo.Create(ord)
}

func (s *Service) GetByID(orderID string) (Order, error) {
	return s.repo.GetByID(orderID)
}

func (s *Service) List(status Status) ([]Order, error) {
	return s.repo.List(status)
}

// SetStatus transitions an order through the lifecycle state machine.
func (s *Service) SetStatus(orderID string, next Status) error {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return err
	}
	if err := CheckTransition(ord.Status, next); err != nil {
		return err
	}
	return s.repo.UpdateStatus(orderID, next)
}
