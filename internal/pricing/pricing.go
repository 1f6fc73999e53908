package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/johnsonproduce/produce-box-backend/internal/catalog"
)

var (
	ErrInvalidBoxSize  = errors.New("invalid box size")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// UnknownProductError reports a cart line whose product id does not resolve
// against the current catalog.
type UnknownProductError struct {
	ProductID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %q in cart", e.ProductID)
}

// PricedLine is one cart line priced at the current catalog price.
type PricedLine struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	PricePerPound decimal.Decimal `json:"pricePerPound"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// Breakdown is the full price breakdown for a cart, box tier and shipping
// selection. Total is always Subtotal + BoxPrice + ShippingCost.
type Breakdown struct {
	Lines        []PricedLine    `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	BoxPrice     decimal.Decimal `json:"boxPrice"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
}

type Service struct {
	catalog catalog.ServiceInterface
}

func NewService(cat catalog.ServiceInterface) *Service {
	return &Service{catalog: cat}
}

// Quote prices a cart (productId -> quantity in pounds) against the current
// catalog. It is a pure computation with no side effects, so the storefront
// can call it on every cart mutation. Lines come back sorted by product id
// so identical inputs yield identical output.
func (s *Service) Quote(cart map[string]int, boxSizeID string, shippingCost decimal.Decimal) (Breakdown, error) {
	if len(cart) == 0 {
		return Breakdown{}, ErrEmptyCart
	}

	box, ok := catalog.BoxSizeByID(boxSizeID)
	if !ok {
		return Breakdown{}, ErrInvalidBoxSize
	}

	ids := make([]string, 0, len(cart))
	for id, qty := range cart {
		if qty <= 0 {
			return Breakdown{}, ErrInvalidQuantity
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	products, err := s.catalog.ListByIDs(ids)
	if err != nil {
		return Breakdown{}, err
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]PricedLine, 0, len(ids))
	subtotal := decimal.Zero
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return Breakdown{}, &UnknownProductError{ProductID: id}
		}
		qty := cart[id]
		lineTotal := p.PricePerPound.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, PricedLine{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      qty,
			PricePerPound: p.PricePerPound,
			LineTotal:     lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	return Breakdown{
		Lines:        lines,
		Subtotal:     subtotal,
		BoxPrice:     box.BasePrice,
		ShippingCost: shippingCost,
		Total:        subtotal.Add(box.BasePrice).Add(shippingCost),
	}, nil
}
