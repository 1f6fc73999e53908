package catalog

import "github.com/shopspring/decimal"

// Product represents a produce item in the storefront catalog.
// JSON tags follow the camelCase convention used by the frontend.
type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Images            []string        `json:"images"`
	PrimaryImageIndex int             `json:"primaryImageIndex"`
	PricePerPound     decimal.Decimal `json:"pricePerPound"`
	Availability      bool            `json:"availability"`
	Season            string          `json:"season"`
	Origin            string          `json:"origin"`
}

// PrimaryImage returns the image the storefront should show first.
// An out-of-range primary index is clamped rather than treated as an error.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[clampIndex(p.PrimaryImageIndex, len(p.Images))]
}

// normalize clamps the primary image index into the valid range.
func (p *Product) normalize() {
	p.PrimaryImageIndex = clampIndex(p.PrimaryImageIndex, len(p.Images))
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Dimensions are the outer box dimensions in inches.
type Dimensions struct {
	Length int `json:"length"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxSize is a fixed shipping-box tier the customer picks once per order.
// Weight is the fill allowance in pounds; MaxItems is descriptive only and
// is not enforced against cart contents.
type BoxSize struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Dimensions Dimensions      `json:"dimensions"`
	Weight     int             `json:"weight"`
	MaxItems   int             `json:"maxItems"`
	BasePrice  decimal.Decimal `json:"basePrice"`
}

// BoxSizes is the static box tier table. Tiers are reference data and are
// not created at runtime.
var BoxSizes = []BoxSize{
	{
		ID:         "small",
		Name:       "Small Box",
		Dimensions: Dimensions{Length: 12, Width: 9, Height: 6},
		Weight:     8,
		MaxItems:   4,
		BasePrice:  decimal.RequireFromString("15.99"),
	},
	{
		ID:         "medium",
		Name:       "Medium Box",
		Dimensions: Dimensions{Length: 16, Width: 12, Height: 8},
		Weight:     12,
		MaxItems:   8,
		BasePrice:  decimal.RequireFromString("24.99"),
	},
	{
		ID:         "large",
		Name:       "Large Box",
		Dimensions: Dimensions{Length: 20, Width: 16, Height: 10},
		Weight:     18,
		MaxItems:   12,
		BasePrice:  decimal.RequireFromString("34.99"),
	},
}

// BoxSizeByID looks up a box tier by its identifier.
func BoxSizeByID(id string) (BoxSize, bool) {
	for _, b := range BoxSizes {
		if b.ID == id {
			return b, true
		}
	}
	return BoxSize{}, false
}

// DefaultProducts returns the seed catalog used when the product table is
// empty (first boot or local runs without a database).
func DefaultProducts() []Product {
	return []Product{
		{
			ID:            "mango",
			Name:          "Mango",
			Description:   "Sweet, juicy tropical mangoes perfect for eating fresh or in smoothies",
			Images:        []string{"/images/mango.jpg"},
			PricePerPound: decimal.RequireFromString("4.99"),
			Availability:  true,
			Season:        "May - September",
			Origin:        "Florida",
		},
		{
			ID:            "avocado",
			Name:          "Avocado",
			Description:   "Creamy, rich avocados ideal for guacamole, toast, or salads",
			Images:        []string{"/images/avocado.jpg"},
			PricePerPound: decimal.RequireFromString("3.99"),
			Availability:  true,
			Season:        "Year Round",
			Origin:        "California",
		},
		{
			ID:            "ackee",
			Name:          "Ackee",
			Description:   "Jamaica's national fruit, perfect for traditional ackee and saltfish",
			Images:        []string{"/images/ackee.jpg"},
			PricePerPound: decimal.RequireFromString("6.99"),
			Availability:  true,
			Season:        "January - March, June - August",
			Origin:        "Jamaica",
		},
		{
			ID:            "jackfruit",
			Name:          "Jackfruit",
			Description:   "Large, sweet tropical fruit perfect as a meat substitute when young",
			Images:        []string{"/images/jackfruit.jpg"},
			PricePerPound: decimal.RequireFromString("5.99"),
			Availability:  true,
			Season:        "March - September",
			Origin:        "Florida",
		},
		{
			ID:            "papaya",
			Name:          "Papaya",
			Description:   "Sweet, orange-fleshed fruit rich in vitamins and perfect for breakfast",
			Images:        []string{"/images/papaya.jpg"},
			PricePerPound: decimal.RequireFromString("3.49"),
			Availability:  true,
			Season:        "Year Round",
			Origin:        "Hawaii",
		},
		{
			ID:            "sapodilla",
			Name:          "Sapodilla",
			Description:   "Sweet, brown fruit with a grainy texture, perfect for desserts",
			Images:        []string{"/images/sapodilla.jpg"},
			PricePerPound: decimal.RequireFromString("7.99"),
			Availability:  true,
			Season:        "September - December",
			Origin:        "Florida",
		},
	}
}
