package pricing

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func setupApp() *fiber.App {
	decimal.MarshalJSONWithoutQuotes = true
	a := fiber.New()
	h := NewHandler(newTestService())
	h.RegisterPublicRoutes(a)
	return a
}

func TestQuoteEndpoint_Success(t *testing.T) {
	a := setupApp()

	body := `{"cart":{"mango":3,"avocado":2},"boxSize":"medium","shippingCost":12.99}`
	req := httptest.NewRequest("POST", "/api/v1/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	var breakdown Breakdown
	if err := json.NewDecoder(res.Body).Decode(&breakdown); err != nil {
		t.Fatal(err)
	}
	if !breakdown.Total.Equal(decimal.RequireFromString("60.93")) {
		t.Errorf("expected total 60.93, got %s", breakdown.Total)
	}
}

func TestQuoteEndpoint_BadRequests(t *testing.T) {
	a := setupApp()

	cases := []string{
		`{"cart":{},"boxSize":"small","shippingCost":0}`,
		`{"cart":{"mango":1},"boxSize":"jumbo","shippingCost":0}`,
		`{"cart":{"durian":1},"boxSize":"small","shippingCost":0}`,
		`{"cart":{"mango":1},"boxSize":"small","shippingCost":-5}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest("POST", "/api/v1/quote", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		res, err := a.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != fiber.StatusBadRequest {
			t.Errorf("body %s: expected 400 got %d", body, res.StatusCode)
		}
	}
}
