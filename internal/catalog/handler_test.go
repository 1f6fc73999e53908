package catalog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func setupApp(seed []Product) *fiber.App {
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New()
	handler := NewHandler(NewService(NewInMemoryRepository(seed)))
	handler.RegisterPublicRoutes(app)
	handler.RegisterAdminRoutes(app.Group("/api/v1/admin"))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]any
	json.Unmarshal(raw, &parsed)
	return resp.StatusCode, parsed
}

func TestGetProducts(t *testing.T) {
	app := setupApp(DefaultProducts())

	status, body := doJSON(t, app, "GET", "/api/v1/products", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	products, ok := body["products"].([]any)
	if !ok || len(products) != 6 {
		t.Fatalf("unexpected products payload: %v", body)
	}
}

func TestGetProduct(t *testing.T) {
	app := setupApp(DefaultProducts())

	status, body := doJSON(t, app, "GET", "/api/v1/products/mango", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["name"] != "Mango" {
		t.Errorf("name = %v", body["name"])
	}
	if body["pricePerPound"] != 4.99 {
		t.Errorf("pricePerPound = %v", body["pricePerPound"])
	}

	if status, _ := doJSON(t, app, "GET", "/api/v1/products/durian", ""); status != fiber.StatusNotFound {
		t.Errorf("unknown product status = %d", status)
	}
}

func TestGetBoxSizes(t *testing.T) {
	app := setupApp(nil)

	status, body := doJSON(t, app, "GET", "/api/v1/boxes", "")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	boxes, ok := body["boxSizes"].([]any)
	if !ok || len(boxes) != 3 {
		t.Fatalf("unexpected boxSizes payload: %v", body)
	}
	first := boxes[0].(map[string]any)
	if first["id"] != "small" || first["basePrice"] != 15.99 {
		t.Errorf("unexpected first box %v", first)
	}
}

func TestCreateProduct(t *testing.T) {
	app := setupApp(nil)

	status, body := doJSON(t, app, "POST", "/api/v1/admin/products",
		`{"id":"lychee","name":"Lychee","pricePerPound":8.99,"images":["/images/lychee.jpg"],"availability":true}`)
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if body["id"] != "lychee" || body["pricePerPound"] != 8.99 {
		t.Errorf("unexpected created product %v", body)
	}

	// same id again conflicts
	if status, _ := doJSON(t, app, "POST", "/api/v1/admin/products",
		`{"id":"lychee","name":"Lychee"}`); status != fiber.StatusConflict {
		t.Errorf("duplicate status = %d", status)
	}

	for _, payload := range []string{
		`{"name":"No ID"}`,
		`{"id":"no-name"}`,
		`{"id":"bad-price","name":"Bad","pricePerPound":-1}`,
	} {
		if status, _ := doJSON(t, app, "POST", "/api/v1/admin/products", payload); status != fiber.StatusBadRequest {
			t.Errorf("POST %s status = %d", payload, status)
		}
	}
}

func TestUpdateProduct(t *testing.T) {
	app := setupApp(DefaultProducts())

	status, body := doJSON(t, app, "PUT", "/api/v1/admin/products/mango",
		`{"name":"Mango","pricePerPound":5.49,"availability":false}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if body["pricePerPound"] != 5.49 || body["availability"] != false {
		t.Errorf("unexpected updated product %v", body)
	}

	if status, _ := doJSON(t, app, "PUT", "/api/v1/admin/products/durian", `{"name":"Durian"}`); status != fiber.StatusNotFound {
		t.Errorf("unknown product status = %d", status)
	}
}

func TestDeleteProduct(t *testing.T) {
	app := setupApp(DefaultProducts())

	if status, _ := doJSON(t, app, "DELETE", "/api/v1/admin/products/mango", ""); status != fiber.StatusOK {
		t.Errorf("delete status = %d", status)
	}
	if status, _ := doJSON(t, app, "GET", "/api/v1/products/mango", ""); status != fiber.StatusNotFound {
		t.Errorf("deleted product still readable, status = %d", status)
	}
	if status, _ := doJSON(t, app, "DELETE", "/api/v1/admin/products/mango", ""); status != fiber.StatusNotFound {
		t.Errorf("second delete status = %d", status)
	}
}
