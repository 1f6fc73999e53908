package admin

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testJWTSecret = "test-secret"

func setupApp(source PasswordSource, fallback string) *fiber.App {
	app := fiber.New()
	handler := NewHandler(NewService(source, fallback), testJWTSecret)
	handler.RegisterPublicRoutes(app)
	return app
}

func postLogin(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/admin/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
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

func TestLoginSuccess(t *testing.T) {
	app := setupApp(staticSource{"ADMIN_PASSWORD": "hunter2"}, "")

	status, body := postLogin(t, app, `{"password":"hunter2"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", status, body)
	}
	if body["message"] != "Login successful" {
		t.Errorf("message = %v", body["message"])
	}

	signed, _ := body["token"].(string)
	if signed == "" {
		t.Fatal("no token in response")
	}
	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["role"] != "admin" {
		t.Errorf("role = %v", claims["role"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("token has no expiry")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(staticSource{"ADMIN_PASSWORD": "hunter2"}, "")

	status, body := postLogin(t, app, `{"password":"nope"}`)
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d", status)
	}
	if _, ok := body["token"]; ok {
		t.Error("token issued for wrong password")
	}
}

func TestLoginMissingPassword(t *testing.T) {
	app := setupApp(staticSource{"ADMIN_PASSWORD": "hunter2"}, "")

	if status, _ := postLogin(t, app, `{}`); status != fiber.StatusBadRequest {
		t.Errorf("status = %d", status)
	}
}

func TestLoginUnconfigured(t *testing.T) {
	app := setupApp(staticSource{}, "")

	if status, _ := postLogin(t, app, `{"password":"anything"}`); status != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d", status)
	}
}
