package settings

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// jsonKeys maps the admin panel's camelCase field names onto settings-file
// keys.
var jsonKeys = map[string]string{
	"adminPassword":    "ADMIN_PASSWORD",
	"notionApiKey":     "NOTION_API_KEY",
	"notionDatabaseId": "NOTION_DATABASE_ID",
	"stripeSecretKey":  "STRIPE_SECRET_KEY",
	"upsApiKey":        "UPS_API_KEY",
	"upsUsername":      "UPS_USERNAME",
	"upsPassword":      "UPS_PASSWORD",
	"upsAccountNumber": "UPS_ACCOUNT_NUMBER",
}

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterAdminRoutes registers settings management on the JWT-protected
// admin group.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/settings", h.getSettings)
	admin.Put("/settings", h.updateSettings)
}

func (h *Handler) getSettings(c *fiber.Ctx) error {
	env, err := h.store.Read()
	if err != nil {
		fmt.Printf("error: reading settings: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to read settings"})
	}

	out := fiber.Map{}
	for jsonKey, envKey := range jsonKeys {
		out[jsonKey] = env[envKey]
	}
	return c.JSON(fiber.Map{"settings": out})
}

func (h *Handler) updateSettings(c *fiber.Ctx) error {
	payload := map[string]string{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updates := map[string]string{}
	for jsonKey, value := range payload {
		envKey, ok := jsonKeys[jsonKey]
		if !ok {
			continue
		}
		updates[envKey] = value
	}

	if err := h.store.Write(updates); err != nil {
		fmt.Printf("error: writing settings: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to save settings"})
	}
	return c.JSON(fiber.Map{"success": true})
}
