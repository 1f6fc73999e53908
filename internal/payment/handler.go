package payment

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/intent", h.createIntent)
}

type createIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (h *Handler) createIntent(c *fiber.Ctx) error {
	payload := new(createIntentRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	intent, err := h.client.CreateIntent(c.UserContext(), payload.Amount, payload.Currency)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid amount"})
		case errors.Is(err, ErrUnconfigured):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "card payments are not configured"})
		default:
			fmt.Printf("error: payment intent creation failed: %v\n", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "failed to create payment intent"})
		}
	}
	return c.JSON(fiber.Map{"clientSecret": intent.ClientSecret})
}
