package pricing

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/quote", h.quote)
}

type quoteRequest struct {
	Cart         map[string]int  `json:"cart"`
	BoxSize      string          `json:"boxSize"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
}

func (h *Handler) quote(c *fiber.Ctx) error {
	payload := new(quoteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ShippingCost.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "shippingCost must be non-negative"})
	}

	breakdown, err := h.service.Quote(payload.Cart, payload.BoxSize, payload.ShippingCost)
	if err != nil {
		var unknown *UnknownProductError
		switch {
		case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidBoxSize), errors.As(err, &unknown):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(breakdown)
}
