package order

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/johnsonproduce/produce-box-backend/internal/pricing"
)

// ZelleInstructions are shown to manual-transfer buyers alongside the order
// id; completion is self-reported and reconciled by an administrator.
var ZelleInstructions = fiber.Map{
	"method":    "Zelle",
	"recipient": "payments@johnsonproduce.com",
	"note":      "Include your Order ID in the payment memo",
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createCardOrder)
	app.Post("/api/v1/orders/manual", h.createManualOrder)
	app.Get("/api/v1/orders/:orderId", h.getOrder)
}

// RegisterAdminRoutes registers order management on the JWT-protected admin
// group.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/orders", h.listOrders)
	admin.Put("/orders/:orderId", h.updateStatus)
}

type createOrderRequest struct {
	Customer        CustomerInfo    `json:"customerInfo"`
	Cart            map[string]int  `json:"cart"`
	BoxSize         string          `json:"boxSize"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	PaymentIntentID string          `json:"paymentIntentId"`
}

func (h *Handler) createCardOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.PaymentIntentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "paymentIntentId is required"})
	}
	return h.checkout(c, CheckoutRequest{
		Customer:     payload.Customer,
		Cart:         payload.Cart,
		BoxSize:      payload.BoxSize,
		ShippingCost: payload.ShippingCost,
		PaymentRef:   payload.PaymentIntentID,
	}, nil)
}

func (h *Handler) createManualOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return h.checkout(c, CheckoutRequest{
		Customer:     payload.Customer,
		Cart:         payload.Cart,
		BoxSize:      payload.BoxSize,
		ShippingCost: payload.ShippingCost,
	}, ZelleInstructions)
}

func (h *Handler) checkout(c *fiber.Ctx, req CheckoutRequest, instructions fiber.Map) error {
	ord, err := h.service.Checkout(req)
	if err != nil {
		var unknown *pricing.UnknownProductError
		switch {
		case errors.Is(err, ErrMissingCustomerInfo),
			errors.Is(err, pricing.ErrEmptyCart),
			errors.Is(err, pricing.ErrInvalidQuantity),
			errors.Is(err, pricing.ErrInvalidBoxSize),
			errors.As(err, &unknown):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "order store is not configured"})
		default:
			fmt.Printf("error: order persistence failed: %v\n", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to save order"})
		}
	}

	resp := fiber.Map{"order": ord}
	if instructions != nil {
		resp["paymentInstructions"] = instructions
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	ord, err := h.service.GetByID(c.Params("orderId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.Is(err, ErrUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "order store is not configured"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(ord)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	status := Status(c.Query("status"))
	if status != "" && !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status filter"})
	}

	orders, err := h.service.List(status)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			// non-critical read: degrade to an empty list with a message
			return c.JSON(fiber.Map{"orders": []Order{}, "message": "order store is not configured"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"orders": orders})
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	payload := new(updateStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if !payload.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status"})
	}

	err := h.service.SetStatus(c.Params("orderId"), payload.Status)
	if err != nil {
		var invalid *InvalidTransitionError
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case errors.As(err, &invalid):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, ErrUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "order store is not configured"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"success": true})
}
