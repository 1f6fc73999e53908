package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const quoteTimeout = 10 * time.Second

type Handler struct {
	quoter Quoter
}

func NewHandler(quoter Quoter) *Handler {
	return &Handler{quoter: quoter}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/shipping/rates", h.getRates)
}

// getRates quotes shipping for ?zip=<postal code>. A carrier failure
// degrades to an empty rate list so checkout is never blocked on the
// rate API.
func (h *Handler) getRates(c *fiber.Ctx) error {
	zip := c.Query("zip")

	ctx, cancel := context.WithTimeout(c.UserContext(), quoteTimeout)
	defer cancel()

	rates, err := h.quoter.Rates(ctx, zip)
	if err != nil {
		fmt.Printf("warning: shipping quote failed for %q: %v\n", zip, err)
		return c.JSON(fiber.Map{"rates": []Rate{}, "message": "no rates available"})
	}
	return c.JSON(fiber.Map{"rates": rates})
}
