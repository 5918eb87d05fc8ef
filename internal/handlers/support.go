package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/middleware"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

// SupportHandler handles the user-facing shop and ticket routes.
type SupportHandler struct {
	Tickets *services.TicketService
	Catalog *services.CatalogService
}

// ListProducts handles GET /api/products
// @Summary Browse the shop catalog
// @Tags Shop
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *SupportHandler) ListProducts(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Catalog.ListProducts(c.Context()))
}

// CreateTicket handles POST /api/tickets
// @Summary Open a support ticket
// @Tags Support
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} models.SupportTicket
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tickets [post]
func (h *SupportHandler) CreateTicket(c *fiber.Ctx) error {
	var input services.TicketInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "ticket.validation.input")
	}

	user := middleware.CurrentUser(c)
	ticket, err := h.Tickets.Create(c.Context(), user.ID, user.Name, input)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "ticket.create")
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}
