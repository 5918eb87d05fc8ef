package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/middleware"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

// AdminHandler handles the back-office routes.
type AdminHandler struct {
	Users        *services.UserService
	Assets       *services.AssetService
	Transactions *services.TransactionService
	Tickets      *services.TicketService
	Catalog      *services.CatalogService
}

// ListUsers handles GET /api/admin/users
// @Summary List all accounts
// @Description Credential fields are never exposed
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.UserAccount
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Users.List(c.Context()))
}

type approvalBody struct {
	versionBody
	Status models.ApprovalStatus `json:"status"`
}

// SetApproval handles POST /api/admin/users/:id/approval
// @Summary Approve or reject an account
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/users/{id}/approval [post]
func (h *AdminHandler) SetApproval(c *fiber.Ctx) error {
	var body approvalBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}

	newRev, err := h.Users.SetApproval(c.Context(), body.Version.Uint64(), c.Params("id"), body.Status)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.approval")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

type roleBody struct {
	versionBody
	Role models.Role `json:"role"`
}

// SetRole handles POST /api/admin/users/:id/role
// @Summary Change an account's role
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/users/{id}/role [post]
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	var body roleBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}

	newRev, err := h.Users.SetRole(c.Context(), body.Version.Uint64(), c.Params("id"), body.Role)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.role")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// ListAllAssets handles GET /api/admin/assets
// @Summary List all listings regardless of moderation state
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.Asset
// @Router /admin/assets [get]
func (h *AdminHandler) ListAllAssets(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Assets.ListAll(c.Context()))
}

type moderationBody struct {
	versionBody
	Status models.ModerationStatus `json:"status"`
	Reason string                  `json:"reason"`
}

// ModerateAsset handles POST /api/admin/assets/:id/moderate
// @Summary Apply a moderation decision to a listing
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/assets/{id}/moderate [post]
func (h *AdminHandler) ModerateAsset(c *fiber.Ctx) error {
	var body moderationBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}

	newRev, err := h.Assets.Moderate(c.Context(), body.Version.Uint64(), c.Params("id"), body.Status, body.Reason)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.moderate")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// Dispatch handles POST /api/transactions/:id/dispatch
// @Summary Dispatch a pending transaction
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /transactions/{id}/dispatch [post]
func (h *AdminHandler) Dispatch(c *fiber.Ctx) error {
	return h.transition(c, h.Transactions.Dispatch)
}

// ConfirmDelivery handles POST /api/transactions/:id/deliver
// @Summary Confirm delivery of an in-transit transaction
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /transactions/{id}/deliver [post]
func (h *AdminHandler) ConfirmDelivery(c *fiber.Ctx) error {
	return h.transition(c, h.Transactions.ConfirmDelivery)
}

// ProcessReturn handles POST /api/transactions/:id/return
// @Summary Process a return
// @Description Releases the deposit and reverts the asset to available
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /transactions/{id}/return [post]
func (h *AdminHandler) ProcessReturn(c *fiber.Ctx) error {
	return h.transition(c, h.Transactions.ProcessReturn)
}

// Dispute handles POST /api/transactions/:id/dispute
// @Summary Flag a transaction as disputed
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /transactions/{id}/dispute [post]
func (h *AdminHandler) Dispute(c *fiber.Ctx) error {
	return h.transition(c, h.Transactions.Dispute)
}

// transition parses the shared version body and applies one admin-driven
// transaction transition.
func (h *AdminHandler) transition(c *fiber.Ctx, op func(ctx context.Context, rev uint64, txID string) (uint64, error)) error {
	var body versionBody
	_ = c.BodyParser(&body)

	newRev, err := op(c.Context(), body.Version.Uint64(), c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.transaction")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// ListTickets handles GET /api/tickets (admin scope)
// @Summary List all support tickets
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.SupportTicket
// @Router /tickets [get]
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	scope := user.ID
	if user.Role == models.RoleAdmin {
		scope = ""
	}
	return c.Status(fiber.StatusOK).JSON(h.Tickets.List(c.Context(), scope))
}

type resolveBody struct {
	versionBody
	Reply string `json:"reply"`
}

// ResolveTicket handles POST /api/tickets/:id/resolve
// @Summary Resolve a ticket with an admin reply
// @Description One-shot; a resolved ticket cannot be reopened or re-resolved
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /tickets/{id}/resolve [post]
func (h *AdminHandler) ResolveTicket(c *fiber.Ctx) error {
	var body resolveBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}

	newRev, err := h.Tickets.Resolve(c.Context(), body.Version.Uint64(), c.Params("id"), body.Reply)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.ticket.resolve")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// CreateProduct handles POST /api/products
// @Summary Add a catalog product
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var input services.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}

	product, err := h.Catalog.CreateProduct(c.Context(), input)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.product.create")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PUT /api/products/:id
// @Summary Update a catalog product
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [put]
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	var body struct {
		versionBody
		services.ProductInput
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}

	newRev, err := h.Catalog.UpdateProduct(c.Context(), body.Version.Uint64(), c.Params("id"), body.ProductInput)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.product.update")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// DeleteProduct handles DELETE /api/products/:id
// @Summary Remove a catalog product
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	var body versionBody
	_ = c.BodyParser(&body)

	newRev, err := h.Catalog.DeleteProduct(c.Context(), body.Version.Uint64(), c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.product.delete")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// GetSettings handles GET /api/admin/settings
// @Summary Read organization settings
// @Tags Admin
// @Produce json
// @Security CookieAuth
// @Success 200 {object} models.AppSettings
// @Router /admin/settings [get]
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Catalog.GetSettings(c.Context()))
}

type settingsBody struct {
	versionBody
	models.AppSettings
}

// UpdateSettings handles PUT /api/admin/settings
// @Summary Overwrite organization settings
// @Tags Admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var body settingsBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}

	newRev, err := h.Catalog.UpdateSettings(c.Context(), body.Version.Uint64(), body.AppSettings)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "admin.settings.update")
	}
	return utils.MutationSuccessResponse(c, newRev)
}
