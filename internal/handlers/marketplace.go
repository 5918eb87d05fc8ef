package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/middleware"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

// MarketplaceHandler handles asset listing and the rental/purchase routes.
type MarketplaceHandler struct {
	Assets       *services.AssetService
	Transactions *services.TransactionService
}

// ListMarketplace handles GET /api/marketplace/assets
// @Summary Browse the marketplace
// @Description Approved listings only; moderation gates visibility independently of availability
// @Tags Marketplace
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.Asset
// @Router /marketplace/assets [get]
func (h *MarketplaceHandler) ListMarketplace(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Assets.ListApproved(c.Context()))
}

// MyAssets handles GET /api/assets/mine
// @Summary List own asset listings
// @Tags Marketplace
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.Asset
// @Router /assets/mine [get]
func (h *MarketplaceHandler) MyAssets(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.Status(fiber.StatusOK).JSON(h.Assets.ListByOwner(c.Context(), user.ID))
}

// CreateAsset handles POST /api/assets
// @Summary Submit a listing
// @Description New listings enter pending moderation unless pre-validation already rejected them
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} models.Asset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /assets [post]
func (h *MarketplaceHandler) CreateAsset(c *fiber.Ctx) error {
	var input services.AssetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "asset.validation.input")
	}

	user := middleware.CurrentUser(c)
	asset, err := h.Assets.Create(c.Context(), user.ID, input)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "asset.create")
	}
	return c.Status(fiber.StatusCreated).JSON(asset)
}

// UpdateAsset handles PUT /api/assets/:id
// @Summary Update an owned listing
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /assets/{id} [put]
func (h *MarketplaceHandler) UpdateAsset(c *fiber.Ctx) error {
	var body struct {
		versionBody
		services.AssetInput
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "asset.validation.input")
	}

	user := middleware.CurrentUser(c)
	newRev, err := h.Assets.Update(c.Context(), body.Version.Uint64(), c.Params("id"), user.ID, body.AssetInput)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "asset.update")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// DeleteAsset handles DELETE /api/assets/:id
// @Summary Delete an owned listing
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assets/{id} [delete]
func (h *MarketplaceHandler) DeleteAsset(c *fiber.Ctx) error {
	var body versionBody
	// DELETE bodies are optional
	_ = c.BodyParser(&body)

	user := middleware.CurrentUser(c)
	callerID := user.ID
	if user.Role == models.RoleAdmin {
		callerID = ""
	}
	newRev, err := h.Assets.Delete(c.Context(), body.Version.Uint64(), c.Params("id"), callerID)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "asset.delete")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

type rentBody struct {
	Days int `json:"days"`
}

// Rent handles POST /api/assets/:id/rent
// @Summary Rent an asset
// @Description The asset must be available; on success it goes rented and a pending_approval transaction holds the deposit
// @Tags Marketplace
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} models.Transaction
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /assets/{id}/rent [post]
func (h *MarketplaceHandler) Rent(c *fiber.Ctx) error {
	var body rentBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "rent.validation.input")
	}

	user := middleware.CurrentUser(c)
	tx, err := h.Transactions.Rent(c.Context(), c.Params("id"), user.ID, body.Days)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "rent")
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// Purchase handles POST /api/assets/:id/purchase
// @Summary Purchase an asset
// @Tags Marketplace
// @Produce json
// @Security CookieAuth
// @Success 201 {object} models.Transaction
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /assets/{id}/purchase [post]
func (h *MarketplaceHandler) Purchase(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	tx, err := h.Transactions.Purchase(c.Context(), c.Params("id"), user.ID)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "purchase")
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// ListTransactions handles GET /api/transactions
// @Summary List transactions
// @Description Admins see everything; users see transactions they rent or own, newest first
// @Tags Marketplace
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.Transaction
// @Router /transactions [get]
func (h *MarketplaceHandler) ListTransactions(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	scope := user.ID
	if user.Role == models.RoleAdmin {
		scope = ""
	}
	return c.Status(fiber.StatusOK).JSON(h.Transactions.List(c.Context(), scope))
}
