package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/ai"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/middleware"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

// ChatHandler handles the health-chat routes.
type ChatHandler struct {
	Chat *services.ChatService
}

type chatTurnBody struct {
	Text      string        `json:"text"`
	History   []ai.ChatTurn `json:"history"`
	NurseMode bool          `json:"nurseMode"`
}

// Message handles POST /api/chat/message
// @Summary Send a health-chat turn
// @Description Classifies the turn for escalation before generating a reply; escalated turns persist an audit entry unconditionally
// @Tags Chat
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} services.TurnResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /chat/message [post]
func (h *ChatHandler) Message(c *fiber.Ctx) error {
	var body chatTurnBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "chat.validation.input")
	}
	if body.Text == "" {
		return utils.ErrorResponse(c, "Message text is required", fiber.StatusBadRequest, "chat.validation.input")
	}

	user := middleware.CurrentUser(c)
	result := h.Chat.HandleTurn(c.Context(), user, body.Text, body.History, body.NurseMode)
	return c.Status(fiber.StatusOK).JSON(result)
}

// ListLog handles GET /api/chat/log
// @Summary List persisted chat messages, newest first
// @Tags Chat
// @Produce json
// @Security CookieAuth
// @Success 200 {array} models.ChatMessage
// @Router /chat/log [get]
func (h *ChatHandler) ListLog(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(h.Chat.List(c.Context()))
}

// SaveLog handles POST /api/chat/log
// @Summary Durably save a chat message
// @Tags Chat
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 201 {object} models.ChatMessage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /chat/log [post]
func (h *ChatHandler) SaveLog(c *fiber.Ctx) error {
	var msg models.ChatMessage
	if err := c.BodyParser(&msg); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "chat.validation.input")
	}

	saved, err := h.Chat.SaveMessage(c.Context(), msg)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "chat.save")
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// DeleteLog handles DELETE /api/chat/log/:id
// @Summary Delete a persisted chat message
// @Tags Chat
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /chat/log/{id} [delete]
func (h *ChatHandler) DeleteLog(c *fiber.Ctx) error {
	var body versionBody
	_ = c.BodyParser(&body)

	newRev, err := h.Chat.DeleteMessage(c.Context(), body.Version.Uint64(), c.Params("id"))
	if err != nil {
		return utils.DomainErrorResponse(c, err, "chat.delete")
	}
	return utils.MutationSuccessResponse(c, newRev)
}
