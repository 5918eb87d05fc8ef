package handlers

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/ai"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/middleware"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

// AuthHandler handles registration, login and profile routes.
type AuthHandler struct {
	Auth       *services.AuthService
	Users      *services.UserService
	Media      ai.Uploader
	SessionTTL time.Duration
	Logger     *zap.Logger
}

// Register handles POST /api/auth/register
// @Summary Register a new account
// @Description Create an account; it starts pending approval and cannot log in yet
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} models.UserAccount
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}

	user, err := h.Auth.Register(c.Context(), input)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "register")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Authenticate and receive a session cookie; pending and rejected accounts are refused with a distinguishing message
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} models.UserAccount
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}

	user, err := h.Auth.Authenticate(c.Context(), body.Email, body.Password)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "login")
	}

	token, err := h.Auth.CreateSession(user)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "login.session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.SessionTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.Auth.DeleteSession(c.Cookies(services.SessionCookieName))
	c.ClearCookie(services.SessionCookieName)
	return utils.MutationSuccessResponse(c, 0)
}

// GetProfile handles GET /api/profile
// @Summary Current account profile
// @Tags Profile
// @Produce json
// @Security CookieAuth
// @Success 200 {object} models.UserAccount
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	session := middleware.CurrentUser(c)
	user, err := h.Users.Get(c.Context(), session.ID)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "profile.get")
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateProfile handles PUT /api/profile
// @Summary Update profile fields
// @Description Updates name/phone; the stored credential is preserved no matter what the payload contains
// @Tags Profile
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var body struct {
		versionBody
		services.ProfileUpdate
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "profile.validation.input")
	}

	user := middleware.CurrentUser(c)
	newRev, err := h.Users.UpdateProfile(c.Context(), body.Version.Uint64(), user.ID, body.ProfileUpdate)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "profile.update")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// SubmitKYC handles POST /api/profile/kyc
// @Summary Submit ID documents for verification
// @Description Uploads front and back ID images; the account returns to pending review
// @Tags Profile
// @Accept mpfd
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /profile/kyc [post]
func (h *AuthHandler) SubmitKYC(c *fiber.Ctx) error {
	frontURL, err := h.uploadFormFile(c, "idFront")
	if err != nil {
		return utils.ErrorResponse(c, "ID front image is required", fiber.StatusBadRequest, "kyc.validation.input")
	}
	backURL, err := h.uploadFormFile(c, "idBack")
	if err != nil {
		return utils.ErrorResponse(c, "ID back image is required", fiber.StatusBadRequest, "kyc.validation.input")
	}

	user := middleware.CurrentUser(c)
	newRev, err := h.Users.SubmitKYC(c.Context(), user.ID, frontURL, backURL)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "kyc.submit")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

type locationBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RecordLocation handles POST /api/profile/location
// @Summary Record last known location
// @Tags Profile
// @Accept json
// @Produce json
// @Security CookieAuth
// @Success 200 {object} utils.SuccessResponseStruct
// @Router /profile/location [post]
func (h *AuthHandler) RecordLocation(c *fiber.Ctx) error {
	var body locationBody
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "location.validation.input")
	}

	user := middleware.CurrentUser(c)
	newRev, err := h.Users.RecordLocation(c.Context(), user.ID, body.Lat, body.Lng)
	if err != nil {
		return utils.DomainErrorResponse(c, err, "location.record")
	}
	return utils.MutationSuccessResponse(c, newRev)
}

// uploadFormFile reads one multipart file and stores it with the media
// provider, inlining it as a data URL when the provider is down.
func (h *AuthHandler) uploadFormFile(c *fiber.Ctx, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	url, inlined := ai.UploadOrInline(c.Context(), h.Media, fileHeader.Filename, data)
	if inlined {
		h.Logger.Warn("media provider unreachable, inlined upload",
			zap.String("field", field), zap.Int("bytes", len(data)))
	}
	return url, nil
}
