package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"
)

// UserLocal is the fiber context key holding the authenticated account.
const UserLocal = "user"

// AuthUser validates that the request carries a valid session of any role.
func AuthUser(auth *services.AuthService) fiber.Handler {
	return authorize(auth, "data.authorization.user")
}

// AuthNurse validates that the request carries a nurse or admin session.
func AuthNurse(auth *services.AuthService) fiber.Handler {
	return authorize(auth, "data.authorization.nurse", models.RoleNurse, models.RoleAdmin)
}

// AuthAdmin validates that the request carries an admin session.
func AuthAdmin(auth *services.AuthService) fiber.Handler {
	return authorize(auth, "data.authorization.admin", models.RoleAdmin)
}

// authorize performs the session and role check and stashes the account in
// the request context.
func authorize(auth *services.AuthService, errorType string, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(services.SessionCookieName)
		user, err := auth.ValidateSession(token, roles...)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, errorType)
		}
		c.Locals(UserLocal, user)
		return c.Next()
	}
}

// CurrentUser retrieves the authenticated account stored by authorize.
func CurrentUser(c *fiber.Ctx) models.UserAccount {
	if user, ok := c.Locals(UserLocal).(models.UserAccount); ok {
		return user
	}
	return models.UserAccount{}
}
