package utils

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// ErrorResponse sends a standard error envelope.
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// VersionErrorResponse sends a version conflict error (409)
func VersionErrorResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"status":       fiber.StatusConflict,
		"message":      "E_VERSION - Refresh and reconcile with current version and retry.",
		"ok":           false,
		"versionError": true,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"url":          c.OriginalURL(),
		"type":         "version",
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":    fiber.StatusNotFound,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
	})
}

// MutationSuccessResponse sends a success response for mutations (POST/PUT/DELETE)
func MutationSuccessResponse(c *fiber.Ctx, newVersion uint64) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Success",
		"ok":         true,
		"newVersion": fmt.Sprintf("%d", newVersion),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// DomainErrorResponse maps a service error onto the envelope. Version
// conflicts get the dedicated 409 shape so clients can refresh-and-retry.
func DomainErrorResponse(c *fiber.Ctx, err error, errorType string) error {
	code := types.CodeOf(err)
	switch code {
	case types.ErrNotFound:
		return NotFoundResponse(c, err.Error())
	case types.ErrStaleVersion:
		return VersionErrorResponse(c)
	case types.ErrConflict, types.ErrAssetUnavailable:
		return ErrorResponse(c, err.Error(), fiber.StatusConflict, errorType)
	case types.ErrValidation, types.ErrDuplicateEmail:
		return ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	case types.ErrInvalidCredentials:
		return ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, errorType)
	case types.ErrAccountPending, types.ErrAccountRejected, types.ErrUnauthorized:
		return ErrorResponse(c, err.Error(), fiber.StatusForbidden, errorType)
	default:
		return ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status       int    `json:"status"`
	Message      string `json:"message"`
	Ok           bool   `json:"ok"`
	Timestamp    string `json:"timestamp"`
	URL          string `json:"url"`
	Type         string `json:"type,omitempty"`
	VersionError bool   `json:"versionError,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message    string `json:"message"`
	Ok         bool   `json:"ok"`
	NewVersion string `json:"newVersion"`
	Timestamp  string `json:"timestamp"`
}
