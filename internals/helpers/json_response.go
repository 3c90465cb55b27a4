// file: internals/helpers/json_response.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Error helpers (standard shape)

   The review client consumes {error, message} bodies; keep that shape
   for every non-2xx response.
=================================*/

type ErrorBody struct {
	Error        string `json:"error"`
	Message      string `json:"message,omitempty"`
	AttemptsLeft *int   `json:"attemptsLeft,omitempty"`
}

// JsonError: generic error body ({error, message})
func JsonError(c *fiber.Ctx, status int, errTitle, message string) error {
	if strings.TrimSpace(errTitle) == "" {
		errTitle = "Error"
	}
	return c.Status(status).JSON(ErrorBody{Error: errTitle, Message: message})
}

// JsonAuthFailed: failed login with the remaining attempt budget
func JsonAuthFailed(c *fiber.Ctx, message string, attemptsLeft int) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorBody{
		Error:        "Authentication failed",
		Message:      message,
		AttemptsLeft: &attemptsLeft,
	})
}

// JsonUnauthorized: 401 with a reason the client can distinguish
// (Authentication required / Token expired / Invalid token)
func JsonUnauthorized(c *fiber.Ctx, message string) error {
	return JsonError(c, fiber.StatusUnauthorized, "Unauthorized", message)
}

/* ===============================
   Success helpers
=================================*/

// JsonOK: plain 200 payload (the API predates envelope responses;
// callers rely on the bare shape)
func JsonOK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(data)
}

// JsonSuccess: mutation acknowledgement ({success:true})
func JsonSuccess(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
