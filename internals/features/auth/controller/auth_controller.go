package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	authService "soalklinis_backend/internals/features/auth/service"
	helper "soalklinis_backend/internals/helpers"
)

type AuthController struct {
	Service *authService.AuthService
}

func NewAuthController(svc *authService.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Bad Request", "Invalid login payload")
	}

	res, err := ctrl.Service.Login(c.IP(), req.Email, req.Password)
	if err != nil {
		log.Println("[ERROR] login token mint failed:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to issue token")
	}

	if res.Granted {
		return helper.JsonOK(c, fiber.Map{"token": res.Token})
	}

	if res.Reason == authService.ReasonLockout {
		return helper.JsonError(c, fiber.StatusTooManyRequests,
			"Too many login attempts", "Please try again after 24 hours")
	}

	return helper.JsonAuthFailed(c, "Invalid email or password", res.AttemptsLeft)
}
