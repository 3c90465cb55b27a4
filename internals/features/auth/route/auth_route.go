package route

import (
	"github.com/gofiber/fiber/v2"

	authController "soalklinis_backend/internals/features/auth/controller"
	authService "soalklinis_backend/internals/features/auth/service"
	"soalklinis_backend/internals/middlewares"
)

// AuthRoutes mounts the public login endpoint (burst-limited).
func AuthRoutes(app *fiber.App, svc *authService.AuthService) {
	ctrl := authController.NewAuthController(svc)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
}
