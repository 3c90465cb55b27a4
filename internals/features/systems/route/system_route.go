package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	systemController "soalklinis_backend/internals/features/systems/controller"
)

func SystemRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := systemController.NewSystemController(db)
	api.Get("/systems", ctrl.List)
}
