package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	progressController "soalklinis_backend/internals/features/progress/controller"
)

func ProgressRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := progressController.NewProgressController(db)
	api.Get("/progress", ctrl.Get)
}
