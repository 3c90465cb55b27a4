package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	genService "soalklinis_backend/internals/features/generator/service"
	questionController "soalklinis_backend/internals/features/questions/controller"
)

func QuestionRoutes(api fiber.Router, db *gorm.DB, gen *genService.GeneratorService) {
	ctrl := questionController.NewQuestionController(db, gen)

	questions := api.Group("/questions")
	questions.Get("/", ctrl.List)
	questions.Get("/:id", ctrl.GetByID)
	questions.Get("/:id/before", ctrl.GetBefore)
	questions.Post("/:id/generate", ctrl.Generate)
	questions.Patch("/:id", ctrl.Patch)
	questions.Patch("/:id/accept", ctrl.Accept)
}
