package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"soalklinis_backend/internals/features/questions/repository"
	helper "soalklinis_backend/internals/helpers"
)

type ProgressController struct {
	Repo *repository.QuestionRepository
}

func NewProgressController(db *gorm.DB) *ProgressController {
	return &ProgressController{Repo: repository.NewQuestionRepository(db)}
}

// GET /api/progress — review completion counters
func (ctrl *ProgressController) Get(c *fiber.Ctx) error {
	updated, total, err := ctrl.Repo.CountByStatus(c.UserContext())
	if err != nil {
		log.Println("[ERROR] progress counts:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to load progress")
	}
	return helper.JsonOK(c, fiber.Map{
		"updatedCount": updated,
		"totalCount":   total,
	})
}
