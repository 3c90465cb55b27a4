package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"soalklinis_backend/internals/features/systems/dto"
	"soalklinis_backend/internals/features/systems/model"
	helper "soalklinis_backend/internals/helpers"
)

type SystemController struct {
	DB *gorm.DB
}

func NewSystemController(db *gorm.DB) *SystemController {
	return &SystemController{DB: db}
}

// GET /api/systems — active systems ordered by topic ascending
func (ctrl *SystemController) List(c *fiber.Ctx) error {
	var systems []dto.SystemItem
	err := ctrl.DB.WithContext(c.UserContext()).
		Model(&model.SystemListModel{}).
		Select("id, topic").
		Where("is_active = ?", true).
		Order("topic ASC").
		Scan(&systems).Error
	if err != nil {
		log.Println("[ERROR] list systems:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error", "Failed to load systems")
	}
	if systems == nil {
		systems = []dto.SystemItem{}
	}
	return helper.JsonOK(c, systems)
}
