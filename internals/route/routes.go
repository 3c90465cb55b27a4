// file: internals/route/routes.go
package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"soalklinis_backend/internals/configs"
	"soalklinis_backend/internals/features/auth/guard"
	authRoute "soalklinis_backend/internals/features/auth/route"
	authService "soalklinis_backend/internals/features/auth/service"
	genService "soalklinis_backend/internals/features/generator/service"
	progressRoute "soalklinis_backend/internals/features/progress/route"
	questionRoute "soalklinis_backend/internals/features/questions/route"
	systemRoute "soalklinis_backend/internals/features/systems/route"
	authMW "soalklinis_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, attempts *guard.Store) {
	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authSvc := authService.NewAuthService(attempts,
		configs.AdminEmail, configs.AdminPassword, configs.JWTSecret)
	authRoute.AuthRoutes(app, authSvc)

	// ===================== PROTECTED =====================
	log.Println("[INFO] Setting up protected /api group...")
	api := app.Group("/api", authMW.AuthMiddleware())

	gen := genService.NewGeneratorService(configs.GrokAPIKey)

	log.Println("[INFO] Mounting System routes...")
	systemRoute.SystemRoutes(api, db)

	log.Println("[INFO] Mounting Question routes...")
	questionRoute.QuestionRoutes(api, db, gen)

	log.Println("[INFO] Mounting Progress routes...")
	progressRoute.ProgressRoutes(api, db)
}
