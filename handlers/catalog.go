// handlers/catalog.go
package handlers

import (
	"arcade-room-system/middleware"
	"arcade-room-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, catalogService *services.CatalogService, achievementService *services.AchievementService) {
	// 🔓 Public read-only catalog
	app.Get("/games", catalogService.GetAllGames)
	app.Get("/games/:id", catalogService.GetGameByID)
	app.Get("/games/:id/achievements", achievementService.GetAchievementsByGame)

	app.Get("/machines", catalogService.GetAllMachines)
	app.Get("/machines/:id", catalogService.GetMachineByID)

	// 🔐 Operator routes — require the admin token
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())
	admin.Post("/games/:id/artwork", catalogService.UploadArtwork)
	admin.Patch("/machines/:id/status", catalogService.SetMachineStatus)
}
