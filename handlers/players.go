// handlers/players.go
package handlers

import (
	"arcade-room-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPlayerRoutes(app *fiber.App, playerService *services.PlayerService) {
	app.Get("/players", playerService.GetAllPlayers)
	app.Get("/players/:id", playerService.GetPlayerByID)
	app.Get("/players/:id/stats", playerService.GetPlayerStats)

	// Live feed of newly earned achievements (SSE)
	app.Get("/players/:id/achievements/stream", playerService.StreamPlayerAchievements)
}
