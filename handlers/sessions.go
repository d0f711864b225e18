// handlers/sessions.go
package handlers

import (
	"errors"

	"arcade-room-system/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps a lifecycle error to its HTTP status. Every kind in the
// taxonomy gets a distinct status and keeps its own message; only unknown
// errors collapse to a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrMachineNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrMachineUnavailable),
		errors.Is(err, services.ErrInsufficientTokens):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrSessionAlreadyEnded),
		errors.Is(err, services.ErrActiveSessionExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"error": "internal failure", "cause": err.Error()})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func SetupSessionRoutes(app *fiber.App, sessionService *services.SessionService) {
	app.Get("/sessions", sessionService.GetActiveSessions)
	app.Get("/sessions/:id", sessionService.GetSessionByID)

	app.Post("/sessions", func(c *fiber.Ctx) error {
		type Req struct {
			PlayerID  string `json:"playerId"`
			MachineID string `json:"machineId"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
		}
		if req.PlayerID == "" || req.MachineID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "playerId and machineId are required"})
		}

		session, err := sessionService.StartSession(req.PlayerID, req.MachineID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	app.Patch("/sessions/:id/end", func(c *fiber.Ctx) error {
		result, err := sessionService.EndSession(c.Params("id"))
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(result)
	})
}
