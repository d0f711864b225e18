package services

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arcade-room-system/models"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StreamPlayerAchievements streams achievements as the player earns them,
// polling the player_achievements table on a cursor so a client following the
// stream sees each award exactly once.
func (s *PlayerService) StreamPlayerAchievements(c *fiber.Ctx) error {
	playerID := c.Params("id")

	var player models.Player
	if err := s.DB.First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch player"})
	}

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	// Use fasthttp stream writer (THIS replaces Flush)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		var lastEarnedAt time.Time

		// Initialize cursor at the newest existing award
		var latest models.PlayerAchievement
		if err := s.DB.
			Where("player_id = ?", playerID).
			Order("earned_at DESC").
			First(&latest).Error; err == nil {
			lastEarnedAt = latest.EarnedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorf("SSE init error for player %s: %v", playerID, err)
		}

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		w.Flush()

		for {
			select {
			case <-ticker.C:
				var awards []models.PlayerAchievement

				err := s.DB.
					Preload("Achievement").
					Where("player_id = ? AND earned_at > ?", playerID, lastEarnedAt).
					Order("earned_at ASC").
					Find(&awards).Error
				if err != nil {
					log.Errorf("SSE query error for player %s: %v", playerID, err)
					continue
				}

				if len(awards) == 0 {
					continue
				}

				lastEarnedAt = awards[len(awards)-1].EarnedAt

				for _, a := range awards {
					payload, _ := json.Marshal(a)
					fmt.Fprintf(w, "event: achievement\ndata: %s\n\n", payload)
				}

				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-c.Context().Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
