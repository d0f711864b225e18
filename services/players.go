package services

import (
	"errors"

	"arcade-room-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PlayerService struct {
	DB *gorm.DB
}

func NewPlayerService(db *gorm.DB) *PlayerService {
	return &PlayerService{DB: db}
}

func (s *PlayerService) GetAllPlayers(c *fiber.Ctx) error {
	var players []models.Player
	if err := s.DB.Order("name ASC").Find(&players).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch players"})
	}
	return c.JSON(players)
}

func (s *PlayerService) GetPlayerByID(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.Preload("Achievements.Achievement").
		First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch player"})
	}
	return c.JSON(player)
}

// PlayerStats aggregates a player's lifetime activity. Play time only counts
// completed sessions; an active session contributes tokens but no duration
// until it ends.
type PlayerStats struct {
	Player           *models.Player       `json:"player"`
	TotalTokensSpent int                  `json:"total_tokens_spent"`
	TotalPlayTimeMS  int64                `json:"total_play_time_ms"`
	TotalSessions    int                  `json:"total_sessions"`
	Achievements     []models.Achievement `json:"achievements"`
}

// GetPlayerStats computes totals from persisted sessions on every call.
func (s *PlayerService) GetPlayerStats(c *fiber.Ctx) error {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch player"})
	}

	var sessions []models.Session
	if err := s.DB.Where("player_id = ?", player.ID).Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch sessions"})
	}

	stats := PlayerStats{
		Player:        &player,
		TotalSessions: len(sessions),
		Achievements:  []models.Achievement{},
	}
	for _, sess := range sessions {
		stats.TotalTokensSpent += sess.TokensSpent
		if sess.EndedAt != nil {
			stats.TotalPlayTimeMS += sess.EndedAt.Sub(sess.StartedAt).Milliseconds()
		}
	}

	var earned []models.PlayerAchievement
	if err := s.DB.Preload("Achievement").
		Where("player_id = ?", player.ID).
		Order("earned_at ASC").
		Find(&earned).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch achievements"})
	}
	for _, pa := range earned {
		stats.Achievements = append(stats.Achievements, pa.Achievement)
	}

	return c.JSON(stats)
}
