package services

import (
	"arcade-room-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// EligibleAchievements returns every achievement whose threshold is met or
// exceeded by playCount. Ties (equal PlaysRequired) all qualify, and there is
// no upper bound: a count past every threshold returns every achievement.
func EligibleAchievements(playCount int, achievements []models.Achievement) []models.Achievement {
	var eligible []models.Achievement
	for _, a := range achievements {
		if a.PlaysRequired <= playCount {
			eligible = append(eligible, a)
		}
	}
	return eligible
}

// awardNewAchievements inserts a PlayerAchievement row for every eligible
// achievement the player does not already hold, and returns the ones inserted
// by this call. Must run inside the caller's transaction: a concurrent retry
// either sees the rows or conflicts on the (player_id, achievement_id)
// unique index.
func awardNewAchievements(tx *gorm.DB, playerID string, eligible []models.Achievement) ([]models.Achievement, error) {
	newlyEarned := []models.Achievement{}
	if len(eligible) == 0 {
		return newlyEarned, nil
	}

	ids := make([]string, 0, len(eligible))
	for _, a := range eligible {
		ids = append(ids, a.ID)
	}

	var existing []models.PlayerAchievement
	if err := tx.Where("player_id = ? AND achievement_id IN ?", playerID, ids).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(existing))
	for _, pa := range existing {
		held[pa.AchievementID] = true
	}

	for _, a := range eligible {
		if held[a.ID] {
			continue
		}
		pa := models.PlayerAchievement{
			ID:            uuid.NewString(),
			PlayerID:      playerID,
			AchievementID: a.ID,
		}
		if err := tx.Create(&pa).Error; err != nil {
			// a unique-index conflict here means we lost a race with a
			// concurrent award; abort the transaction and let the caller
			// resubmit — the index guarantees no duplicate row either way
			return nil, err
		}
		log.Infof("🏆 Achievement earned: %s → player %s", a.Name, playerID)
		newlyEarned = append(newlyEarned, a)
	}
	return newlyEarned, nil
}

// GetAchievementsByGame lists the milestones configured for one game.
func (s *AchievementService) GetAchievementsByGame(c *fiber.Ctx) error {
	var achievements []models.Achievement
	if err := s.DB.Where("game_id = ?", c.Params("id")).
		Order("plays_required ASC").
		Find(&achievements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch achievements"})
	}
	return c.JSON(achievements)
}
