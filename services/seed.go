package services

import (
	"time"

	"arcade-room-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedDatabase loads the demo arcade floor: three games with machines and
// milestones, two players, and one session already mid-play. Runs only when
// the catalog is empty so restarts don't duplicate anything.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Game{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Seed skipped — catalog already populated")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		games := []models.Game{
			{ID: uuid.NewString(), Name: "Pac-Man", TokensPerPlay: 2},
			{ID: uuid.NewString(), Name: "Street Fighter", TokensPerPlay: 3},
			{ID: uuid.NewString(), Name: "Dance Dance Revolution", TokensPerPlay: 4},
		}
		for i := range games {
			games[i].Slug = slug.Make(games[i].Name)
		}
		if err := tx.Create(&games).Error; err != nil {
			return err
		}
		pacman, streetFighter, ddr := games[0], games[1], games[2]

		machines := []models.Machine{
			{ID: uuid.NewString(), GameID: pacman.ID, Status: models.MachineAvailable},
			{ID: uuid.NewString(), GameID: pacman.ID, Status: models.MachineAvailable},
			{ID: uuid.NewString(), GameID: streetFighter.ID, Status: models.MachineInUse},
			{ID: uuid.NewString(), GameID: ddr.ID, Status: models.MachineAvailable},
		}
		if err := tx.Create(&machines).Error; err != nil {
			return err
		}

		players := []models.Player{
			{ID: uuid.NewString(), Name: "John Doe", Email: "john@test.com", TokenBalance: 20},
			{ID: uuid.NewString(), Name: "Jane Smith", Email: "jane@test.com", TokenBalance: 15},
		}
		if err := tx.Create(&players).Error; err != nil {
			return err
		}

		achievements := []models.Achievement{
			{ID: uuid.NewString(), GameID: pacman.ID, Name: "Pac-Man Rookie", Description: "Play Pac-Man 3 times", PlaysRequired: 3},
			{ID: uuid.NewString(), GameID: pacman.ID, Name: "Pac-Man Pro", Description: "Play Pac-Man 10 times", PlaysRequired: 10},
			{ID: uuid.NewString(), GameID: streetFighter.ID, Name: "Fighter", Description: "Play Street Fighter 3 times", PlaysRequired: 3},
		}
		if err := tx.Create(&achievements).Error; err != nil {
			return err
		}

		// One session already running on the Street Fighter cabinet, to match
		// the in_use machine above.
		active := models.Session{
			ID:          uuid.NewString(),
			PlayerID:    players[0].ID,
			MachineID:   machines[2].ID,
			TokensSpent: streetFighter.TokensPerPlay,
			StartedAt:   time.Now(),
		}
		if err := tx.Create(&active).Error; err != nil {
			return err
		}

		log.Info("✅ Database seeded: 3 games, 4 machines, 2 players, 3 achievements")
		return nil
	})
}
