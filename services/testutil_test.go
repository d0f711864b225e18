package services

import (
	"path/filepath"
	"testing"

	"arcade-room-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own file-backed database with the full
// schema, including the partial unique index on active sessions.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "arcade.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Game{},
		&models.Machine{},
		&models.Player{},
		&models.Session{},
		&models.Achievement{},
		&models.PlayerAchievement{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_active_pair ` +
			`ON sessions (player_id, machine_id) WHERE ended_at IS NULL`,
	).Error; err != nil {
		t.Fatalf("create active-session index: %v", err)
	}

	return db
}

func createGame(t *testing.T, db *gorm.DB, name string, tokensPerPlay int) models.Game {
	t.Helper()
	game := models.Game{ID: uuid.NewString(), Name: name, TokensPerPlay: tokensPerPlay}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func createMachine(t *testing.T, db *gorm.DB, gameID, status string) models.Machine {
	t.Helper()
	machine := models.Machine{ID: uuid.NewString(), GameID: gameID, Status: status}
	if err := db.Create(&machine).Error; err != nil {
		t.Fatalf("create machine: %v", err)
	}
	return machine
}

func createPlayer(t *testing.T, db *gorm.DB, name string, balance int) models.Player {
	t.Helper()
	player := models.Player{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        uuid.NewString() + "@test.com",
		TokenBalance: balance,
	}
	if err := db.Create(&player).Error; err != nil {
		t.Fatalf("create player: %v", err)
	}
	return player
}

func createAchievement(t *testing.T, db *gorm.DB, gameID, name string, playsRequired int) models.Achievement {
	t.Helper()
	achievement := models.Achievement{
		ID:            uuid.NewString(),
		GameID:        gameID,
		Name:          name,
		PlaysRequired: playsRequired,
	}
	if err := db.Create(&achievement).Error; err != nil {
		t.Fatalf("create achievement: %v", err)
	}
	return achievement
}
