package services

import (
	"testing"

	"arcade-room-system/models"
)

func TestSeedDatabaseIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if err := SeedDatabase(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := SeedDatabase(db); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	var games, machines, players, achievements int64
	db.Model(&models.Game{}).Count(&games)
	db.Model(&models.Machine{}).Count(&machines)
	db.Model(&models.Player{}).Count(&players)
	db.Model(&models.Achievement{}).Count(&achievements)

	if games != 3 || machines != 4 || players != 2 || achievements != 3 {
		t.Fatalf("counts = %d/%d/%d/%d, want 3/4/2/3", games, machines, players, achievements)
	}

	var game models.Game
	if err := db.First(&game, "slug = ?", "pac-man").Error; err != nil {
		t.Fatalf("slug lookup: %v", err)
	}

	// the in_use cabinet has its seeded active session
	var active int64
	db.Model(&models.Session{}).Where("ended_at IS NULL").Count(&active)
	if active != 1 {
		t.Fatalf("active sessions = %d, want 1", active)
	}
}
