package workers

import (
	"path/filepath"
	"testing"
	"time"

	"arcade-room-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "arcade.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Game{}, &models.Machine{}, &models.Player{}, &models.Session{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func TestSweepReleasesOrphanedMachines(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	game := models.Game{ID: uuid.NewString(), Name: "Pac-Man", TokensPerPlay: 2}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}

	// orphaned: in_use with no active session
	orphan := models.Machine{ID: uuid.NewString(), GameID: game.ID, Status: models.MachineInUse}
	// legitimately occupied
	occupied := models.Machine{ID: uuid.NewString(), GameID: game.ID, Status: models.MachineInUse}
	if err := db.Create(&[]models.Machine{orphan, occupied}).Error; err != nil {
		t.Fatalf("seed machines: %v", err)
	}
	session := models.Session{
		ID:        uuid.NewString(),
		PlayerID:  uuid.NewString(),
		MachineID: occupied.ID,
		StartedAt: time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	r := &Reconciler{DB: db, MaxSessionAge: 4 * time.Hour}
	r.sweep()

	var got models.Machine
	db.First(&got, "id = ?", orphan.ID)
	if got.Status != models.MachineAvailable {
		t.Fatalf("orphan status = %q, want available", got.Status)
	}
	// fresh struct: First would otherwise add the previous row's primary
	// key to the WHERE clause and match nothing
	got = models.Machine{}
	db.First(&got, "id = ?", occupied.ID)
	if got.Status != models.MachineInUse {
		t.Fatalf("occupied status = %q, want in_use", got.Status)
	}
}

func TestSweepLeavesMaintenanceAlone(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	game := models.Game{ID: uuid.NewString(), Name: "DDR", TokensPerPlay: 4}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}
	machine := models.Machine{ID: uuid.NewString(), GameID: game.ID, Status: models.MachineMaintenance}
	if err := db.Create(&machine).Error; err != nil {
		t.Fatalf("seed machine: %v", err)
	}

	r := &Reconciler{DB: db, MaxSessionAge: 4 * time.Hour}
	r.sweep()

	var got models.Machine
	db.First(&got, "id = ?", machine.ID)
	if got.Status != models.MachineMaintenance {
		t.Fatalf("status = %q, want maintenance untouched", got.Status)
	}
}
