package services

import (
	"errors"
	"path/filepath"

	"arcade-room-system/models"
	"arcade-room-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CatalogService serves the read-only game/machine catalog plus the operator
// endpoints that manage it (artwork upload, maintenance toggles).
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// GetAllGames lists every game with its machines and achievement milestones.
func (s *CatalogService) GetAllGames(c *fiber.Ctx) error {
	var games []models.Game
	if err := s.DB.Preload("Machines").Preload("Achievements").
		Order("name ASC").
		Find(&games).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

// GetGameByID accepts either a game id or its slug.
func (s *CatalogService) GetGameByID(c *fiber.Ctx) error {
	key := c.Params("id")
	var game models.Game
	if err := s.DB.Preload("Machines").Preload("Achievements").
		First(&game, "id = ? OR slug = ?", key, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}
	return c.JSON(game)
}

// UploadArtwork attaches marquee/cabinet art to a game. Small public asset →
// R2 when configured, local uploads/ fallback otherwise.
func (s *CatalogService) UploadArtwork(c *fiber.Ctx) error {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}

	file, err := c.FormFile("artwork")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "artwork file is required"})
	}
	if file.Size > 10*1024*1024 { // 10MB
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "artwork too large (max 10MB)"})
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".png"
	}

	var artworkURL string
	if utils.R2Enabled() {
		key := "artwork/" + uuid.NewString() + ext
		artworkURL, err = utils.UploadFileToR2(file, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload artwork to R2"})
		}
	} else {
		localPath := utils.GetUploadPath("artwork/" + uuid.NewString() + ext)
		if err := utils.SaveFile(file, localPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save artwork"})
		}
		artworkURL = "/" + localPath
	}

	if err := s.DB.Model(&game).Update("artwork_url", artworkURL).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update game"})
	}

	log.Infof("🖼️ Artwork updated for game %s → %s", game.Name, artworkURL)
	return c.JSON(fiber.Map{"artwork_url": artworkURL})
}

// GetAllMachines lists machines with their game and live status.
func (s *CatalogService) GetAllMachines(c *fiber.Ctx) error {
	var machines []models.Machine
	if err := s.DB.Preload("Game").Find(&machines).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch machines"})
	}
	return c.JSON(machines)
}

// GetMachineByID returns one machine with its game and the session currently
// occupying it, if any.
func (s *CatalogService) GetMachineByID(c *fiber.Ctx) error {
	var machine models.Machine
	if err := s.DB.Preload("Game").
		Preload("Sessions", "ended_at IS NULL").
		Preload("Sessions.Player").
		First(&machine, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "machine not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch machine"})
	}
	return c.JSON(machine)
}

// SetMachineStatus lets an operator take a machine in or out of maintenance.
// A machine mid-session cannot be touched: in_use belongs to the lifecycle.
func (s *CatalogService) SetMachineStatus(c *fiber.Ctx) error {
	type Req struct {
		Status string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if !models.ValidOperatorStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be 'available' or 'maintenance'"})
	}

	var machine models.Machine
	if err := s.DB.First(&machine, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "machine not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch machine"})
	}
	if machine.Status == models.MachineInUse {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "machine is in use — end the session first"})
	}

	// Guarded update so a session starting concurrently wins the race.
	res := s.DB.Model(&models.Machine{}).
		Where("id = ? AND status <> ?", machine.ID, models.MachineInUse).
		Update("status", req.Status)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update machine"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "machine is in use — end the session first"})
	}

	log.Infof("🔧 Machine %s status set to %s", machine.ID, req.Status)
	machine.Status = req.Status
	return c.JSON(machine)
}
