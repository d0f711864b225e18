package services

import (
	"errors"
	"time"

	"arcade-room-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SessionService owns the session lifecycle: start (charge tokens, occupy a
// machine) and end (free the machine, evaluate achievements). Every mutation
// runs inside a single transaction; state guards are conditional UPDATEs
// checked via RowsAffected so concurrent requests on the same entities cannot
// interleave a stale read-modify-write.
type SessionService struct {
	DB     *gorm.DB
	Events *EventPublisher // optional, nil when NATS is not configured

	// CountEndedOnly restricts the achievement play count to completed
	// sessions. Default (false) counts all sessions for the player on the
	// game, including the one being closed.
	CountEndedOnly bool
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// EndResult is what a successful end-session call returns: the closed session
// plus whatever achievements this call newly inserted (empty if none).
type EndResult struct {
	Session         *models.Session      `json:"session"`
	NewAchievements []models.Achievement `json:"new_achievements"`
}

// StartSession atomically verifies and transitions state, or fails without
// side effects:
//   - machine must exist and be available
//   - player must exist with balance >= the game's tokens per play
//   - the player must not already hold an active session on this machine
//
// On success the player is charged, the machine flips to in_use, and a new
// active session row is created with the cost snapshotted.
func (s *SessionService) StartSession(playerID, machineID string) (*models.Session, error) {
	var created models.Session

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var machine models.Machine
		if err := tx.Preload("Game").First(&machine, "id = ?", machineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMachineNotFound
			}
			return err
		}
		if machine.Status != models.MachineAvailable {
			return ErrMachineUnavailable
		}

		var player models.Player
		if err := tx.First(&player, "id = ?", playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return err
		}

		cost := machine.Game.TokensPerPlay
		if player.TokenBalance < cost {
			return ErrInsufficientTokens
		}

		// No two simultaneous sessions for the same (player, machine).
		// The partial unique index backs this check under concurrency.
		var active int64
		if err := tx.Model(&models.Session{}).
			Where("player_id = ? AND machine_id = ? AND ended_at IS NULL", playerID, machineID).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveSessionExists
		}

		// Guarded decrement: zero rows means a concurrent start drained
		// the balance after our read.
		res := tx.Model(&models.Player{}).
			Where("id = ? AND token_balance >= ?", playerID, cost).
			UpdateColumn("token_balance", gorm.Expr("token_balance - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientTokens
		}

		// Guarded status flip: zero rows means someone else took the machine.
		res = tx.Model(&models.Machine{}).
			Where("id = ? AND status = ?", machineID, models.MachineAvailable).
			Update("status", models.MachineInUse)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMachineUnavailable
		}

		created = models.Session{
			ID:          uuid.NewString(),
			PlayerID:    playerID,
			MachineID:   machineID,
			TokensSpent: cost,
			StartedAt:   time.Now(),
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrActiveSessionExists
			}
			return err
		}

		return tx.Preload("Player").Preload("Machine.Game").
			First(&created, "id = ?", created.ID).Error
	})
	if err != nil {
		return nil, err
	}

	log.Infof("🕹️ Session started: player %s on machine %s (%d tokens)",
		created.PlayerID, created.MachineID, created.TokensSpent)
	if s.Events != nil {
		s.Events.SessionStarted(&created)
	}
	return &created, nil
}

// EndSession closes an active session, frees its machine, and awards any
// achievements newly earned by the recomputed play count. The count, the diff
// against already-held achievements, and the inserts all happen in the same
// transaction as the close, so a session is never double-counted and an
// achievement never double-awarded under concurrent end requests.
func (s *SessionService) EndSession(sessionID string) (*EndResult, error) {
	var (
		session models.Session
		earned  []models.Achievement
	)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.EndedAt != nil {
			return ErrSessionAlreadyEnded
		}

		// Close via CAS: exactly one of two concurrent end requests wins;
		// the loser observes zero rows and reports AlreadyEnded.
		now := time.Now()
		res := tx.Model(&models.Session{}).
			Where("id = ? AND ended_at IS NULL", sessionID).
			Update("ended_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionAlreadyEnded
		}
		session.EndedAt = &now

		// Free the machine. Zero rows is fine here: an operator may have
		// moved it to maintenance mid-session, and then it stays there.
		if err := tx.Model(&models.Machine{}).
			Where("id = ? AND status = ?", session.MachineID, models.MachineInUse).
			Update("status", models.MachineAvailable).Error; err != nil {
			return err
		}

		var machine models.Machine
		if err := tx.First(&machine, "id = ?", session.MachineID).Error; err != nil {
			return err
		}

		// Recompute the play count from persisted rows inside this
		// transaction, never from a cached counter.
		count := tx.Model(&models.Session{}).
			Joins("JOIN machines ON machines.id = sessions.machine_id").
			Where("sessions.player_id = ? AND machines.game_id = ?", session.PlayerID, machine.GameID)
		if s.CountEndedOnly {
			count = count.Where("sessions.ended_at IS NOT NULL")
		}
		var plays int64
		if err := count.Count(&plays).Error; err != nil {
			return err
		}

		var achievements []models.Achievement
		if err := tx.Where("game_id = ?", machine.GameID).
			Order("plays_required ASC").
			Find(&achievements).Error; err != nil {
			return err
		}

		var err error
		earned, err = awardNewAchievements(tx, session.PlayerID, EligibleAchievements(int(plays), achievements))
		if err != nil {
			return err
		}

		return tx.Preload("Player").Preload("Machine.Game").
			First(&session, "id = ?", sessionID).Error
	})
	if err != nil {
		return nil, err
	}

	log.Infof("🛑 Session ended: %s (player %s, %d new achievements)",
		session.ID, session.PlayerID, len(earned))
	if s.Events != nil {
		s.Events.SessionEnded(&session)
		for i := range earned {
			s.Events.AchievementEarned(session.PlayerID, &earned[i])
		}
	}
	return &EndResult{Session: &session, NewAchievements: earned}, nil
}

// GetActiveSessions lists sessions still occupying a machine, joined with
// player and machine+game.
func (s *SessionService) GetActiveSessions(c *fiber.Ctx) error {
	var sessions []models.Session
	if err := s.DB.Where("ended_at IS NULL").
		Preload("Player").Preload("Machine.Game").
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch sessions"})
	}
	return c.JSON(sessions)
}

// GetSessionByID returns one session (active or historical) with joins.
func (s *SessionService) GetSessionByID(c *fiber.Ctx) error {
	var session models.Session
	if err := s.DB.Preload("Player").Preload("Machine.Game").
		First(&session, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch session"})
	}
	return c.JSON(session)
}
