package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"arcade-room-system/models"
	"arcade-room-system/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB

	game    models.Game
	machine models.Machine
	player  models.Player
}

func newTestEnv(t *testing.T) *testEnv {
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
		&models.Game{}, &models.Machine{}, &models.Player{},
		&models.Session{}, &models.Achievement{}, &models.PlayerAchievement{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_active_pair ` +
			`ON sessions (player_id, machine_id) WHERE ended_at IS NULL`,
	).Error; err != nil {
		t.Fatalf("create active-session index: %v", err)
	}

	env := &testEnv{db: db}
	env.game = models.Game{ID: uuid.NewString(), Name: "Pac-Man", Slug: "pac-man", TokensPerPlay: 2}
	if err := db.Create(&env.game).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}
	env.machine = models.Machine{ID: uuid.NewString(), GameID: env.game.ID, Status: models.MachineAvailable}
	if err := db.Create(&env.machine).Error; err != nil {
		t.Fatalf("seed machine: %v", err)
	}
	env.player = models.Player{ID: uuid.NewString(), Name: "John Doe", Email: "john@test.com", TokenBalance: 20}
	if err := db.Create(&env.player).Error; err != nil {
		t.Fatalf("seed player: %v", err)
	}
	rookie := models.Achievement{ID: uuid.NewString(), GameID: env.game.ID, Name: "Pac-Man Rookie", PlaysRequired: 3}
	if err := db.Create(&rookie).Error; err != nil {
		t.Fatalf("seed achievement: %v", err)
	}

	app := fiber.New()
	SetupSessionRoutes(app, services.NewSessionService(db))
	SetupPlayerRoutes(app, services.NewPlayerService(db))
	env.app = app
	return env
}

func (e *testEnv) request(t *testing.T, method, target string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// list responses are not objects; callers decode those themselves
			decoded = nil
		}
	}
	return resp, decoded
}

func TestPostSessionsCreates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	resp, body := env.request(t, http.MethodPost, "/sessions", map[string]string{
		"playerId":  env.player.ID,
		"machineId": env.machine.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %v)", resp.StatusCode, body)
	}
	if body["tokens_spent"].(float64) != 2 {
		t.Fatalf("tokens_spent = %v, want 2", body["tokens_spent"])
	}
	if body["ended_at"] != nil {
		t.Fatalf("ended_at = %v, want null", body["ended_at"])
	}
}

func TestPostSessionsValidationAndLookups(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodPost, "/sessions", map[string]string{"playerId": env.player.ID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing machineId: status = %d, want 400", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodPost, "/sessions", map[string]string{
		"playerId": env.player.ID, "machineId": "nope",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown machine: status = %d, want 404", resp.StatusCode)
	}

	env.db.Model(&models.Player{}).Where("id = ?", env.player.ID).Update("token_balance", 1)
	resp, body := env.request(t, http.MethodPost, "/sessions", map[string]string{
		"playerId": env.player.ID, "machineId": env.machine.ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("insufficient tokens: status = %d, want 400 (body: %v)", resp.StatusCode, body)
	}
}

func TestPatchSessionEndLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, created := env.request(t, http.MethodPost, "/sessions", map[string]string{
		"playerId": env.player.ID, "machineId": env.machine.ID,
	})
	sessionID := created["id"].(string)

	resp, body := env.request(t, http.MethodPatch, fmt.Sprintf("/sessions/%s/end", sessionID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end: status = %d, want 200 (body: %v)", resp.StatusCode, body)
	}
	session := body["session"].(map[string]interface{})
	if session["ended_at"] == nil {
		t.Fatal("session.ended_at not set")
	}
	if awards, ok := body["new_achievements"].([]interface{}); !ok || len(awards) != 0 {
		t.Fatalf("new_achievements = %v, want []", body["new_achievements"])
	}

	resp, _ = env.request(t, http.MethodPatch, fmt.Sprintf("/sessions/%s/end", sessionID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double end: status = %d, want 409", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodPatch, "/sessions/nope/end", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown session: status = %d, want 404", resp.StatusCode)
	}
}

func TestPlayerStatsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for i := 0; i < 2; i++ {
		_, created := env.request(t, http.MethodPost, "/sessions", map[string]string{
			"playerId": env.player.ID, "machineId": env.machine.ID,
		})
		env.request(t, http.MethodPatch, fmt.Sprintf("/sessions/%s/end", created["id"].(string)), nil)
	}

	resp, body := env.request(t, http.MethodGet, fmt.Sprintf("/players/%s/stats", env.player.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status = %d, want 200", resp.StatusCode)
	}
	if body["total_sessions"].(float64) != 2 {
		t.Fatalf("total_sessions = %v, want 2", body["total_sessions"])
	}
	if body["total_tokens_spent"].(float64) != 4 {
		t.Fatalf("total_tokens_spent = %v, want 4", body["total_tokens_spent"])
	}
}
