package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"arcade-room-system/handlers"
	"arcade-room-system/models"
	"arcade-room-system/services"
	"arcade-room-system/utils"
	"arcade-room-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // 16MB — artwork uploads only
	})

	// CORS for the SPA frontend
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Admin-Token",
		ExposeHeaders:    "Content-Length, Content-Type",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Game{},
		&models.Machine{},
		&models.Player{},
		&models.Session{},
		&models.Achievement{},
		&models.PlayerAchievement{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Uniqueness is scoped to *active* sessions: no two simultaneous
	// sessions for the same (player, machine), repeat history allowed.
	// AutoMigrate can't express a partial index, so raw DDL.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_active_pair ` +
			`ON sessions (player_id, machine_id) WHERE ended_at IS NULL`,
	).Error; err != nil {
		log.Fatal("failed to create active-session index:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	if strings.ToLower(os.Getenv("SEED_DB")) == "true" {
		if err := services.SeedDatabase(db); err != nil {
			log.Fatal("failed to seed database:", err)
		}
	}

	sessionService := services.NewSessionService(db)
	sessionService.CountEndedOnly = strings.ToLower(os.Getenv("ACHIEVEMENT_COUNT_ENDED_ONLY")) == "true"
	catalogService := services.NewCatalogService(db)
	playerService := services.NewPlayerService(db)
	achievementService := services.NewAchievementService(db)

	events, err := services.ConnectEventPublisher()
	if err != nil {
		log.Fatal("failed to connect to NATS:", err)
	}
	if events != nil {
		sessionService.Events = events
		defer events.Close()
		log.Println("✅ NATS event publishing enabled")
	}

	reconciler := workers.NewReconciler(db)
	sched, err := reconciler.Start()
	if err != nil {
		log.Fatal("failed to start reconciler:", err)
	}
	defer func() { _ = sched.Shutdown() }()

	handlers.SetupSessionRoutes(app, sessionService)
	handlers.SetupCatalogRoutes(app, catalogService, achievementService)
	handlers.SetupPlayerRoutes(app, playerService)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Machine reconciler running (every 1m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
