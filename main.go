package main

import (
	"log"

	"engsmart/config"
	"engsmart/handlers"
	"engsmart/middleware"
	"engsmart/routes"
	"engsmart/services"
	"engsmart/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the persistence store
	store, err := initStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	// Resolve the teacher passphrase hash
	passphraseHash := []byte(cfg.TeacherPassphraseHash)
	if len(passphraseHash) == 0 {
		passphraseHash, err = services.HashPassphrase(cfg.TeacherPassphrase)
		if err != nil {
			log.Fatal("Failed to hash teacher passphrase:", err)
		}
	}

	// Initialize services
	generator := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	authService := services.NewAuthService(passphraseHash, cfg.JWTSecret)
	quizService := services.NewQuizService(store, generator)
	submissionService := services.NewSubmissionService(store, quizService)
	statsService := services.NewStatsService(quizService, submissionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService, submissionService, statsService)
	examHandler := handlers.NewExamHandler(submissionService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, examHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "postgres":
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(db)
	case "memory":
		log.Println("Using in-memory storage; data is lost on restart")
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewRedisStore(config.InitRedis(cfg)), nil
	}
}
