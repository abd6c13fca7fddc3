package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"REDIS_URL",
		"JWT_SECRET_KEY",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	utils.InitMongoClient()
}

func setupRouter(registry *usecase.EngineRegistry, feed *services.RedisChangeFeed) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RecoveryMiddleware())

	// Public routes
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", func(c *gin.Context) {
		handler.HealthHandler(c, utils.MongoClient, feed)
	})

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		// Notes endpoints
		notes := protected.Group("/notes")
		notes.Use(middleware.NoCacheMiddleware())
		{
			notes.GET("/", func(c *gin.Context) {
				handler.GetNotesHandler(c, registry)
			})
			notes.GET("/filtered", func(c *gin.Context) {
				handler.GetFilteredNotesHandler(c, registry)
			})
			notes.PUT("/filters", func(c *gin.Context) {
				handler.SetFiltersHandler(c, registry)
			})

			// Basic CRUD operations
			notes.POST("/", func(c *gin.Context) {
				handler.CreateNoteHandler(c, registry)
			})
			notes.PUT("/:id", func(c *gin.Context) {
				handler.UpdateNoteHandler(c, registry)
			})
			notes.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteNoteHandler(c, registry)
			})

			// Note actions
			notes.POST("/:id/favorite", func(c *gin.Context) {
				handler.ToggleFavoriteHandler(c, registry)
			})

			// Editor pointers
			notes.GET("/current", func(c *gin.Context) {
				handler.GetCurrentNoteHandler(c, registry)
			})
			notes.PUT("/current/:id", func(c *gin.Context) {
				handler.SetCurrentNoteHandler(c, registry)
			})
			notes.DELETE("/current", func(c *gin.Context) {
				handler.ClearCurrentNoteHandler(c, registry)
			})
			notes.GET("/selected", func(c *gin.Context) {
				handler.GetSelectedNoteHandler(c, registry)
			})
			notes.PUT("/selected/:id", func(c *gin.Context) {
				handler.SetSelectedNoteHandler(c, registry)
			})
			notes.DELETE("/selected", func(c *gin.Context) {
				handler.ClearSelectedNoteHandler(c, registry)
			})
		}

		// Sync lifecycle endpoints
		syncRoutes := protected.Group("/sync")
		{
			syncRoutes.GET("/status", func(c *gin.Context) {
				handler.GetSyncStatusHandler(c, registry)
			})
			syncRoutes.POST("/start", func(c *gin.Context) {
				handler.StartSyncHandler(c, registry)
			})
			syncRoutes.POST("/refresh", func(c *gin.Context) {
				handler.RefreshNotesHandler(c, registry)
			})
			syncRoutes.DELETE("/", func(c *gin.Context) {
				handler.StopSyncHandler(c, registry)
			})
		}

		protected.GET("/notifications", func(c *gin.Context) {
			handler.GetNotificationsHandler(c, registry)
		})
	}

	return router
}

func main() {
	feedCfg := config.LoadChangeFeedConfig()
	feed, err := services.NewRedisChangeFeed(feedCfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize change feed: %v", err)
	}

	dbCfg := config.LoadDatabaseConfig()
	if err := repository.SetupIndexes(utils.MongoClient.Database(dbCfg.DatabaseName)); err != nil {
		log.Printf("Failed to set up indexes: %v", err)
	}

	notesRepo := repository.GetNotesRepo(utils.MongoClient, feed)

	registry, err := usecase.NewEngineRegistry(notesRepo, feed)
	if err != nil {
		log.Fatalf("Failed to initialize engine registry: %v", err)
	}
	registry.NotifierCapacity = feedCfg.NotifierCapacity

	router := setupRouter(registry, feed)

	// Tear down subscriptions and connections on shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalChan
		log.Printf("Caught signal %s, shutting down", sig)

		registry.StopAll()
		if err := feed.Close(); err != nil {
			log.Printf("Error closing change feed: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := utils.MongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
