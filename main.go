package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"scanner-backend/catalog"
	"scanner-backend/checkin"
	"scanner-backend/config"
	"scanner-backend/handlers"
	"scanner-backend/services"
	"scanner-backend/store"
)

func buildCatalog(ctx context.Context, cfg config.Config) catalog.Catalog {
	if cfg.SheetID == "" {
		log.Println("Warning: SHEET_ID not set, serving an empty event catalog")
		return catalog.NewMemoryCatalog(nil)
	}

	cat, err := catalog.NewSheetsCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to create sheets catalog: %v\n", err)
	}
	log.Println("Successfully connected to the event catalog!")
	return cat
}

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using default environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Database connection
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Init(ctx); err != nil {
		log.Fatalf("Unable to create schema: %v\n", err)
	}

	// Event catalog connection
	cat := buildCatalog(ctx, cfg)

	// Wire up services and session registry
	svc := services.New(st, cat, cfg.BadgePrefix)
	registry := checkin.NewRegistry(svc, cfg.BadgePrefix, cfg.StrictScanErrors)

	// Create handlers
	hackerHandler := handlers.NewHackerHandler(svc)
	badgeHandler := handlers.NewBadgeHandler(svc)
	scanHandler := handlers.NewScanHandler(svc)
	eventHandler := handlers.NewEventHandler(cat)
	sessionHandler := handlers.NewSessionHandler(registry)

	// Setup Gin
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// API routes
	api := router.Group("/api/v1")
	{
		// Hacker routes
		api.GET("/hackers/:email", hackerHandler.GetHacker)
		api.POST("/hackers", hackerHandler.RegisterHacker)

		// Badge assignment and attendance recording
		api.POST("/badges", badgeHandler.AssignBadge)
		api.POST("/scans", scanHandler.RecordScan)

		// Event catalog routes
		api.GET("/events", eventHandler.GetEvents)
		api.GET("/events/:id", eventHandler.GetEvent)

		// Scanner device session routes
		api.POST("/sessions", sessionHandler.CreateSession)
		api.GET("/sessions/:id", sessionHandler.GetSession)
		api.POST("/sessions/:id/scan", sessionHandler.Scan)
		api.POST("/sessions/:id/confirm", sessionHandler.Confirm)
		api.POST("/sessions/:id/reject", sessionHandler.Reject)
		api.POST("/sessions/:id/reset", sessionHandler.Reset)
		api.POST("/sessions/:id/ack", sessionHandler.Acknowledge)
		api.DELETE("/sessions/:id", sessionHandler.DeleteSession)

		// Health check route
		api.GET("/test-db", func(c *gin.Context) {
			err := pool.Ping(c)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed: " + err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "Database connection OK"})
		})
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	log.Printf("Server starting on port %s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v\n", err)
	}
}
