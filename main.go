package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"realestate-api/db"
	"realestate-api/routes"
	"realestate-api/storage"
)

func main() {
	fmt.Println("Starting Real Estate API...")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	// Diagnostic logging for the handlers
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, nil)))

	// Check if JWT_SECRET_KEY is set
	if os.Getenv("JWT_SECRET_KEY") == "" {
		log.Fatal("JWT_SECRET_KEY environment variable is required")
	}

	// Initialize database
	DB := db.GetDB()
	db.MakeMigration(DB)

	// Image storage bucket, served under /uploads
	storageRoot := os.Getenv("STORAGE_ROOT")
	if storageRoot == "" {
		storageRoot = "./uploads"
	}
	bucket, err := storage.NewBucket(storageRoot, "/uploads")
	if err != nil {
		log.Fatalf("Failed to initialize storage bucket: %v", err)
	}

	// Set Gin to release mode in production
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router with default middleware
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Client configuration: the mapping-widget credential
	mapsAPIKey := os.Getenv("MAPS_API_KEY")
	router.GET("/config", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"maps_api_key": mapsAPIKey,
		})
	})

	// Uploaded images
	router.Static("/uploads", storageRoot)

	// Register routes
	routes.AuthRoutes(router)
	routes.PropertyRoutes(router, bucket)
	routes.SavedRoutes(router)
	routes.InquiryRoutes(router)
	routes.ProfileRoutes(router)

	// Get the port from environment variables or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	fmt.Printf("Server running on port %s\n", port)
	router.Run(":" + port)
}
