package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"bookreviewhub/pkg/database"
)

var db *gorm.DB

func main() {
	log.Info("Starting catalog service...")

	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	db = database.InitCatalogDB()

	seedDefaultGenres()

	server := gin.Default()
	server.Use(cors.New(corsConfig()))

	server.GET("/api/books", listBooks)
	server.POST("/api/books", createBook)
	server.PUT("/api/books/:id", updateBook)
	server.DELETE("/api/books/:id", deleteBook)
	server.POST("/api/books/atomic-add", createBookAtomic)
	server.GET("/api/genres", listGenres)
	server.POST("/api/genres", createGenre)
	server.GET("/manage/health", healthCheck)

	port := getEnv("PORT", "5050")
	log.Infof("Catalog service starting on :%s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// corsConfig builds the cross-origin allow-list. Preflight requests are
// answered by the middleware before any handler runs.
func corsConfig() cors.Config {
	origins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Content-Type"},
	}
}

func healthCheck(ctx *gin.Context) {
	sqlDB, err := db.DB()
	if err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"status": "UP",
	})
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
