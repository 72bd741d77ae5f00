package main

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreviewhub/pkg/models"
)

func listGenres(c *gin.Context) {
	var genres []models.Genre
	if err := db.Order("name asc").Find(&genres).Error; err != nil {
		log.Errorf("Failed to fetch genres: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch genres"})
		return
	}

	items := make([]gin.H, len(genres))
	for i, g := range genres {
		items[i] = gin.H{
			"id":   g.GenreUid,
			"name": g.Name,
		}
	}
	c.JSON(http.StatusOK, items)
}

func createGenre(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Genre name is required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Genre name is required"})
		return
	}

	var existing models.Genre
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Genre already exists"})
		return
	}

	genre := models.Genre{
		GenreUid: uuid.New().String(),
		Name:     name,
	}
	if err := db.Create(&genre).Error; err != nil {
		log.Errorf("Failed to create genre: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create genre"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":   genre.GenreUid,
		"name": genre.Name,
	})
}

// seedDefaultGenres inserts the fixed default genre set once, on the first
// boot against an empty table. The count check makes it idempotent.
func seedDefaultGenres() {
	var count int64
	if err := db.Model(&models.Genre{}).Count(&count).Error; err != nil {
		log.Errorf("Error seeding genres: %v", err)
		return
	}
	if count > 0 {
		log.Info("Genres already exist, skipping seed")
		return
	}

	genres := make([]models.Genre, len(models.DefaultGenres))
	for i, name := range models.DefaultGenres {
		genres[i] = models.Genre{
			GenreUid: uuid.New().String(),
			Name:     name,
		}
	}
	if err := db.Create(&genres).Error; err != nil {
		log.Errorf("Error seeding genres: %v", err)
		return
	}
	log.Info("Default genres inserted")
}
