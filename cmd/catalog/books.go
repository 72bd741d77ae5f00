package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookreviewhub/pkg/models"
)

var errGenreNotExist = errors.New("Genre does not exist")

// bookRequest carries the full mutable field set of a book. Rating stays
// untyped so both JSON numbers and numeric strings are accepted.
type bookRequest struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	GenreID string `json:"genre_id"`
	Rating  any    `json:"rating"`
}

func (r bookRequest) missingFields() bool {
	return r.Title == "" || r.Author == "" || r.GenreID == "" || r.Rating == nil
}

func ratingValue(v any) (float64, error) {
	switch r := v.(type) {
	case float64:
		return r, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(r), 64)
	default:
		return 0, errors.New("rating is not a number")
	}
}

func listBooks(c *gin.Context) {
	query := db.Model(&models.Book{})

	if genre := c.Query("genre"); genre != "" {
		if _, err := uuid.Parse(genre); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre ID"})
			return
		}
		query = query.Where("genre_uid = ?", genre)
	}
	if minStr := c.Query("minRating"); minStr != "" {
		minRating, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minRating"})
			return
		}
		query = query.Where("rating >= ?", minRating)
	}
	if maxStr := c.Query("maxRating"); maxStr != "" {
		maxRating, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxRating"})
			return
		}
		query = query.Where("rating <= ?", maxRating)
	}

	var books []models.Book
	if err := query.Find(&books).Error; err != nil {
		log.Errorf("Failed to fetch books: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch books"})
		return
	}

	names := genreNamesByUid(books)
	items := make([]gin.H, len(books))
	for i, b := range books {
		items[i] = gin.H{
			"book_id":    b.BookUid,
			"title":      b.Title,
			"author":     b.Author,
			"genre_id":   b.GenreUid,
			"genre_name": names[b.GenreUid],
			"rating":     b.Rating,
		}
	}
	c.JSON(http.StatusOK, items)
}

// genreNamesByUid resolves display names for the genres referenced by books.
// A dangling reference simply has no entry, the caller renders it empty.
func genreNamesByUid(books []models.Book) map[string]string {
	names := make(map[string]string)
	uids := make([]string, 0, len(books))
	for _, b := range books {
		if _, ok := names[b.GenreUid]; !ok {
			names[b.GenreUid] = ""
			uids = append(uids, b.GenreUid)
		}
	}
	if len(uids) == 0 {
		return names
	}
	var genres []models.Genre
	if err := db.Where("genre_uid IN ?", uids).Find(&genres).Error; err != nil {
		log.Errorf("Failed to resolve genre names: %v", err)
		return names
	}
	for _, g := range genres {
		names[g.GenreUid] = g.Name
	}
	return names
}

func createBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.missingFields() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	rating, err := ratingValue(req.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating"})
		return
	}

	var genre models.Genre
	if err := db.Where("genre_uid = ?", req.GenreID).First(&genre).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre ID"})
		return
	}

	book := models.Book{
		BookUid:  uuid.New().String(),
		Title:    req.Title,
		Author:   req.Author,
		GenreUid: req.GenreID,
		Rating:   rating,
	}
	if err := db.Create(&book).Error; err != nil {
		log.Errorf("Failed to add book: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add book"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book added successfully",
		"book_id": book.BookUid,
	})
}

func updateBook(c *gin.Context) {
	bookUid := c.Param("id")

	var book models.Book
	if err := db.Where("book_uid = ?", bookUid).First(&book).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	// full replacement: callers send the complete field set
	rating, _ := ratingValue(req.Rating)
	book.Title = req.Title
	book.Author = req.Author
	book.GenreUid = req.GenreID
	book.Rating = rating

	if err := db.Save(&book).Error; err != nil {
		log.Errorf("Failed to update book: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book updated successfully"})
}

func deleteBook(c *gin.Context) {
	bookUid := c.Param("id")

	var book models.Book
	if err := db.Where("book_uid = ?", bookUid).First(&book).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	if err := db.Delete(&book).Error; err != nil {
		log.Errorf("Failed to delete book: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

// createBookAtomic performs the genre check and the insert inside one
// transaction. The transaction commits or rolls back on every exit path,
// so no concurrent reader ever observes a half-applied write.
func createBookAtomic(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.missingFields() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing required fields"})
		return
	}
	rating, err := ratingValue(req.Rating)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var genre models.Genre
		if err := tx.Where("genre_uid = ?", req.GenreID).First(&genre).Error; err != nil {
			return errGenreNotExist
		}
		book := models.Book{
			BookUid:  uuid.New().String(),
			Title:    req.Title,
			Author:   req.Author,
			GenreUid: req.GenreID,
			Rating:   rating,
		}
		return tx.Create(&book).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book added atomically inside a transaction"})
}
