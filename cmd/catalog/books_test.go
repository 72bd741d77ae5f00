package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bookreviewhub/pkg/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database")
	}
	db.AutoMigrate(&models.Genre{}, &models.Book{})
	return db
}

func createTestGenre(testDB *gorm.DB, name string) models.Genre {
	genre := models.Genre{
		GenreUid: uuid.New().String(),
		Name:     name,
	}
	testDB.Create(&genre)
	return genre
}

func createTestBook(testDB *gorm.DB, title, author, genreUid string, rating float64) models.Book {
	book := models.Book{
		BookUid:  uuid.New().String(),
		Title:    title,
		Author:   author,
		GenreUid: genreUid,
		Rating:   rating,
	}
	testDB.Create(&book)
	return book
}

func jsonRequest(method, url string, body map[string]interface{}) *http.Request {
	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(method, url, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestListBooksFilterByGenre(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")
	mystery := createTestGenre(testDB, "Mystery")
	createTestBook(testDB, "Book A", "Author A", fiction.GenreUid, 3)
	createTestBook(testDB, "Book B", "Author B", fiction.GenreUid, 4)
	createTestBook(testDB, "Book C", "Author C", mystery.GenreUid, 5)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books?genre="+fiction.GenreUid, nil)

	listBooks(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 2, len(response))
	for _, item := range response {
		assert.Equal(t, fiction.GenreUid, item["genre_id"])
		assert.Equal(t, "Fiction", item["genre_name"])
	}
}

func TestListBooksInvalidGenreID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books?genre=not-a-uuid", nil)

	listBooks(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Invalid genre ID", response["error"])
}

func TestListBooksRatingRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")
	createTestBook(testDB, "Low", "A", fiction.GenreUid, 1)
	createTestBook(testDB, "Mid", "B", fiction.GenreUid, 3)
	createTestBook(testDB, "High", "C", fiction.GenreUid, 5)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books?minRating=2&maxRating=4", nil)

	listBooks(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 1, len(response))
	assert.Equal(t, "Mid", response[0]["title"])
}

func TestListBooksEmptyRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")
	createTestBook(testDB, "Mid", "B", fiction.GenreUid, 3)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books?minRating=4&maxRating=2", nil)

	listBooks(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 0, len(response))
	assert.Equal(t, "[]", w.Body.String())
}

func TestListBooksInvalidRatingBound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books?minRating=abc", nil)

	listBooks(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBooksDanglingGenre(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	createTestBook(testDB, "Orphan", "Nobody", uuid.New().String(), 2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books", nil)

	listBooks(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 1, len(response))
	assert.Equal(t, "", response[0]["genre_name"])
}

func TestCreateBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books", map[string]interface{}{
		"title":    "Test Book",
		"author":   "Test Author",
		"genre_id": fiction.GenreUid,
		"rating":   4.5,
	})

	createBook(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Book added successfully", response["message"])
	assert.NotEmpty(t, response["book_id"])

	var book models.Book
	testDB.Where("book_uid = ?", response["book_id"]).First(&book)
	assert.Equal(t, "Test Book", book.Title)
	assert.Equal(t, 4.5, book.Rating)
}

func TestCreateBookStringRating(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books", map[string]interface{}{
		"title":    "Test Book",
		"author":   "Test Author",
		"genre_id": fiction.GenreUid,
		"rating":   "3.5",
	})

	createBook(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var book models.Book
	testDB.First(&book)
	assert.Equal(t, 3.5, book.Rating)
}

func TestCreateBookMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books", map[string]interface{}{
		"title": "Only a title",
	})

	createBook(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Missing required fields", response["error"])

	var count int64
	testDB.Model(&models.Book{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateBookInvalidGenre(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books", map[string]interface{}{
		"title":    "Test Book",
		"author":   "Test Author",
		"genre_id": uuid.New().String(),
		"rating":   4,
	})

	createBook(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Invalid genre ID", response["error"])

	var count int64
	testDB.Model(&models.Book{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateBookRatingOutOfBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books", map[string]interface{}{
		"title":    "Test Book",
		"author":   "Test Author",
		"genre_id": fiction.GenreUid,
		"rating":   7,
	})

	createBook(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var count int64
	testDB.Model(&models.Book{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")
	mystery := createTestGenre(testDB, "Mystery")
	book := createTestBook(testDB, "Old Title", "Old Author", fiction.GenreUid, 2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("PUT", "/api/books/"+book.BookUid, map[string]interface{}{
		"title":    "New Title",
		"author":   "New Author",
		"genre_id": mystery.GenreUid,
		"rating":   4,
	})
	c.Params = gin.Params{gin.Param{Key: "id", Value: book.BookUid}}

	updateBook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var updated models.Book
	testDB.Where("book_uid = ?", book.BookUid).First(&updated)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "New Author", updated.Author)
	assert.Equal(t, mystery.GenreUid, updated.GenreUid)
	assert.Equal(t, float64(4), updated.Rating)
}

func TestUpdateBookMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")
	book := createTestBook(testDB, "Old Title", "Old Author", fiction.GenreUid, 2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PUT", "/api/books/"+book.BookUid, bytes.NewBufferString("not json"))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{gin.Param{Key: "id", Value: book.BookUid}}

	updateBook(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Invalid request format", response["error"])

	var unchanged models.Book
	testDB.Where("book_uid = ?", book.BookUid).First(&unchanged)
	assert.Equal(t, "Old Title", unchanged.Title)
}

func TestUpdateBookNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("PUT", "/api/books/missing", map[string]interface{}{
		"title": "New Title",
	})
	c.Params = gin.Params{gin.Param{Key: "id", Value: "missing"}}

	updateBook(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Book not found", response["error"])
}

func TestDeleteBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")
	book := createTestBook(testDB, "Doomed", "Author", fiction.GenreUid, 3)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/api/books/"+book.BookUid, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: book.BookUid}}

	deleteBook(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	testDB.Model(&models.Book{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// a second delete of the same id is a 404
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/api/books/"+book.BookUid, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: book.BookUid}}

	deleteBook(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAtomicAddBook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	fiction := createTestGenre(testDB, "Fiction")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books/atomic-add", map[string]interface{}{
		"title":    "Atomic Book",
		"author":   "Atomic Author",
		"genre_id": fiction.GenreUid,
		"rating":   5,
	})

	createBookAtomic(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Book added atomically inside a transaction", response["message"])

	var count int64
	testDB.Model(&models.Book{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAtomicAddBookMissingGenre(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books/atomic-add", map[string]interface{}{
		"title":    "Atomic Book",
		"author":   "Atomic Author",
		"genre_id": uuid.New().String(),
		"rating":   5,
	})

	createBookAtomic(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Genre does not exist", response["error"])

	var count int64
	testDB.Model(&models.Book{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestBookRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testDB := setupTestDB()
	db = testDB

	scifi := createTestGenre(testDB, "Sci-Fi")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest("POST", "/api/books", map[string]interface{}{
		"title":    "Dune",
		"author":   "Herbert",
		"genre_id": scifi.GenreUid,
		"rating":   4.5,
	})

	createBook(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &created)
	bookID := created["book_id"].(string)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books", nil)

	listBooks(c)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &listed)
	assert.Equal(t, 1, len(listed))
	assert.Equal(t, "Dune", listed[0]["title"])
	assert.Equal(t, "Sci-Fi", listed[0]["genre_name"])
	assert.Equal(t, 4.5, listed[0]["rating"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/api/books/"+bookID, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: bookID}}

	deleteBook(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/books", nil)

	listBooks(c)
	var after []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &after)
	assert.Equal(t, 0, len(after))

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("DELETE", "/api/books/"+bookID, nil)
	c.Params = gin.Params{gin.Param{Key: "id", Value: bookID}}

	deleteBook(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
