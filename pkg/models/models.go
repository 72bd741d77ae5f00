package models

import (
	"time"
)

type Genre struct {
	ID        uint   `gorm:"primaryKey"`
	GenreUid  string `gorm:"type:uuid;uniqueIndex;not null"`
	Name      string `gorm:"size:80;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Book struct {
	ID       uint   `gorm:"primaryKey"`
	BookUid  string `gorm:"type:uuid;uniqueIndex;not null"`
	Title    string `gorm:"not null"`
	Author   string `gorm:"not null"`
	GenreUid string `gorm:"type:uuid;index;not null"`
	// rating bounds are enforced by the storage layer, not the handlers
	Rating    float64 `gorm:"not null;index;check:rating >= 0 AND rating <= 5"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultGenres is inserted once at first boot when the genre table is empty.
var DefaultGenres = []string{
	"Fiction",
	"Non-Fiction",
	"Sci-Fi",
	"Mystery",
	"Romance",
	"Fantasy",
	"Biography",
	"History",
	"Self-Help",
}
