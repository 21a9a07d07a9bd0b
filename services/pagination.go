package services

import (
	"math"

	"gorm.io/gorm"
)

const (
	// PageSize is the fixed size of every listing page.
	PageSize = 10
	// MaxPage is the largest zero-based page whose offset still fits an int.
	MaxPage = math.MaxInt / PageSize
)

type Window struct {
	Offset int
	Limit  int
}

// PageWindow maps a zero-based page number to an offset/limit pair.
func PageWindow(page, size int) Window {
	return Window{Offset: page * size, Limit: size}
}

func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func (w Window) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset(w.Offset).Limit(w.Limit)
}
