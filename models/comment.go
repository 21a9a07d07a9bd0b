package models

import (
	"time"
)

type Comment struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	Author   Author `gorm:"foreignKey:AuthorID" json:"author"`
	// PostID is the post the thread hangs off; replies inherit it from their parent.
	PostID   uint  `gorm:"not null;index" json:"postId"`
	ParentID *uint `gorm:"index" json:"parentId"`
	Publication
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
