package models

import (
	"time"
)

type Post struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string `gorm:"not null;size:128" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	Author   Author `gorm:"foreignKey:AuthorID" json:"author"`
	Publication
	Categories []Category `gorm:"many2many:post_categories;constraint:OnDelete:CASCADE" json:"categories"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// Populated only when listing sorted by likes.
	LikesCount *int64 `gorm:"->;-:migration" json:"likesCount,omitempty"`
}

// PostCategory is the join row between posts and categories.
type PostCategory struct {
	PostID     uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey;index"`
}

func (PostCategory) TableName() string {
	return "post_categories"
}
