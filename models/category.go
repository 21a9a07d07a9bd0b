package models

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"unique;not null;size:128" json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
}
