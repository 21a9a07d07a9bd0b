package models

import (
	"time"
)

// AuthToken is an issued bearer token; a token is only honoured while its row exists.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

type ConfirmationToken struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;index"`
	Token     string `gorm:"not null;uniqueIndex"`
}

type PasswordResetToken struct {
	ID        uint `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	UserID    uint   `gorm:"not null;index"`
	Token     string `gorm:"not null;uniqueIndex"`
}

// All lists every persisted model, in dependency order, for AutoMigrate in tests and tooling.
func All() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Post{}, &PostCategory{}, &Comment{}, &Like{},
		&AuthToken{}, &ConfirmationToken{}, &PasswordResetToken{},
	}
}
