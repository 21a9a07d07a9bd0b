package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const DefaultProfilePicture = "/defaultProfilePicture.png"

type User struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Login            string    `gorm:"unique;not null;size:64" json:"login"`
	Email            string    `gorm:"unique;not null" json:"email"`
	Password         string    `gorm:"not null;size:300" json:"-"` // bcrypt hash
	FullName         string    `gorm:"not null;default:''" json:"fullName"`
	ProfilePicture   string    `gorm:"not null;default:'/defaultProfilePicture.png'" json:"profilePicture"`
	Rating           int       `gorm:"not null;default:0" json:"rating"`
	Role             string    `gorm:"not null;default:'user';size:16" json:"role"`
	IsEmailConfirmed bool      `gorm:"not null;default:false" json:"isEmailConfirmed"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Author is the public projection of a user embedded in posts, comments and likes.
type Author struct {
	ID             uint   `json:"id"`
	Login          string `json:"login"`
	FullName       string `json:"fullName"`
	Rating         int    `json:"rating"`
	ProfilePicture string `json:"profilePicture"`
}

func (Author) TableName() string {
	return "users"
}
