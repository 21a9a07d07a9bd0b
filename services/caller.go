package services

import "github.com/agora-forum/api-go/models"

// Caller is the identity a request acts as. The zero value is an anonymous caller.
type Caller struct {
	ID   uint
	Role string
}

func (c Caller) IsAnonymous() bool {
	return c.ID == 0
}

func (c Caller) IsAdmin() bool {
	return c.ID != 0 && c.Role == models.RoleAdmin
}

func (c Caller) Owns(authorID uint) bool {
	return c.ID != 0 && c.ID == authorID
}

func (c Caller) CanModerate(authorID uint) bool {
	return c.Owns(authorID) || c.IsAdmin()
}
