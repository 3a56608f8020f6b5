package models

import "time"

// Roles recognized by the access control gate.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // don’t expose hash
	Role         string    `json:"role"` // user | admin
	CreatedAt    time.Time `json:"created_at"`
}
