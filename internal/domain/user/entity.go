package user

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
