package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	DisplayName  string
	PasswordHash string // argon2 encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
