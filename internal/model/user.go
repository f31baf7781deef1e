package model

import "time"

// User owns shopping lists and history. Authentication is not part of
// the service; users exist so lists can be scoped.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
