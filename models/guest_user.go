package models

import "time"

// GuestUser backs the durable guest identity carried in the client cookie.
type GuestUser struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
