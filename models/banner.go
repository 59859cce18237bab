package models

import "time"

type Banner struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `json:"title"`
	ImageURL  string `gorm:"not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
