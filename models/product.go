package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
	CategoryID  uint   `gorm:"index;not null"`
	Category    Category
	Images      []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Tags        []ProductTag     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// ProductImage rows are only written after the bytes are safely in blob
// storage; URL always points at an existing blob.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"index"`
	URL       string `gorm:"not null"`
	Color     string
	AltText   string
	// The first uploaded image is primary by position. Uniqueness is not
	// enforced at the storage layer.
	IsPrimary bool
}

type ProductVariant struct {
	ID        uint    `gorm:"primaryKey"`
	ProductID uint    `gorm:"index"`
	Size      string  `gorm:"not null"`
	Color     string  `gorm:"not null"`
	Price     float64 `gorm:"not null"`
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type ProductTag struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"index"`
	Name      string `gorm:"not null"`
}
