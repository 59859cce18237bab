package models

import "time"

// CartOwner identifies who a cart belongs to: an authenticated user or an
// anonymous guest. Exactly one of the two ids is set.
type CartOwner struct {
	UserID  string
	GuestID string
}

func UserOwner(id string) CartOwner {
	return CartOwner{UserID: id}
}

func GuestOwner(id string) CartOwner {
	return CartOwner{GuestID: id}
}

func (o CartOwner) IsGuest() bool {
	return o.UserID == ""
}

// Key returns the canonical owner key stored on the cart row.
func (o CartOwner) Key() string {
	if o.UserID != "" {
		return "user:" + o.UserID
	}
	return "guest:" + o.GuestID
}

type Cart struct {
	ID        uint       `gorm:"primaryKey"`
	OwnerKey  string     `gorm:"uniqueIndex;size:128;not null"` // Enforces ONE cart per owner
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is one (variant, quantity) pair. The composite unique index is
// the conflict target for the atomic upsert-increment in cartstore.
type CartLine struct {
	ID        uint `gorm:"primaryKey"`
	CartID    uint `gorm:"uniqueIndex:idx_cart_variant;index"`
	VariantID uint `gorm:"uniqueIndex:idx_cart_variant"`
	Quantity  int  `gorm:"not null"`
	AddedAt   time.Time
}
