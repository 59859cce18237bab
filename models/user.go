package models

import "time"

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"unique;not null" json:"email"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
	Address   Address `gorm:"embedded" json:"address"` // Embeds address fields directly
	Orders    []Order `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Address model embedded in User, orders and checkout sessions
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}

// Complete reports whether the fields required to ship an order are set.
func (a Address) Complete() bool {
	return a.Country != "" && a.City != "" && a.Street != "" && a.PostalCode != ""
}
