package models

type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"unique;not null"`
	Image    string
	Products []Product `gorm:"foreignKey:CategoryID"`
}
