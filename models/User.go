package models

import "gorm.io/gorm"

// User represents a staff account allowed into the admin endpoints.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Staff        bool `gorm:"not null"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Brand{},
		&Location{},
		&Category{},
		&CriticalIngredient{},
		&OptionGroup{},
		&Option{},
		&Dish{},
		&Variant{},
	}
}
