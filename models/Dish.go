package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CriticalIngredient gates every dish that references it. Flipping Available
// off makes all of those dishes unavailable at once.
type CriticalIngredient struct {
	gorm.Model
	LocationID uint   `gorm:"not null;index" json:"location_id"`
	Name       string `gorm:"not null" json:"name"`
	Available  bool   `gorm:"not null" json:"available"`
}

type Dish struct {
	gorm.Model
	BrandID             uint                 `gorm:"not null;index" json:"brand_id"`
	CategoryID          uint                 `gorm:"not null;index" json:"category_id"`
	Name                string               `gorm:"not null" json:"name"`
	Description         string               `gorm:"type:text" json:"description"`
	ManualActive        bool                 `gorm:"not null" json:"manual_active"`
	SortOrder           int                  `gorm:"not null;default:0" json:"sort_order"`
	CriticalIngredients []CriticalIngredient `gorm:"many2many:dish_critical_ingredients" json:"critical_ingredients,omitempty"`
	Variants            []Variant            `gorm:"foreignKey:DishID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"variants,omitempty"`
}

// Variant is the purchasable presentation of a dish (personal, family size).
type Variant struct {
	gorm.Model
	DishID       uint            `gorm:"not null;index" json:"dish_id"`
	Dish         *Dish           `gorm:"foreignKey:DishID" json:"-"`
	Name         string          `gorm:"not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Active       bool            `gorm:"not null" json:"active"`
	OptionGroups []OptionGroup   `gorm:"many2many:variant_option_groups" json:"option_groups,omitempty"`
}

// DefaultVariantName is used when a dish is sold in a single presentation.
const DefaultVariantName = "Standard"
