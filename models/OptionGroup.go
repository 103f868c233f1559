package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OptionGroup is a named set of add-ons with selection rules.
// Multiple switches between checkbox (true) and single choice (false).
type OptionGroup struct {
	gorm.Model
	Name     string   `gorm:"not null" json:"name"`
	Multiple bool     `gorm:"not null" json:"multiple"`
	Required bool     `gorm:"not null" json:"required"`
	Min      int      `gorm:"not null;default:0" json:"min"`
	Max      int      `gorm:"not null" json:"max"`
	Active   bool     `gorm:"not null" json:"active"`
	Options  []Option `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"options,omitempty"`
}

type Option struct {
	gorm.Model
	GroupID    uint            `gorm:"not null;index" json:"group_id"`
	Group      *OptionGroup    `gorm:"foreignKey:GroupID" json:"-"`
	Name       string          `gorm:"not null" json:"name"`
	ExtraPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"extra_price"`
	Active     bool            `gorm:"not null" json:"active"`
}
