package models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// DefaultBrandColor is used when a brand has no valid accent color.
const DefaultBrandColor = "#1F2937"

var (
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugSeparators  = regexp.MustCompile(`[^a-z0-9]+`)
)

// Brand is a restaurant label sharing the kitchen with other brands.
type Brand struct {
	gorm.Model
	Name       string     `gorm:"uniqueIndex;not null" json:"name"`
	Slug       string     `gorm:"uniqueIndex;not null" json:"slug"`
	Color      string     `gorm:"type:varchar(7);not null" json:"color"`
	Active     bool       `gorm:"not null" json:"active"`
	Categories []Category `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"categories,omitempty"`
	Dishes     []Dish     `gorm:"foreignKey:BrandID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"dishes,omitempty"`
}

// NormalizeSlug lowercases a brand slug and collapses anything that is not a
// letter or digit into single dashes.
func NormalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	return strings.Trim(slugSeparators.ReplaceAllString(slug, "-"), "-")
}

// NormalizeColor returns the color in upper case #RRGGBB form, or the default.
func NormalizeColor(color string) string {
	color = strings.TrimSpace(color)
	if !hexColorPattern.MatchString(color) {
		return DefaultBrandColor
	}
	return strings.ToUpper(color)
}

func (b *Brand) BeforeSave(*gorm.DB) error {
	if b.Slug == "" {
		b.Slug = b.Name
	}
	b.Slug = NormalizeSlug(b.Slug)
	b.Color = NormalizeColor(b.Color)
	return nil
}

// Category groups dishes on a brand menu (starters, mains, drinks).
type Category struct {
	gorm.Model
	BrandID      uint   `gorm:"not null;index" json:"brand_id"`
	Name         string `gorm:"not null" json:"name"`
	SingularName string `json:"singular_name"`
	SortOrder    int    `gorm:"not null;default:0" json:"sort_order"`
	Active       bool   `gorm:"not null" json:"active"`
	Dishes       []Dish `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"dishes,omitempty"`
}

// Location is a physical kitchen holding its own critical ingredient stock.
type Location struct {
	gorm.Model
	Name        string               `gorm:"not null" json:"name"`
	Address     string               `json:"address"`
	Phone       string               `json:"phone"`
	Ingredients []CriticalIngredient `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"ingredients,omitempty"`
}
