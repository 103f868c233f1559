package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"menucart/models"
)

// ErrNotFound is returned when a catalog record does not exist (or was deleted).
var ErrNotFound = errors.New("catalog record not found")

// Provider is the read side of the catalog consumed by the cart engine.
// Implementations must return fresh state on every call.
type Provider interface {
	// Variant loads one variant with its dish and critical ingredients.
	Variant(ctx context.Context, id uint) (models.Variant, error)
	// Variants loads the existing variants among ids; missing ids are omitted.
	Variants(ctx context.Context, ids []uint) ([]models.Variant, error)
	// Options loads the existing options among ids with their group.
	Options(ctx context.Context, ids []uint) ([]models.Option, error)
	// OptionGroupsForVariant lists every group linked to the variant with its options.
	OptionGroupsForVariant(ctx context.Context, variantID uint) ([]models.OptionGroup, error)
}

// Store is the GORM backed catalog.
type Store struct {
	db *gorm.DB
}

var _ Provider = (*Store)(nil)

// New wraps a database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// liveDishes restricts a variant query to variants whose dish still exists.
func (s *Store) liveDishes(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Dish{}).Select("id")
}

func (s *Store) Variant(ctx context.Context, id uint) (models.Variant, error) {
	var variant models.Variant
	err := s.db.WithContext(ctx).
		Preload("Dish.CriticalIngredients").
		Where("dish_id IN (?)", s.liveDishes(ctx)).
		First(&variant, id).Error
	if err != nil {
		return models.Variant{}, translate(err, "variant", id)
	}
	return variant, nil
}

func (s *Store) Variants(ctx context.Context, ids []uint) ([]models.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []models.Variant
	err := s.db.WithContext(ctx).
		Preload("Dish.CriticalIngredients").
		Where("id IN ?", ids).
		Where("dish_id IN (?)", s.liveDishes(ctx)).
		Order("id asc").
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	return variants, nil
}

func (s *Store) Options(ctx context.Context, ids []uint) ([]models.Option, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var options []models.Option
	err := s.db.WithContext(ctx).
		Preload("Group").
		Where("id IN ?", ids).
		Order("id asc").
		Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	return options, nil
}

func (s *Store) OptionGroupsForVariant(ctx context.Context, variantID uint) ([]models.OptionGroup, error) {
	var variant models.Variant
	err := s.db.WithContext(ctx).
		Preload("OptionGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("option_groups.id asc")
		}).
		Preload("OptionGroups.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id asc")
		}).
		First(&variant, variantID).Error
	if err != nil {
		return nil, translate(err, "variant", variantID)
	}
	return variant.OptionGroups, nil
}

// Brands lists the active brands by name.
func (s *Store) Brands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("name asc").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("load brands: %w", err)
	}
	return brands, nil
}

// BrandBySlug resolves an active brand from its URL slug.
func (s *Store) BrandBySlug(ctx context.Context, slug string) (models.Brand, error) {
	var brand models.Brand
	err := s.db.WithContext(ctx).
		Where("slug = ? AND active = ?", models.NormalizeSlug(slug), true).
		First(&brand).Error
	if err != nil {
		return models.Brand{}, translate(err, "brand", slug)
	}
	return brand, nil
}

// Menu loads the active categories of a brand with their dishes, variants and
// ingredient state, ordered for display.
func (s *Store) Menu(ctx context.Context, brandID uint) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("brand_id = ? AND active = ?", brandID, true).
		Order("sort_order asc, id asc").
		Preload("Dishes", func(db *gorm.DB) *gorm.DB {
			return db.Order("dishes.sort_order asc, dishes.name asc")
		}).
		Preload("Dishes.CriticalIngredients").
		Preload("Dishes.Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variants.id asc")
		}).
		Preload("Dishes.Variants.OptionGroups", "active = ?", true).
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("load menu for brand %d: %w", brandID, err)
	}
	return categories, nil
}

// ToggleVariant flips the per-variant availability switch.
func (s *Store) ToggleVariant(ctx context.Context, id uint) (models.Variant, error) {
	variant, err := s.Variant(ctx, id)
	if err != nil {
		return models.Variant{}, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Variant{}).Where("id = ?", id).Update("active", !variant.Active).Error; err != nil {
		return models.Variant{}, fmt.Errorf("toggle variant %d: %w", id, err)
	}
	return s.Variant(ctx, id)
}

// ToggleDish flips the manual switch of a dish.
func (s *Store) ToggleDish(ctx context.Context, id uint) (models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		return models.Dish{}, translate(err, "dish", id)
	}
	if err := s.db.WithContext(ctx).Model(&dish).Update("manual_active", !dish.ManualActive).Error; err != nil {
		return models.Dish{}, fmt.Errorf("toggle dish %d: %w", id, err)
	}
	if err := s.db.WithContext(ctx).Preload("CriticalIngredients").First(&dish, id).Error; err != nil {
		return models.Dish{}, translate(err, "dish", id)
	}
	return dish, nil
}

// DeleteDish removes a dish together with its variants. Carts still holding
// those variants treat their lines as stale.
func (s *Store) DeleteDish(ctx context.Context, id uint) (models.Dish, error) {
	var dish models.Dish
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dish, id).Error; err != nil {
			return translate(err, "dish", id)
		}
		if err := tx.Select(clause.Associations).Delete(&dish).Error; err != nil {
			return fmt.Errorf("delete dish %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return models.Dish{}, err
	}
	return dish, nil
}

// SetIngredientAvailability marks a shared critical ingredient as in or out of stock.
// Every dish referencing it follows on the next read.
func (s *Store) SetIngredientAvailability(ctx context.Context, id uint, available bool) (models.CriticalIngredient, error) {
	var ingredient models.CriticalIngredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return models.CriticalIngredient{}, translate(err, "ingredient", id)
	}
	if err := s.db.WithContext(ctx).Model(&ingredient).Update("available", available).Error; err != nil {
		return models.CriticalIngredient{}, fmt.Errorf("update ingredient %d: %w", id, err)
	}
	ingredient.Available = available
	return ingredient, nil
}

func translate(err error, what string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %v: %w", what, id, err)
}
