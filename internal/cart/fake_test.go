package cart

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"menucart/internal/catalog"
	"menucart/models"
)

// fakeCatalog is an in-memory catalog.Provider. Variants share their *Dish, so
// flipping an ingredient on the dish affects every variant of it.
type fakeCatalog struct {
	variants map[uint]models.Variant
	groups   map[uint][]models.OptionGroup
	options  map[uint]models.Option
	err      error

	variantsCalls int
}

var _ catalog.Provider = (*fakeCatalog)(nil)

const (
	personalID = 1
	familyID   = 2
	glassID    = 3

	sizeGroupID   = 1
	extrasGroupID = 2
	saucesGroupID = 3

	regularID = 1
	largeID   = 2
	canchaID  = 3
	camoteID  = 4
	avocadoID = 5
	rocotoID  = 6
	oldSizeID = 7
)

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newFakeCatalog() *fakeCatalog {
	ceviche := &models.Dish{
		Name:         "Classic",
		ManualActive: true,
		CriticalIngredients: []models.CriticalIngredient{
			{Name: "Fish", Available: true},
			{Name: "Lemon", Available: true},
		},
	}
	ceviche.ID = 1
	chicha := &models.Dish{Name: "Chicha Morada", ManualActive: true}
	chicha.ID = 2

	size := models.OptionGroup{Name: "Size", Required: true, Min: 1, Max: 1, Active: true}
	size.ID = sizeGroupID
	extras := models.OptionGroup{Name: "Extras", Multiple: true, Max: 2, Active: true}
	extras.ID = extrasGroupID
	sauces := models.OptionGroup{Name: "Sauces", Multiple: true, Active: true}
	sauces.ID = saucesGroupID

	options := []models.Option{
		{GroupID: sizeGroupID, Name: "Regular", ExtraPrice: decimal.Zero, Active: true},
		{GroupID: sizeGroupID, Name: "Large", ExtraPrice: money("5.00"), Active: true},
		{GroupID: extrasGroupID, Name: "Cancha", ExtraPrice: money("2.00"), Active: true},
		{GroupID: extrasGroupID, Name: "Sweet Potato", ExtraPrice: money("3.50"), Active: true},
		{GroupID: extrasGroupID, Name: "Avocado", ExtraPrice: money("4.00"), Active: true},
		{GroupID: saucesGroupID, Name: "Rocoto", ExtraPrice: money("1.00"), Active: true},
		{GroupID: sizeGroupID, Name: "Jumbo", ExtraPrice: money("9.00"), Active: false},
	}

	f := &fakeCatalog{
		variants: map[uint]models.Variant{},
		groups:   map[uint][]models.OptionGroup{},
		options:  map[uint]models.Option{},
	}
	byGroup := map[uint]*models.OptionGroup{sizeGroupID: &size, extrasGroupID: &extras, saucesGroupID: &sauces}
	for i, option := range options {
		option.ID = uint(i + 1)
		group := byGroup[option.GroupID]
		group.Options = append(group.Options, option)
		groupCopy := *group
		option.Group = &groupCopy
		f.options[option.ID] = option
	}

	f.addVariant(personalID, "Personal", "25.00", ceviche, size, extras)
	f.addVariant(familyID, "Family", "45.00", ceviche, size, extras)
	f.addVariant(glassID, "Glass", "6.00", chicha)
	return f
}

func (f *fakeCatalog) addVariant(id uint, name, price string, dish *models.Dish, groups ...models.OptionGroup) {
	variant := models.Variant{DishID: dish.ID, Dish: dish, Name: name, Price: money(price), Active: true}
	variant.ID = id
	f.variants[id] = variant
	f.groups[id] = groups
}

func (f *fakeCatalog) setVariantActive(id uint, active bool) {
	variant := f.variants[id]
	variant.Active = active
	f.variants[id] = variant
}

func (f *fakeCatalog) setIngredient(variantID uint, name string, available bool) {
	dish := f.variants[variantID].Dish
	for i := range dish.CriticalIngredients {
		if dish.CriticalIngredients[i].Name == name {
			dish.CriticalIngredients[i].Available = available
		}
	}
}

func (f *fakeCatalog) Variant(_ context.Context, id uint) (models.Variant, error) {
	if f.err != nil {
		return models.Variant{}, f.err
	}
	variant, ok := f.variants[id]
	if !ok {
		return models.Variant{}, fmt.Errorf("variant %d: %w", id, catalog.ErrNotFound)
	}
	return variant, nil
}

func (f *fakeCatalog) Variants(_ context.Context, ids []uint) ([]models.Variant, error) {
	f.variantsCalls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Variant
	for _, id := range slices.Sorted(slices.Values(ids)) {
		if variant, ok := f.variants[id]; ok {
			out = append(out, variant)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Options(_ context.Context, ids []uint) ([]models.Option, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Option
	for _, id := range ids {
		if option, ok := f.options[id]; ok {
			out = append(out, option)
		}
	}
	return out, nil
}

func (f *fakeCatalog) OptionGroupsForVariant(_ context.Context, variantID uint) ([]models.OptionGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.variants[variantID]; !ok {
		return nil, fmt.Errorf("variant %d: %w", variantID, catalog.ErrNotFound)
	}
	return f.groups[variantID], nil
}
