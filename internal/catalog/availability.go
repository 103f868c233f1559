package catalog

import "menucart/models"

// DishAvailable reports whether the manual switch is on and none of the
// preloaded critical ingredients has run out.
func DishAvailable(dish models.Dish) bool {
	if !dish.ManualActive {
		return false
	}
	for _, ingredient := range dish.CriticalIngredients {
		if !ingredient.Available {
			return false
		}
	}
	return true
}

// VariantAvailable combines the variant switch with its dish. A variant whose
// dish was not loaded is treated as unavailable.
func VariantAvailable(variant models.Variant) bool {
	if !variant.Active || variant.Dish == nil {
		return false
	}
	return DishAvailable(*variant.Dish)
}

// VariantAvailableIn is VariantAvailable for menu trees loaded from the dish side.
func VariantAvailableIn(dish models.Dish, variant models.Variant) bool {
	return variant.Active && DishAvailable(dish)
}
