package cart

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"menucart/internal/catalog"
	"menucart/models"
)

// Quote is the server side price of one customisation.
type Quote struct {
	Variant   models.Variant
	Options   []models.Option
	OptionIDs []uint
	UnitPrice decimal.Decimal
}

// PriceFor validates a selection (group id → option ids) against the variant's
// linked option groups and prices it as base price plus option extras.
// Nothing here mutates a cart; callers only touch the store once it succeeds.
func PriceFor(ctx context.Context, provider catalog.Provider, variantID uint, selections map[uint][]uint) (Quote, error) {
	if variantID == 0 {
		return Quote{}, invalid("variantId", "variant is required")
	}

	variant, err := provider.Variant(ctx, variantID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Quote{}, &NotFoundError{What: "variant", ID: strconv.FormatUint(uint64(variantID), 10)}
		}
		return Quote{}, err
	}
	if !catalog.VariantAvailable(variant) {
		return Quote{}, &AvailabilityError{VariantID: variantID}
	}

	groups, err := provider.OptionGroupsForVariant(ctx, variantID)
	if err != nil {
		return Quote{}, fmt.Errorf("load option groups for variant %d: %w", variantID, err)
	}
	offered := make(map[uint]models.OptionGroup, len(groups))
	for _, group := range groups {
		if group.Active {
			offered[group.ID] = group
		}
	}

	chosen := make(map[uint][]models.Option, len(selections))
	for _, groupID := range slices.Sorted(maps.Keys(selections)) {
		optionIDs := normalizeOptionIDs(selections[groupID])
		if len(optionIDs) == 0 {
			continue
		}
		group, ok := offered[groupID]
		if !ok {
			return Quote{}, invalid("selections", "option group %d is not offered for this item", groupID)
		}
		for _, optionID := range optionIDs {
			option, ok := activeOption(group, optionID)
			if !ok {
				return Quote{}, &ValidationError{
					Field:   "selections",
					Group:   group.Name,
					Message: fmt.Sprintf("option %d is not available in %q", optionID, group.Name),
				}
			}
			chosen[groupID] = append(chosen[groupID], option)
		}
		if err := checkCardinality(group, len(chosen[groupID])); err != nil {
			return Quote{}, err
		}
	}

	for _, group := range groups {
		if group.Required && group.Active && len(chosen[group.ID]) == 0 {
			return Quote{}, &ValidationError{
				Field:   "selections",
				Group:   group.Name,
				Message: fmt.Sprintf("please choose an option for %q", group.Name),
			}
		}
	}

	quote := Quote{Variant: variant, UnitPrice: variant.Price}
	for _, groupID := range slices.Sorted(maps.Keys(chosen)) {
		for _, option := range chosen[groupID] {
			quote.Options = append(quote.Options, option)
			quote.OptionIDs = append(quote.OptionIDs, option.ID)
			quote.UnitPrice = quote.UnitPrice.Add(option.ExtraPrice)
		}
	}
	quote.OptionIDs = normalizeOptionIDs(quote.OptionIDs)
	return quote, nil
}

func activeOption(group models.OptionGroup, optionID uint) (models.Option, bool) {
	for _, option := range group.Options {
		if option.ID == optionID && option.Active && option.GroupID == group.ID {
			return option, true
		}
	}
	return models.Option{}, false
}

func checkCardinality(group models.OptionGroup, count int) error {
	switch {
	case !group.Multiple && count > 1:
		return &ValidationError{
			Field:   "selections",
			Group:   group.Name,
			Message: fmt.Sprintf("choose only one option for %q", group.Name),
		}
	case group.Multiple && group.Max > 0 && count > group.Max:
		return &ValidationError{
			Field:   "selections",
			Group:   group.Name,
			Message: fmt.Sprintf("choose at most %d options for %q", group.Max, group.Name),
		}
	case count > 0 && group.Min > 0 && count < group.Min:
		return &ValidationError{
			Field:   "selections",
			Group:   group.Name,
			Message: fmt.Sprintf("choose at least %d options for %q", group.Min, group.Name),
		}
	}
	return nil
}
