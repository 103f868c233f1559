package cart

import (
	"context"
	"fmt"
	"iter"

	"github.com/shopspring/decimal"

	"menucart/internal/catalog"
	"menucart/internal/log"
	"menucart/models"
)

// ResolvedOption is an option as shown on a cart line.
type ResolvedOption struct {
	Name       string
	GroupName  string
	ExtraPrice decimal.Decimal
}

// DetailedLine is a cart line joined with the current catalog.
type DetailedLine struct {
	Key       string
	Variant   models.Variant
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Options   []ResolvedOption
	Notes     string
	Blocked   bool
}

// Lines walks the cart in key order, resolving each line against the catalog.
// Variants and options are read in bulk once per iteration, so ranging over the
// sequence twice sees the catalog as it is at that moment. Lines whose variant
// no longer exists are skipped. A catalog error is yielded once and ends the
// walk.
func (s *Store) Lines(ctx context.Context, provider catalog.Provider) iter.Seq2[DetailedLine, error] {
	return func(yield func(DetailedLine, error) bool) {
		if len(s.lines) == 0 {
			return
		}

		variants, err := provider.Variants(ctx, s.VariantIDs())
		if err != nil {
			yield(DetailedLine{}, fmt.Errorf("resolve cart variants: %w", err))
			return
		}
		byVariant := make(map[uint]models.Variant, len(variants))
		for _, variant := range variants {
			byVariant[variant.ID] = variant
		}

		options, err := provider.Options(ctx, s.optionIDs())
		if err != nil {
			yield(DetailedLine{}, fmt.Errorf("resolve cart options: %w", err))
			return
		}
		byOption := make(map[uint]models.Option, len(options))
		for _, option := range options {
			byOption[option.ID] = option
		}

		for _, key := range s.Keys() {
			line := s.lines[key]
			variant, ok := byVariant[line.VariantID]
			if !ok {
				log.Debug(ctx, "skipping stale cart line", "line_key", key, "variant_id", line.VariantID)
				continue
			}

			detail := DetailedLine{
				Key:       key,
				Variant:   variant,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.Subtotal(),
				Notes:     line.Notes,
				Blocked:   !catalog.VariantAvailable(variant),
			}
			for _, id := range line.OptionIDs {
				option, ok := byOption[id]
				if !ok {
					continue
				}
				resolved := ResolvedOption{Name: option.Name, ExtraPrice: option.ExtraPrice}
				if option.Group != nil {
					resolved.GroupName = option.Group.Name
				}
				detail.Options = append(detail.Options, resolved)
			}

			if !yield(detail, nil) {
				return
			}
		}
	}
}

func (s *Store) optionIDs() []uint {
	var ids []uint
	for _, line := range s.lines {
		ids = append(ids, line.OptionIDs...)
	}
	return normalizeOptionIDs(ids)
}
