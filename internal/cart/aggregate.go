package cart

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"menucart/internal/catalog"
)

// AnyLineBlocked reports whether some line points at a variant that exists but
// cannot be sold right now. Lines are never removed here; variants that were
// deleted are stale rather than blocked.
func AnyLineBlocked(ctx context.Context, provider catalog.Provider, store *Store) (bool, error) {
	ids := store.VariantIDs()
	if len(ids) == 0 {
		return false, nil
	}
	variants, err := provider.Variants(ctx, ids)
	if err != nil {
		return false, fmt.Errorf("check cart availability: %w", err)
	}
	for _, variant := range variants {
		if !catalog.VariantAvailable(variant) {
			return true, nil
		}
	}
	return false, nil
}

// EnsureLineAvailable rejects growing a line whose variant is switched off or
// whose dish depends on an ingredient that ran out.
func EnsureLineAvailable(ctx context.Context, provider catalog.Provider, store *Store, key string) error {
	line, ok := store.Line(key)
	if !ok {
		return &NotFoundError{What: "line", ID: key}
	}
	variant, err := provider.Variant(ctx, line.VariantID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return &NotFoundError{What: "variant", ID: strconv.FormatUint(uint64(line.VariantID), 10)}
		}
		return fmt.Errorf("check line availability: %w", err)
	}
	if !catalog.VariantAvailable(variant) {
		return &AvailabilityError{VariantID: line.VariantID}
	}
	return nil
}
