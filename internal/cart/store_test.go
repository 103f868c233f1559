package cart

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(value string) *decimal.Decimal {
	d := money(value)
	return &d
}

func TestAddCreatesAndMergesLines(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)

	key, err := store.Add(personalID, 1, price("30.00"), []uint{largeID}, " Sin cebolla ")
	require.NoError(t, err)
	assert.True(t, store.Dirty())

	again, err := store.Add(personalID, 1, nil, []uint{largeID}, "sin cebolla")
	require.NoError(t, err)
	assert.Equal(t, key, again)

	line, ok := store.Line(key)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(money("30.00")))
	assert.Equal(t, "Sin cebolla", line.Notes)
	assert.Equal(t, []uint{largeID}, line.OptionIDs)
	assert.Equal(t, 1, store.Len())
}

func TestAddOverwritesPriceSnapshot(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)

	key, err := store.Add(glassID, 1, price("6.00"), nil, "")
	require.NoError(t, err)
	_, err = store.Add(glassID, 2, price("6.50"), nil, "")
	require.NoError(t, err)

	line, _ := store.Line(key)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(money("6.50")))
}

func TestAddRejectsInvalidInputWithoutMutation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		variantID uint
		quantity  int
		unitPrice *decimal.Decimal
		notes     string
		field     string
	}{
		{"missing variant", 0, 1, price("1.00"), "", "variantId"},
		{"zero quantity", glassID, 0, price("1.00"), "", "quantity"},
		{"quantity above limit", glassID, 100, price("1.00"), "", "quantity"},
		{"notes too long", glassID, 1, price("1.00"), strings.Repeat("ñ", 201), "notes"},
		{"negative price", glassID, 1, price("-1.00"), "", "unitPrice"},
		{"new line without price", glassID, 1, nil, "", "unitPrice"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := NewStore(DefaultLimits)

			_, err := store.Add(tt.variantID, tt.quantity, tt.unitPrice, nil, tt.notes)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Zero(t, store.Len())
			assert.False(t, store.Dirty())
		})
	}
}

func TestAddEnforcesLineQuantityLimit(t *testing.T) {
	t.Parallel()
	store := NewStore(Limits{MaxQuantity: 5})

	key, err := store.Add(glassID, 4, price("6.00"), nil, "")
	require.NoError(t, err)

	_, err = store.Add(glassID, 2, nil, nil, "")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	line, _ := store.Line(key)
	assert.Equal(t, 4, line.Quantity)

	line, err = store.Increment(key)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	_, err = store.Increment(key)
	require.ErrorAs(t, err, &validation)
}

func TestIncrementUnknownLine(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)

	_, err := store.Increment("9-deadbeef")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDecrementRemovesAtZero(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)
	key, err := store.Add(glassID, 2, price("6.00"), nil, "")
	require.NoError(t, err)

	line, removed := store.Decrement(key)
	assert.False(t, removed)
	assert.Equal(t, 1, line.Quantity)

	_, removed = store.Decrement(key)
	assert.True(t, removed)
	_, ok := store.Line(key)
	assert.False(t, ok)

	_, removed = store.Decrement(key)
	assert.True(t, removed, "decrementing an absent line is a no-op success")
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)
	glass, _ := store.Add(glassID, 1, price("6.00"), nil, "")
	_, _ = store.Add(personalID, 1, price("25.00"), []uint{regularID}, "")

	assert.True(t, store.Remove(glass))
	assert.False(t, store.Remove(glass))
	assert.Equal(t, 1, store.Len())

	store.Clear()
	assert.Zero(t, store.Len())
	assert.Zero(t, store.TotalItems())
	assert.True(t, store.TotalPrice().IsZero())
}

func TestTotalsUseExactDecimalArithmetic(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)

	_, err := store.Add(1, 3, price("0.10"), nil, "")
	require.NoError(t, err)
	_, err = store.Add(2, 1, price("0.20"), nil, "")
	require.NoError(t, err)
	_, err = store.Add(1, 2, price("30.00"), []uint{largeID}, "")
	require.NoError(t, err)

	assert.Equal(t, 6, store.TotalItems())
	assert.True(t, store.TotalPrice().Equal(money("60.50")), "got %s", store.TotalPrice())
	assert.Equal(t, 5, store.QuantityOfVariant(1))
	assert.Equal(t, 1, store.QuantityOfVariant(2))
	assert.Zero(t, store.QuantityOfVariant(3))
	assert.Equal(t, []uint{1, 2}, store.VariantIDs())
}

func TestLimitsFallBackToDefaults(t *testing.T) {
	t.Parallel()
	store := NewStore(Limits{})

	_, err := store.Add(glassID, DefaultLimits.MaxQuantity, price("1.00"), nil, strings.Repeat("a", DefaultLimits.MaxNotesLength))
	require.NoError(t, err)
}
