package cart

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRestoresCart(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)
	_, err := store.Add(personalID, 2, price("30.00"), []uint{largeID, canchaID}, "sin ají")
	require.NoError(t, err)
	_, err = store.Add(glassID, 1, price("6.00"), nil, "")
	require.NoError(t, err)

	blob, err := store.Encode()
	require.NoError(t, err)

	restored, discarded, err := Decode(blob, DefaultLimits)
	require.NoError(t, err)
	assert.Zero(t, discarded)
	assert.False(t, restored.Dirty())
	assert.Equal(t, store.Keys(), restored.Keys())
	assert.Equal(t, store.TotalItems(), restored.TotalItems())
	assert.True(t, store.TotalPrice().Equal(restored.TotalPrice()))

	for _, key := range store.Keys() {
		want, _ := store.Line(key)
		got, _ := restored.Line(key)
		assert.Equal(t, want.Quantity, got.Quantity)
		assert.Equal(t, want.OptionIDs, got.OptionIDs)
		assert.Equal(t, want.Notes, got.Notes)
		assert.True(t, want.UnitPrice.Equal(got.UnitPrice))
	}
}

func TestEncodeWritesPricesAsStrings(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)
	key, err := store.Add(personalID, 1, price("30"), []uint{largeID}, "")
	require.NoError(t, err)

	blob, err := store.Encode()
	require.NoError(t, err)

	var decoded struct {
		Lines map[string]map[string]any `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, "30", decoded.Lines[key]["unitPrice"])
}

func TestEncodeKeepsSubCentPrecision(t *testing.T) {
	t.Parallel()
	store := NewStore(DefaultLimits)
	key, err := store.Add(glassID, 3, price("10.125"), nil, "")
	require.NoError(t, err)

	blob, err := store.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"unitPrice":"10.125"`)

	restored, _, err := Decode(blob, DefaultLimits)
	require.NoError(t, err)
	line, ok := restored.Line(key)
	require.True(t, ok)
	assert.True(t, line.UnitPrice.Equal(money("10.125")), line.UnitPrice.String())
	assert.True(t, restored.TotalPrice().Equal(money("30.375")), restored.TotalPrice().String())
}

func TestDecodeDiscardsMalformedEntries(t *testing.T) {
	t.Parallel()
	good := DeriveKey(glassID, nil, "")
	blob := fmt.Sprintf(`{"lines":{
		%q: {"variantId": 3, "quantity": 2, "unitPrice": "6.00", "optionIds": [], "notes": ""},
		%q: {"variantId": 1, "quantity": 0, "unitPrice": "25.00", "optionIds": [], "notes": ""},
		%q: {"variantId": 1, "quantity": 1, "unitPrice": "free", "optionIds": [], "notes": "x"},
		"1-forged": {"variantId": 1, "quantity": 1, "unitPrice": "0.01", "optionIds": [], "notes": ""},
		"2-broken": "not a line"
	}}`, good, DeriveKey(personalID, nil, ""), DeriveKey(personalID, nil, "x"))

	store, discarded, err := Decode([]byte(blob), DefaultLimits)
	require.NoError(t, err)
	assert.Equal(t, 4, discarded)
	assert.True(t, store.Dirty())
	assert.Equal(t, []string{good}, store.Keys())
	assert.True(t, store.TotalPrice().Equal(money("12.00")))
}

func TestDecodeEmptyAndInvalidBlobs(t *testing.T) {
	t.Parallel()

	store, discarded, err := Decode(nil, DefaultLimits)
	require.NoError(t, err)
	assert.Zero(t, discarded)
	assert.Zero(t, store.Len())
	assert.False(t, store.Dirty())

	store, _, err = Decode([]byte("{oops"), DefaultLimits)
	require.Error(t, err)
	assert.Zero(t, store.Len())
	assert.True(t, store.Dirty(), "a corrupt blob must be replaced on save")
}
