package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type sessionCart struct {
	Lines map[string]json.RawMessage `json:"lines"`
}

type sessionLine struct {
	VariantID uint   `json:"variantId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	OptionIDs []uint `json:"optionIds"`
	Notes     string `json:"notes"`
}

// Decode rebuilds a cart from its session blob. Entries that fail the schema
// are dropped and counted; the store is then marked dirty so the cleaned cart
// replaces the stored one. A blob that is not a cart at all yields an empty
// cart and an error.
func Decode(blob []byte, limits Limits) (*Store, int, error) {
	store := NewStore(limits)
	if len(blob) == 0 {
		return store, 0, nil
	}

	var raw sessionCart
	if err := json.Unmarshal(blob, &raw); err != nil {
		store.dirty = true
		return store, 0, fmt.Errorf("decode cart: %w", err)
	}

	discarded := 0
	for key, entry := range raw.Lines {
		line, err := decodeLine(key, entry)
		if err != nil {
			discarded++
			continue
		}
		store.lines[key] = line
	}
	if discarded > 0 {
		store.dirty = true
	}
	return store, discarded, nil
}

func decodeLine(key string, entry json.RawMessage) (Line, error) {
	var wire sessionLine
	if err := json.Unmarshal(entry, &wire); err != nil {
		return Line{}, err
	}
	if wire.VariantID == 0 {
		return Line{}, fmt.Errorf("line %s: missing variant", key)
	}
	if wire.Quantity < 1 {
		return Line{}, fmt.Errorf("line %s: quantity %d", key, wire.Quantity)
	}
	price, err := decimal.NewFromString(wire.UnitPrice)
	if err != nil {
		return Line{}, fmt.Errorf("line %s: unit price: %w", key, err)
	}
	if price.IsNegative() {
		return Line{}, fmt.Errorf("line %s: negative unit price", key)
	}
	if DeriveKey(wire.VariantID, wire.OptionIDs, wire.Notes) != key {
		return Line{}, fmt.Errorf("line %s: key does not match contents", key)
	}
	return Line{
		VariantID: wire.VariantID,
		Quantity:  wire.Quantity,
		UnitPrice: price,
		OptionIDs: normalizeOptionIDs(wire.OptionIDs),
		Notes:     wire.Notes,
	}, nil
}

// Encode serialises the cart for the session. Prices are written as exact
// decimal strings and never rounded.
func (s *Store) Encode() ([]byte, error) {
	lines := make(map[string]sessionLine, len(s.lines))
	for key, line := range s.lines {
		lines[key] = sessionLine{
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
			OptionIDs: line.OptionIDs,
			Notes:     line.Notes,
		}
	}
	return json.Marshal(struct {
		Lines map[string]sessionLine `json:"lines"`
	}{Lines: lines})
}
