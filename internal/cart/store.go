package cart

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Limits bound a single cart line.
type Limits struct {
	MaxQuantity    int
	MaxNotesLength int
}

// DefaultLimits apply when a Limits field is left at zero.
var DefaultLimits = Limits{MaxQuantity: 99, MaxNotesLength: 200}

func (l Limits) withDefaults() Limits {
	if l.MaxQuantity <= 0 {
		l.MaxQuantity = DefaultLimits.MaxQuantity
	}
	if l.MaxNotesLength <= 0 {
		l.MaxNotesLength = DefaultLimits.MaxNotesLength
	}
	return l
}

// Line is one cart row. UnitPrice is the snapshot taken when the line was
// priced and is never read back from the client.
type Line struct {
	VariantID uint
	Quantity  int
	UnitPrice decimal.Decimal
	OptionIDs []uint
	Notes     string
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store is the cart of one session. It is rebuilt from the session blob at the
// start of a request (Decode) and written back when Dirty (Encode).
type Store struct {
	lines  map[string]Line
	limits Limits
	dirty  bool
}

// NewStore returns an empty cart.
func NewStore(limits Limits) *Store {
	return &Store{lines: make(map[string]Line), limits: limits.withDefaults()}
}

// Add puts quantity units of a customisation in the cart and returns the line key.
// unitPrice is mandatory when the line does not exist yet; on an existing line a
// non-nil unitPrice replaces the stored snapshot.
func (s *Store) Add(variantID uint, quantity int, unitPrice *decimal.Decimal, optionIDs []uint, notes string) (string, error) {
	if variantID == 0 {
		return "", invalid("variantId", "variant is required")
	}
	if quantity < 1 || quantity > s.limits.MaxQuantity {
		return "", invalid("quantity", "quantity must be between 1 and %d", s.limits.MaxQuantity)
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > s.limits.MaxNotesLength {
		return "", invalid("notes", "notes must be at most %d characters", s.limits.MaxNotesLength)
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return "", invalid("unitPrice", "unit price must not be negative")
	}

	key := DeriveKey(variantID, optionIDs, notes)
	line, exists := s.lines[key]
	if !exists {
		if unitPrice == nil {
			return "", invalid("unitPrice", "unit price is required for a new line")
		}
		line = Line{
			VariantID: variantID,
			UnitPrice: *unitPrice,
			OptionIDs: normalizeOptionIDs(optionIDs),
			Notes:     notes,
		}
	} else if unitPrice != nil {
		line.UnitPrice = *unitPrice
	}

	if line.Quantity+quantity > s.limits.MaxQuantity {
		return "", invalid("quantity", "a line can hold at most %d units", s.limits.MaxQuantity)
	}
	line.Quantity += quantity

	s.lines[key] = line
	s.dirty = true
	return key, nil
}

// Increment adds one unit to an existing line.
func (s *Store) Increment(key string) (Line, error) {
	line, ok := s.lines[key]
	if !ok {
		return Line{}, &NotFoundError{What: "line", ID: key}
	}
	if line.Quantity+1 > s.limits.MaxQuantity {
		return line, invalid("quantity", "a line can hold at most %d units", s.limits.MaxQuantity)
	}
	line.Quantity++
	s.lines[key] = line
	s.dirty = true
	return line, nil
}

// Decrement takes one unit off a line and drops the line when it reaches zero.
// An absent key counts as already removed.
func (s *Store) Decrement(key string) (Line, bool) {
	line, ok := s.lines[key]
	if !ok {
		return Line{}, true
	}
	line.Quantity--
	s.dirty = true
	if line.Quantity <= 0 {
		delete(s.lines, key)
		return Line{}, true
	}
	s.lines[key] = line
	return line, false
}

// Remove deletes a line and reports whether it was present.
func (s *Store) Remove(key string) bool {
	if _, ok := s.lines[key]; !ok {
		return false
	}
	delete(s.lines, key)
	s.dirty = true
	return true
}

// Clear empties the cart.
func (s *Store) Clear() {
	if len(s.lines) > 0 {
		s.dirty = true
	}
	clear(s.lines)
}

func (s *Store) Line(key string) (Line, bool) {
	line, ok := s.lines[key]
	return line, ok
}

// Len is the number of lines, not units.
func (s *Store) Len() int {
	return len(s.lines)
}

// Dirty reports whether the cart changed since it was loaded.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Keys lists the line keys in a stable order.
func (s *Store) Keys() []string {
	return slices.Sorted(maps.Keys(s.lines))
}

// TotalItems sums the quantities of every line.
func (s *Store) TotalItems() int {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums UnitPrice × Quantity over all lines in exact decimal arithmetic.
func (s *Store) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// QuantityOfVariant adds up every customisation of one variant, for menu badges.
func (s *Store) QuantityOfVariant(variantID uint) int {
	total := 0
	for _, line := range s.lines {
		if line.VariantID == variantID {
			total += line.Quantity
		}
	}
	return total
}

// VariantIDs lists the distinct variants referenced by the cart, ascending.
func (s *Store) VariantIDs() []uint {
	ids := make([]uint, 0, len(s.lines))
	for _, line := range s.lines {
		ids = append(ids, line.VariantID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
