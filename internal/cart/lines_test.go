package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, store *Store, provider *fakeCatalog) []DetailedLine {
	t.Helper()
	var lines []DetailedLine
	for line, err := range store.Lines(context.Background(), provider) {
		require.NoError(t, err)
		lines = append(lines, line)
	}
	return lines
}

func newTwoLineCart(t *testing.T) (*Store, string, string) {
	t.Helper()
	store := NewStore(DefaultLimits)
	ceviche, err := store.Add(personalID, 1, price("35.00"), []uint{largeID, canchaID}, "sin ají")
	require.NoError(t, err)
	chicha, err := store.Add(glassID, 2, price("6.00"), nil, "")
	require.NoError(t, err)
	return store, ceviche, chicha
}

func TestLinesResolveCatalogDetails(t *testing.T) {
	t.Parallel()
	store, ceviche, _ := newTwoLineCart(t)

	lines := collect(t, store, newFakeCatalog())
	require.Len(t, lines, 2)

	var detail DetailedLine
	for _, line := range lines {
		if line.Key == ceviche {
			detail = line
		}
	}
	assert.Equal(t, "Personal", detail.Variant.Name)
	assert.Equal(t, "sin ají", detail.Notes)
	assert.False(t, detail.Blocked)
	assert.True(t, detail.Subtotal.Equal(money("35.00")))
	require.Len(t, detail.Options, 2)
	assert.Equal(t, "Large", detail.Options[0].Name)
	assert.Equal(t, "Size", detail.Options[0].GroupName)
	assert.Equal(t, "Extras", detail.Options[1].GroupName)
	assert.True(t, detail.Options[1].ExtraPrice.Equal(money("2.00")))
}

func TestLinesAreOrderedByKey(t *testing.T) {
	t.Parallel()
	store, _, _ := newTwoLineCart(t)

	lines := collect(t, store, newFakeCatalog())
	keys := make([]string, 0, len(lines))
	for _, line := range lines {
		keys = append(keys, line.Key)
	}
	assert.Equal(t, store.Keys(), keys)
}

func TestIngredientOutageBlocksLineWithoutRemovingIt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	provider := newFakeCatalog()
	store, ceviche, chicha := newTwoLineCart(t)

	blocked, err := AnyLineBlocked(ctx, provider, store)
	require.NoError(t, err)
	assert.False(t, blocked)

	provider.setIngredient(personalID, "Fish", false)

	blocked, err = AnyLineBlocked(ctx, provider, store)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, 2, store.Len())

	states := map[string]bool{}
	for _, line := range collect(t, store, provider) {
		states[line.Key] = line.Blocked
	}
	assert.Equal(t, map[string]bool{ceviche: true, chicha: false}, states)

	provider.setIngredient(personalID, "Fish", true)
	blocked, err = AnyLineBlocked(ctx, provider, store)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestStaleVariantIsSkippedNotBlocked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	provider := newFakeCatalog()
	store, _, chicha := newTwoLineCart(t)

	delete(provider.variants, personalID)

	lines := collect(t, store, provider)
	require.Len(t, lines, 1)
	assert.Equal(t, chicha, lines[0].Key)

	blocked, err := AnyLineBlocked(ctx, provider, store)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Equal(t, 2, store.Len(), "stale lines stay in the cart")
}

func TestLinesIsRestartableAndRereadsCatalog(t *testing.T) {
	t.Parallel()
	provider := newFakeCatalog()
	store, _, _ := newTwoLineCart(t)

	first := collect(t, store, provider)
	provider.setVariantActive(glassID, false)
	second := collect(t, store, provider)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, 2, provider.variantsCalls)

	blockedCount := 0
	for _, line := range second {
		if line.Blocked {
			blockedCount++
		}
	}
	assert.Equal(t, 1, blockedCount)
}

func TestLinesStopsWhenConsumerBreaks(t *testing.T) {
	t.Parallel()
	store, _, _ := newTwoLineCart(t)

	seen := 0
	for range store.Lines(context.Background(), newFakeCatalog()) {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestLinesYieldsCatalogError(t *testing.T) {
	t.Parallel()
	provider := newFakeCatalog()
	provider.err = errors.New("connection refused")
	store, _, _ := newTwoLineCart(t)

	count := 0
	for _, err := range store.Lines(context.Background(), provider) {
		count++
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	}
	assert.Equal(t, 1, count)

	_, err := AnyLineBlocked(context.Background(), provider, store)
	require.Error(t, err)
}

func TestEmptyCartHasNoLines(t *testing.T) {
	t.Parallel()
	provider := newFakeCatalog()
	store := NewStore(DefaultLimits)

	assert.Empty(t, collect(t, store, provider))
	blocked, err := AnyLineBlocked(context.Background(), provider, store)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Zero(t, provider.variantsCalls)
}

func TestEnsureLineAvailable(t *testing.T) {
	t.Parallel()
	store, ceviche, chicha := newTwoLineCart(t)
	provider := newFakeCatalog()
	ctx := context.Background()

	require.NoError(t, EnsureLineAvailable(ctx, provider, store, ceviche))

	provider.setIngredient(personalID, "Fish", false)
	var availability *AvailabilityError
	require.ErrorAs(t, EnsureLineAvailable(ctx, provider, store, ceviche), &availability)
	assert.Equal(t, uint(personalID), availability.VariantID)

	provider.setVariantActive(glassID, false)
	require.ErrorAs(t, EnsureLineAvailable(ctx, provider, store, chicha), &availability)

	assert.ErrorIs(t, EnsureLineAvailable(ctx, provider, store, "9-missing"), ErrNotFound)

	delete(provider.variants, glassID)
	var notFound *NotFoundError
	require.ErrorAs(t, EnsureLineAvailable(ctx, provider, store, chicha), &notFound)
	assert.Equal(t, "variant", notFound.What)

	provider.err = errors.New("connection reset")
	err := EnsureLineAvailable(ctx, provider, store, ceviche)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
