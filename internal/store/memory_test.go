package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khmarket/price-tracker/internal/model"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// twoMarkets is a minimal fixture: one market with items, one empty.
func twoMarkets() []model.Market {
	return []model.Market{
		{
			ID: 1, NameEn: "Central Market", NameKm: "ផ្សារធំថ្មី",
			Items: []model.Item{
				{ID: 1, NameEn: "Rice (1kg)", NameKm: "អង្ករ (១គីឡូ)", Price: d(2500)},
				{ID: 2, NameEn: "Fish (1kg)", NameKm: "ត្រី (១គីឡូ)", Price: d(8000)},
			},
		},
		{ID: 2, NameEn: "Orussey Market", NameKm: "ផ្សារអូរទស្សី"},
	}
}

func TestAddItem_RoundTrip(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	added, err := s.AddItem(ctx, 1, "Bread", "នំបុ័ង", d(1500))
	require.NoError(t, err)
	assert.Equal(t, 3, added.ID)

	got, err := s.GetItem(ctx, 1, added.ID)
	require.NoError(t, err)
	assert.Equal(t, *added, *got)
}

func TestAddItem_EmptyMarketStartsAtOne(t *testing.T) {
	s := NewMemoryStore(twoMarkets())

	added, err := s.AddItem(context.Background(), 2, "Salt (1kg)", "អំបិល (១គីឡូ)", d(1000))
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)
}

func TestAddItem_DuplicateNameIgnoresCase(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	_, err := s.AddItem(ctx, 1, "RICE (1KG)", "អង្ករ", d(2000))
	assert.ErrorIs(t, err, ErrDuplicateName)

	// The market is untouched after the failed add.
	m, err := s.GetMarket(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, m.Items, 2)
}

func TestAddItem_SameNameAllowedAcrossMarkets(t *testing.T) {
	s := NewMemoryStore(twoMarkets())

	added, err := s.AddItem(context.Background(), 2, "Rice (1kg)", "អង្ករ (១គីឡូ)", d(2400))
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)
}

func TestAddItem_MarketNotFound(t *testing.T) {
	s := NewMemoryStore(twoMarkets())

	_, err := s.AddItem(context.Background(), 99, "Bread", "នំបុ័ង", d(1500))
	assert.ErrorIs(t, err, ErrMarketNotFound)
}

func TestAddItem_NegativePrice(t *testing.T) {
	s := NewMemoryStore(twoMarkets())

	_, err := s.AddItem(context.Background(), 1, "Bread", "នំបុ័ង", d(-1))
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestAddItem_ZeroPriceAllowed(t *testing.T) {
	s := NewMemoryStore(twoMarkets())

	added, err := s.AddItem(context.Background(), 1, "Water", "ទឹក", d(0))
	require.NoError(t, err)
	assert.True(t, added.Price.IsZero())
}

func TestAddItem_IDsNeverReused(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	// Delete item 1 and re-add under the same name: the new id continues
	// from the live maximum, not from the freed id.
	_, err := s.DeleteItem(ctx, 1, 1)
	require.NoError(t, err)

	added, err := s.AddItem(ctx, 1, "Rice (1kg)", "អង្ករ (១គីឡូ)", d(2600))
	require.NoError(t, err)
	assert.Equal(t, 3, added.ID)
}

func TestAddItem_EmptiedMarketRestartsAtOne(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	_, err := s.DeleteItem(ctx, 1, 1)
	require.NoError(t, err)
	_, err = s.DeleteItem(ctx, 1, 2)
	require.NoError(t, err)

	added, err := s.AddItem(ctx, 1, "Bread", "នំបុ័ង", d(1500))
	require.NoError(t, err)
	assert.Equal(t, 1, added.ID)
}

func TestUpdateItem_OverwritesInPlace(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	updated, err := s.UpdateItem(ctx, 1, 1, "Jasmine Rice (1kg)", "អង្ករផ្កាម្លិះ (១គីឡូ)", d(2700))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
	assert.Equal(t, "Jasmine Rice (1kg)", updated.NameEn)
	assert.True(t, updated.Price.Equal(d(2700)))

	// Order is unchanged: updated item still first.
	m, err := s.GetMarket(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jasmine Rice (1kg)", m.Items[0].NameEn)
}

func TestUpdateItem_KeepingOwnNameIsNotAConflict(t *testing.T) {
	s := NewMemoryStore(twoMarkets())

	_, err := s.UpdateItem(context.Background(), 1, 1, "Rice (1kg)", "អង្ករ (១គីឡូ)", d(2550))
	assert.NoError(t, err)
}

func TestUpdateItem_RenameToExistingNameConflicts(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	_, err := s.UpdateItem(ctx, 1, 1, "fish (1KG)", "ត្រី", d(2500))
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Both items keep their names after the failed rename.
	m, err := s.GetMarket(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rice (1kg)", m.Items[0].NameEn)
	assert.Equal(t, "Fish (1kg)", m.Items[1].NameEn)
}

func TestUpdateItem_NotFound(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	_, err := s.UpdateItem(ctx, 1, 99, "Bread", "នំបុ័ង", d(1500))
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = s.UpdateItem(ctx, 99, 1, "Bread", "នំបុ័ង", d(1500))
	assert.ErrorIs(t, err, ErrMarketNotFound)
}

func TestDeleteItem_ReturnsPriorState(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	removed, err := s.DeleteItem(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Fish (1kg)", removed.NameEn)
	assert.True(t, removed.Price.Equal(d(8000)))

	_, err = s.GetItem(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Remaining items keep their ids.
	m, err := s.GetMarket(ctx, 1)
	require.NoError(t, err)
	require.Len(t, m.Items, 1)
	assert.Equal(t, 1, m.Items[0].ID)
}

func TestDeleteItem_NotFound(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	_, err := s.DeleteItem(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = s.DeleteItem(ctx, 99, 1)
	assert.ErrorIs(t, err, ErrMarketNotFound)
}

func TestListMarkets_SeedOrderAndIsolation(t *testing.T) {
	s := NewMemoryStore(twoMarkets())
	ctx := context.Background()

	markets, err := s.ListMarkets(ctx)
	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, 1, markets[0].ID)
	assert.Equal(t, 2, markets[1].ID)

	// Mutating the returned slice must not leak into the store.
	markets[0].Items[0].NameEn = "mutated"
	got, err := s.GetItem(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rice (1kg)", got.NameEn)
}

func TestSeedMarkets_Shape(t *testing.T) {
	markets := SeedMarkets()
	require.Len(t, markets, 5)
	for _, m := range markets {
		assert.Len(t, m.Items, 10, "market %d", m.ID)
	}
	// Spot-check a few known prices.
	assert.True(t, markets[0].Items[0].Price.Equal(d(2500))) // Central rice
	assert.True(t, markets[3].Items[0].Price.Equal(d(2300))) // Phsar Thmei rice
	assert.True(t, markets[1].Items[9].Price.Equal(d(900)))  // Orussey salt
}
