package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khmarket/price-tracker/internal/model"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func listing(market int, name string, price int64) Listing {
	return Listing{
		Item:     model.Item{ID: 1, NameEn: name, NameKm: name, Price: d(price)},
		MarketID: market,
	}
}

func TestFlatten_PreservesOrder(t *testing.T) {
	markets := []model.Market{
		{ID: 2, NameEn: "B", Items: []model.Item{{ID: 1, NameEn: "Rice (1kg)", Price: d(2400)}}},
		{ID: 1, NameEn: "A", Items: []model.Item{
			{ID: 1, NameEn: "Rice (1kg)", Price: d(2500)},
			{ID: 2, NameEn: "Fish (1kg)", Price: d(8000)},
		}},
	}

	got := Flatten(markets)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].MarketID)
	assert.Equal(t, 1, got[1].MarketID)
	assert.Equal(t, "Fish (1kg)", got[2].NameEn)
	assert.Equal(t, "A", got[2].MarketNameEn)
}

func TestFlagSuperlatives_TiesFlagEveryone(t *testing.T) {
	in := []Listing{
		listing(1, "Rice (1kg)", 100),
		listing(2, "Rice (1kg)", 200),
		listing(3, "Rice (1kg)", 100),
	}

	got := FlagSuperlatives(in)
	require.Len(t, got, 3)

	assert.True(t, got[0].IsMinPrice)
	assert.False(t, got[0].IsMaxPrice)
	assert.True(t, got[2].IsMinPrice)
	assert.False(t, got[2].IsMaxPrice)

	assert.True(t, got[1].IsMaxPrice)
	assert.False(t, got[1].IsMinPrice)
}

func TestFlagSuperlatives_SingletonIsBoth(t *testing.T) {
	got := FlagSuperlatives([]Listing{listing(1, "Salt (1kg)", 1000)})
	require.Len(t, got, 1)
	assert.True(t, got[0].IsMinPrice)
	assert.True(t, got[0].IsMaxPrice)
}

// Grouping is by exact name: case variants are separate goods on the read
// path even though the write path would have rejected them as duplicates
// within one market. Inherited behavior, kept on purpose.
func TestFlagSuperlatives_ExactNameGrouping(t *testing.T) {
	in := []Listing{
		listing(1, "Rice (1kg)", 100),
		listing(2, "RICE (1KG)", 200),
	}

	got := FlagSuperlatives(in)
	// Each is alone in its group, so each is both min and max.
	for _, l := range got {
		assert.True(t, l.IsMinPrice, l.NameEn)
		assert.True(t, l.IsMaxPrice, l.NameEn)
	}
}

func TestFlagSuperlatives_InputOrderKept(t *testing.T) {
	in := []Listing{
		listing(1, "Fish (1kg)", 8000),
		listing(1, "Rice (1kg)", 2500),
		listing(2, "Rice (1kg)", 2400),
	}

	got := FlagSuperlatives(in)
	require.Len(t, got, 3)
	assert.Equal(t, "Fish (1kg)", got[0].NameEn)
	assert.Equal(t, "Rice (1kg)", got[1].NameEn)
	assert.Equal(t, 2, got[2].MarketID)
}

func TestFilter_EnglishIgnoresCase(t *testing.T) {
	in := []Listing{
		listing(1, "Rice (1kg)", 2500),
		listing(1, "Fish (1kg)", 8000),
	}

	got := Filter(in, "rIcE")
	require.Len(t, got, 1)
	assert.Equal(t, "Rice (1kg)", got[0].NameEn)
}

func TestFilter_KhmerSubstring(t *testing.T) {
	in := []Listing{
		{Item: model.Item{NameEn: "Rice (1kg)", NameKm: "អង្ករ (១គីឡូ)", Price: d(2500)}},
		{Item: model.Item{NameEn: "Fish (1kg)", NameKm: "ត្រី (១គីឡូ)", Price: d(8000)}},
	}

	got := Filter(in, "អង្ករ")
	require.Len(t, got, 1)
	assert.Equal(t, "Rice (1kg)", got[0].NameEn)
}

func TestFilter_EmptyQueryKeepsAll(t *testing.T) {
	in := []Listing{listing(1, "Rice (1kg)", 2500)}
	assert.Equal(t, in, Filter(in, ""))
}
