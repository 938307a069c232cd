package store

import (
	"github.com/shopspring/decimal"

	"github.com/khmarket/price-tracker/internal/model"
)

// SeedMarkets returns the stock dataset: five Phnom Penh markets carrying
// the same ten staple goods at slightly different KHR prices. Loaded once
// at process start; markets are never created or removed after that.
func SeedMarkets() []model.Market {
	khr := decimal.NewFromInt

	staples := func(prices [10]int64) []model.Item {
		names := [10][2]string{
			{"Rice (1kg)", "អង្ករ (១គីឡូ)"},
			{"Fish (1kg)", "ត្រី (១គីឡូ)"},
			{"Cooking Oil (1L)", "ប្រេងចម្អិន (១លីត្រ)"},
			{"Chicken (1kg)", "សាច់មាន់ (១គីឡូ)"},
			{"Pork (1kg)", "សាច់ជ្រូក (១គីឡូ)"},
			{"Eggs (10 pieces)", "ស៊ុប (១០គ្រាប់)"},
			{"Onions (1kg)", "ខ្ញី (១គីឡូ)"},
			{"Garlic (1kg)", "ខ្ទឹម (១គីឡូ)"},
			{"Tomatoes (1kg)", "ប៉េងប៉ោង (១គីឡូ)"},
			{"Salt (1kg)", "អំបិល (១គីឡូ)"},
		}
		items := make([]model.Item, 0, len(names))
		for i, n := range names {
			items = append(items, model.Item{
				ID:     i + 1,
				NameEn: n[0],
				NameKm: n[1],
				Price:  khr(prices[i]),
			})
		}
		return items
	}

	return []model.Market{
		{
			ID:     1,
			NameEn: "Central Market",
			NameKm: "ផ្សារធំថ្មី",
			Items:  staples([10]int64{2500, 8000, 4500, 12000, 15000, 3000, 2000, 3500, 4000, 1000}),
		},
		{
			ID:     2,
			NameEn: "Orussey Market",
			NameKm: "ផ្សារអូរទស្សី",
			Items:  staples([10]int64{2400, 7500, 4200, 11500, 14500, 2800, 1800, 3200, 3800, 900}),
		},
		{
			ID:     3,
			NameEn: "Russian Market",
			NameKm: "ផ្សាររុស្ស៊ី",
			Items:  staples([10]int64{2600, 8200, 4700, 12500, 15200, 3100, 2100, 3600, 4100, 1100}),
		},
		{
			ID:     4,
			NameEn: "Phsar Thmei",
			NameKm: "ផ្សារថ្មី",
			Items:  staples([10]int64{2300, 7800, 4300, 11800, 14800, 2900, 1900, 3300, 3900, 950}),
		},
		{
			ID:     5,
			NameEn: "Boeung Keng Kang Market",
			NameKm: "ផ្សារបឹងកេងកង",
			Items:  staples([10]int64{2550, 8100, 4600, 12200, 15100, 2950, 1950, 3400, 3950, 1050}),
		},
	}
}
