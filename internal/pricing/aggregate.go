// Package pricing implements the read-side price analysis: flattening the
// catalog into per-market listings, flagging cheapest/dearest offers per
// good, and building the cross-market comparison table.
//
// Goods are matched across markets by exact name_en. This is deliberately
// stricter than the write-path uniqueness check, which ignores case; the
// asymmetry is inherited behavior and pinned by tests, not a bug to fix
// here.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khmarket/price-tracker/internal/model"
)

// Listing is one item offer with its market attribution and superlative
// flags. It is what the listing endpoint returns, one entry per item per
// market.
type Listing struct {
	model.Item
	MarketID     int    `json:"market_id"`
	MarketNameEn string `json:"market_name_en"`
	MarketNameKm string `json:"market_name_km"`
	IsMinPrice   bool   `json:"is_min_price"`
	IsMaxPrice   bool   `json:"is_max_price"`
}

// Flatten turns the market list into one listing per item, preserving
// market order and item insertion order.
func Flatten(markets []model.Market) []Listing {
	var out []Listing
	for _, m := range markets {
		for _, it := range m.Items {
			out = append(out, Listing{
				Item:         it,
				MarketID:     m.ID,
				MarketNameEn: m.NameEn,
				MarketNameKm: m.NameKm,
			})
		}
	}
	return out
}

// Filter keeps listings whose English name contains query (ignoring case)
// or whose Khmer name contains it verbatim. An empty query keeps everything.
func Filter(listings []Listing, query string) []Listing {
	if query == "" {
		return listings
	}
	q := strings.ToLower(query)
	var out []Listing
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.NameEn), q) || strings.Contains(l.NameKm, query) {
			out = append(out, l)
		}
	}
	return out
}

// FlagSuperlatives groups listings by exact name_en and marks each one
// that carries its group's minimum or maximum price. Ties all get the
// flag; a group of one gets both. Flags are computed over the listings
// given, so filter first if the view is filtered.
func FlagSuperlatives(listings []Listing) []Listing {
	type bounds struct {
		min, max decimal.Decimal
		seen     bool
	}
	groups := make(map[string]*bounds)
	for _, l := range listings {
		b, ok := groups[l.NameEn]
		if !ok {
			groups[l.NameEn] = &bounds{min: l.Price, max: l.Price, seen: true}
			continue
		}
		if l.Price.LessThan(b.min) {
			b.min = l.Price
		}
		if l.Price.GreaterThan(b.max) {
			b.max = l.Price
		}
	}

	out := make([]Listing, len(listings))
	for i, l := range listings {
		b := groups[l.NameEn]
		l.IsMinPrice = l.Price.Equal(b.min)
		l.IsMaxPrice = l.Price.Equal(b.max)
		out[i] = l
	}
	return out
}
