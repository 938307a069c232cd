// Package model defines the core domain types shared across the price
// tracker. All prices use shopspring/decimal — never float64 for money.
package model

import "github.com/shopspring/decimal"

func init() {
	// Seed prices are plain JSON numbers; keep the wire format matching
	// (2500, not "2500").
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is one priced good in one market. Item ids are unique within the
// owning market only — the same good in another market carries its own id.
// Prices are in KHR (riel).
type Item struct {
	ID     int             `json:"id"`
	NameEn string          `json:"name_en"`
	NameKm string          `json:"name_km"`
	Price  decimal.Decimal `json:"price"`
}

// Market is one physical market and its current item list. Markets come
// from the seed dataset at boot and are never created or destroyed through
// the API; only their item lists change. Item order is insertion order and
// doubles as display order.
type Market struct {
	ID     int    `json:"id"`
	NameEn string `json:"name_en"`
	NameKm string `json:"name_km"`
	Items  []Item `json:"items"`
}

// Clone returns a deep copy so callers can hold the result across store
// mutations.
func (m Market) Clone() Market {
	out := m
	out.Items = make([]Item, len(m.Items))
	copy(out.Items, m.Items)
	return out
}
