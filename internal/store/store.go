// Package store holds the authoritative in-memory catalog of markets and
// items and enforces its identity invariants: per-market item id assignment
// and case-insensitive name uniqueness within a market.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/khmarket/price-tracker/internal/model"
)

var (
	// ErrMarketNotFound is returned when a market id resolves to nothing.
	ErrMarketNotFound = errors.New("store: market not found")

	// ErrItemNotFound is returned when an item id does not exist in the
	// addressed market.
	ErrItemNotFound = errors.New("store: item not found")

	// ErrDuplicateName is returned when a write would give two items in
	// the same market the same English name (compared case-insensitively).
	ErrDuplicateName = errors.New("store: item with this name already exists in this market")

	// ErrNegativePrice is returned when a write carries a price below zero.
	// The store never holds a negative price.
	ErrNegativePrice = errors.New("store: price must be non-negative")
)

// Store is the catalog state interface. The in-memory store is the only
// implementation; the interface keeps handlers testable against an empty
// or custom-seeded catalog.
//
// All mutating operations validate before touching state, so a failed call
// leaves the catalog exactly as it was.
type Store interface {
	// ListMarkets returns all markets with their items, in seed order.
	ListMarkets(ctx context.Context) ([]model.Market, error)

	// GetMarket retrieves one market by id.
	GetMarket(ctx context.Context, marketID int) (*model.Market, error)

	// GetItem retrieves one item within a market.
	GetItem(ctx context.Context, marketID, itemID int) (*model.Item, error)

	// AddItem appends a new item to a market. The new id is one past the
	// highest id currently in that market (1 for an empty market).
	AddItem(ctx context.Context, marketID int, nameEn, nameKm string, price decimal.Decimal) (*model.Item, error)

	// UpdateItem overwrites an existing item's names and price in place.
	// The id never changes.
	UpdateItem(ctx context.Context, marketID, itemID int, nameEn, nameKm string, price decimal.Decimal) (*model.Item, error)

	// DeleteItem removes an item and returns its prior state. Remaining
	// items keep their ids; ids are not renumbered.
	DeleteItem(ctx context.Context, marketID, itemID int) (*model.Item, error)
}
