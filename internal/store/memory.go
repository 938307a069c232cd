package store

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/khmarket/price-tracker/internal/model"
)

// MemoryStore implements Store with an in-memory market slice. State lives
// for the process lifetime only. A single RWMutex guards the whole catalog;
// at this data scale per-market locking buys nothing, and one lock keeps the
// id-assignment and uniqueness invariants trivially race-free.
type MemoryStore struct {
	mu      sync.RWMutex
	markets []model.Market
}

// NewMemoryStore creates a store holding a deep copy of the given markets.
// Pass store.SeedMarkets() for the stock dataset, or nil for an empty
// catalog in tests.
func NewMemoryStore(markets []model.Market) *MemoryStore {
	s := &MemoryStore{markets: make([]model.Market, 0, len(markets))}
	for _, m := range markets {
		s.markets = append(s.markets, m.Clone())
	}
	return s
}

// findMarket returns a live pointer into the slice. Caller must hold mu.
func (s *MemoryStore) findMarket(marketID int) *model.Market {
	for i := range s.markets {
		if s.markets[i].ID == marketID {
			return &s.markets[i]
		}
	}
	return nil
}

// findItem returns the index of the item in the market, or -1.
func findItem(m *model.Market, itemID int) int {
	for i := range m.Items {
		if m.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// hasDuplicateName reports whether another item (any id other than
// excludeID) already uses nameEn, ignoring case. Whitespace and diacritics
// are not normalized.
func hasDuplicateName(m *model.Market, nameEn string, excludeID int) bool {
	for i := range m.Items {
		if m.Items[i].ID != excludeID && strings.EqualFold(m.Items[i].NameEn, nameEn) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) ListMarkets(_ context.Context) ([]model.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Market, 0, len(s.markets))
	for _, m := range s.markets {
		out = append(out, m.Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetMarket(_ context.Context, marketID int) (*model.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.findMarket(marketID)
	if m == nil {
		return nil, ErrMarketNotFound
	}
	cp := m.Clone()
	return &cp, nil
}

func (s *MemoryStore) GetItem(_ context.Context, marketID, itemID int) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.findMarket(marketID)
	if m == nil {
		return nil, ErrMarketNotFound
	}
	i := findItem(m, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	cp := m.Items[i]
	return &cp, nil
}

func (s *MemoryStore) AddItem(_ context.Context, marketID int, nameEn, nameKm string, price decimal.Decimal) (*model.Item, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.findMarket(marketID)
	if m == nil {
		return nil, ErrMarketNotFound
	}
	if hasDuplicateName(m, nameEn, 0) {
		return nil, ErrDuplicateName
	}

	// New id is one past the current maximum, computed fresh on every add.
	// Ids grow monotonically across deletions; an emptied market restarts
	// at 1.
	maxID := 0
	for i := range m.Items {
		if m.Items[i].ID > maxID {
			maxID = m.Items[i].ID
		}
	}

	item := model.Item{
		ID:     maxID + 1,
		NameEn: nameEn,
		NameKm: nameKm,
		Price:  price,
	}
	m.Items = append(m.Items, item)

	cp := item
	return &cp, nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, marketID, itemID int, nameEn, nameKm string, price decimal.Decimal) (*model.Item, error) {
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.findMarket(marketID)
	if m == nil {
		return nil, ErrMarketNotFound
	}
	i := findItem(m, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	if hasDuplicateName(m, nameEn, itemID) {
		return nil, ErrDuplicateName
	}

	m.Items[i].NameEn = nameEn
	m.Items[i].NameKm = nameKm
	m.Items[i].Price = price

	cp := m.Items[i]
	return &cp, nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, marketID, itemID int) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.findMarket(marketID)
	if m == nil {
		return nil, ErrMarketNotFound
	}
	i := findItem(m, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}

	removed := m.Items[i]
	m.Items = append(m.Items[:i], m.Items[i+1:]...)
	return &removed, nil
}
