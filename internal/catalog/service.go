// Package catalog provides the HTTP handlers for listing markets, managing
// items, and building cross-market price comparisons.
//
// All prices use shopspring/decimal — never float64 for money. Request
// prices are accepted as a JSON number or a numeric string; decimal's
// unmarshaler takes both.
package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/khmarket/price-tracker/internal/metrics"
	"github.com/khmarket/price-tracker/internal/model"
	"github.com/khmarket/price-tracker/internal/pricing"
	"github.com/khmarket/price-tracker/internal/store"
)

// Response messages. The admin UI shows these verbatim.
const (
	msgItemAdded     = "Item added successfully"
	msgItemUpdated   = "Item updated successfully"
	msgItemDeleted   = "Item deleted successfully"
	msgMarketMissing = "Market not found"
	msgItemMissing   = "Item not found"
	msgDuplicate     = "Item with this name already exists in this market"
	msgInvalidInput  = "Invalid input. Name (both languages) and numeric price are required."
	msgNegativePrice = "Price must be a non-negative number"
)

// Service handles catalog operations. Mutations are serialized inside the
// store; the service itself holds no state beyond its collaborators.
type Service struct {
	store    store.Store
	validate *validator.Validate
	wsHub    *WSHub // optional hub for live catalog-change broadcasts
}

// NewService creates a catalog service. Pass nil for hub if WebSocket
// broadcasting is not needed.
func NewService(st store.Store, hub *WSHub) *Service {
	return &Service{
		store:    st,
		validate: validator.New(),
		wsHub:    hub,
	}
}

// ItemRequest is the JSON body for item create and update. Price is a
// pointer so a missing field is distinguishable from zero; zero itself is
// a valid price.
type ItemRequest struct {
	NameEn string           `json:"name_en" validate:"required"`
	NameKm string           `json:"name_km" validate:"required"`
	Price  *decimal.Decimal `json:"price" validate:"required"`
}

// --- HTTP Handlers ---

// ListMarkets handles GET /api/markets
func (s *Service) ListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := s.store.ListMarkets(r.Context())
	if err != nil {
		writeError(w, "failed to list markets", http.StatusInternalServerError)
		return
	}
	if markets == nil {
		markets = []model.Market{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"markets": markets})
}

// ListPrices handles GET /api/prices?search=q
// Returns the flattened catalog with per-good min/max flags. Flags are
// computed after the search filter, so a filtered view flags extremes
// within what is shown.
func (s *Service) ListPrices(w http.ResponseWriter, r *http.Request) {
	markets, err := s.store.ListMarkets(r.Context())
	if err != nil {
		writeError(w, "failed to list markets", http.StatusInternalServerError)
		return
	}

	listings := pricing.Flatten(markets)
	listings = pricing.Filter(listings, r.URL.Query().Get("search"))
	listings = pricing.FlagSuperlatives(listings)
	if listings == nil {
		listings = []pricing.Listing{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": listings})
}

// Compare handles GET /api/compare?markets=1,2&items=Rice+(1kg)&sort=avg_price&order=desc
// markets is a comma-separated id list; items repeats once per name.
// Without a sort parameter rows stay in selection order.
func (s *Service) Compare(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.store.ListMarkets(r.Context())
	if err != nil {
		writeError(w, "failed to list markets", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	selected, err := selectMarkets(catalog, q.Get("markets"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rows := pricing.BuildComparison(selected, q["items"], catalog)

	if by := q.Get("sort"); by != "" {
		if by != pricing.SortByName && by != pricing.SortByAvgPrice {
			writeError(w, "sort must be name or avg_price", http.StatusBadRequest)
			return
		}
		pricing.SortRows(rows, by, q.Get("order") == "desc")
	}

	if rows == nil {
		rows = []pricing.Row{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// selectMarkets resolves a comma-separated id list against the catalog,
// preserving the requested order. Empty means all markets in catalog
// order. Unknown ids are a client error, not silently dropped.
func selectMarkets(catalog []model.Market, csv string) ([]model.Market, error) {
	if csv == "" {
		return catalog, nil
	}
	byID := make(map[int]model.Market, len(catalog))
	for _, m := range catalog {
		byID[m.ID] = m
	}
	var out []model.Market
	for _, part := range strings.Split(csv, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New("markets must be a comma-separated list of ids")
		}
		m, ok := byID[id]
		if !ok {
			return nil, errors.New("unknown market id: " + strconv.Itoa(id))
		}
		out = append(out, m)
	}
	return out, nil
}

// AddItem handles POST /api/market/{marketID}/item
func (s *Service) AddItem(w http.ResponseWriter, r *http.Request) {
	marketID, ok := s.marketID(w, r)
	if !ok {
		return
	}
	req, ok := s.bindItem(w, r)
	if !ok {
		return
	}

	item, err := s.store.AddItem(r.Context(), marketID, req.NameEn, req.NameKm, *req.Price)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	slog.Info("item added", "market_id", marketID, "item_id", item.ID, "name", item.NameEn, "price", item.Price.String())
	metrics.ItemWrites.WithLabelValues("add").Inc()
	s.broadcast(eventItemAdded, marketID, item)

	writeJSON(w, http.StatusCreated, map[string]any{"message": msgItemAdded, "item": item})
}

// UpdateItem handles PUT /api/market/{marketID}/item/{itemID}
func (s *Service) UpdateItem(w http.ResponseWriter, r *http.Request) {
	marketID, ok := s.marketID(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, msgItemMissing, http.StatusNotFound)
		return
	}
	req, ok := s.bindItem(w, r)
	if !ok {
		return
	}

	item, err := s.store.UpdateItem(r.Context(), marketID, itemID, req.NameEn, req.NameKm, *req.Price)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	slog.Info("item updated", "market_id", marketID, "item_id", item.ID, "name", item.NameEn, "price", item.Price.String())
	metrics.ItemWrites.WithLabelValues("update").Inc()
	s.broadcast(eventItemUpdated, marketID, item)

	writeJSON(w, http.StatusOK, map[string]any{"message": msgItemUpdated, "item": item})
}

// DeleteItem handles DELETE /api/market/{marketID}/item/{itemID}
// Returns the removed item's prior state.
func (s *Service) DeleteItem(w http.ResponseWriter, r *http.Request) {
	marketID, ok := s.marketID(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, msgItemMissing, http.StatusNotFound)
		return
	}

	item, err := s.store.DeleteItem(r.Context(), marketID, itemID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	slog.Info("item deleted", "market_id", marketID, "item_id", item.ID, "name", item.NameEn)
	metrics.ItemWrites.WithLabelValues("delete").Inc()
	s.broadcast(eventItemDeleted, marketID, item)

	writeJSON(w, http.StatusOK, map[string]any{"message": msgItemDeleted, "item": item})
}

// --- helpers ---

// marketID parses the market id path segment. A non-numeric id behaves
// like an unknown market.
func (s *Service) marketID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "marketID"))
	if err != nil {
		writeError(w, msgMarketMissing, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// bindItem decodes and validates an item body. A malformed body, a missing
// field, or an unparseable price all produce the same 400; the admin UI
// shows one combined hint for them.
func (s *Service) bindItem(w http.ResponseWriter, r *http.Request) (*ItemRequest, bool) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, msgInvalidInput, http.StatusBadRequest)
		return nil, false
	}
	if err := s.validate.Struct(&req); err != nil {
		writeError(w, msgInvalidInput, http.StatusBadRequest)
		return nil, false
	}
	if req.Price.IsNegative() {
		writeError(w, msgNegativePrice, http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func (s *Service) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrMarketNotFound):
		writeError(w, msgMarketMissing, http.StatusNotFound)
	case errors.Is(err, store.ErrItemNotFound):
		writeError(w, msgItemMissing, http.StatusNotFound)
	case errors.Is(err, store.ErrDuplicateName):
		writeError(w, msgDuplicate, http.StatusBadRequest)
	case errors.Is(err, store.ErrNegativePrice):
		writeError(w, msgNegativePrice, http.StatusBadRequest)
	default:
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Service) broadcast(eventType string, marketID int, item *model.Item) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.Broadcast(WSMessage{
		Type:     eventType,
		MarketID: marketID,
		Item:     item,
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
