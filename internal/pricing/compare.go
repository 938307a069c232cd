package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/khmarket/price-tracker/internal/model"
)

// Cell is one market's entry in a comparison row. Price is nil and
// Available false when the market carries no item of the row's name;
// such cells never receive a superlative flag.
type Cell struct {
	MarketID     int              `json:"market_id"`
	MarketNameEn string           `json:"market_name_en"`
	MarketNameKm string           `json:"market_name_km"`
	Price        *decimal.Decimal `json:"price"`
	Available    bool             `json:"available"`
	IsMinPrice   bool             `json:"is_min_price"`
	IsMaxPrice   bool             `json:"is_max_price"`
}

// Row is one item name compared across the selected markets. AvgPrice is
// the mean over available cells only, nil when no selected market carries
// the item.
type Row struct {
	ItemName string           `json:"item_name"`
	Cells    []Cell           `json:"cells"`
	AvgPrice *decimal.Decimal `json:"avg_price"`
}

// Sort orders for comparison rows.
const (
	SortByName     = "name"
	SortByAvgPrice = "avg_price"
)

// avgScale is the rounding scale for row means.
const avgScale = 4

// BuildComparison cross-tabulates the requested item names against the
// requested markets. Row order follows the itemNames order and cell order
// follows the markets order: selection order is display order. Lookup is
// by exact name_en.
//
// catalog is the full market list and decides which names are known at
// all: unknown names are omitted, not errored. A known name absent from
// every *selected* market still produces a row, with all cells
// unavailable and no mean.
func BuildComparison(markets []model.Market, itemNames []string, catalog []model.Market) []Row {
	known := make(map[string]bool)
	for _, m := range catalog {
		for i := range m.Items {
			known[m.Items[i].NameEn] = true
		}
	}

	var rows []Row
	for _, name := range itemNames {
		if !known[name] {
			continue
		}
		row := Row{ItemName: name, Cells: make([]Cell, 0, len(markets))}

		var (
			min, max, sum decimal.Decimal
			available     int
		)
		for _, m := range markets {
			cell := Cell{
				MarketID:     m.ID,
				MarketNameEn: m.NameEn,
				MarketNameKm: m.NameKm,
			}
			for i := range m.Items {
				if m.Items[i].NameEn == name {
					p := m.Items[i].Price
					cell.Price = &p
					cell.Available = true
					break
				}
			}
			if cell.Available {
				p := *cell.Price
				if available == 0 || p.LessThan(min) {
					min = p
				}
				if available == 0 || p.GreaterThan(max) {
					max = p
				}
				sum = sum.Add(p)
				available++
			}
			row.Cells = append(row.Cells, cell)
		}

		for i := range row.Cells {
			if !row.Cells[i].Available {
				continue
			}
			row.Cells[i].IsMinPrice = row.Cells[i].Price.Equal(min)
			row.Cells[i].IsMaxPrice = row.Cells[i].Price.Equal(max)
		}

		if available > 0 {
			avg := sum.DivRound(decimal.NewFromInt(int64(available)), avgScale)
			row.AvgPrice = &avg
		}
		rows = append(rows, row)
	}
	return rows
}

// SortRows orders rows by name (case-insensitive lexicographic) or by mean
// price over available cells, ascending or descending. Rows without a mean
// (no available cells) sort last regardless of direction. The sort is
// stable, so equal rows keep their selection order.
func SortRows(rows []Row, by string, descending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		switch by {
		case SortByAvgPrice:
			a, b := rows[i].AvgPrice, rows[j].AvgPrice
			if a == nil || b == nil {
				// nil means last in both directions, so "less" only when
				// the other side is the nil one.
				return b == nil && a != nil
			}
			if descending {
				return a.GreaterThan(*b)
			}
			return a.LessThan(*b)
		default:
			a := strings.ToLower(rows[i].ItemName)
			b := strings.ToLower(rows[j].ItemName)
			if descending {
				return a > b
			}
			return a < b
		}
	})
}
