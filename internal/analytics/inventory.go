package analytics

import (
	"math"

	"github.com/iliyamo/restaurante/internal/model"
)

// Stock levels.
const (
	StockCritical = "critical"
	StockLow      = "low"
	StockGood     = "good"
)

// UnknownCategory labels products without a (known) category.
const UnknownCategory = "Desconocida"

// InventoryItem is a product with its stock classification.
type InventoryItem struct {
	ProductID       int64   `json:"id_producto"`
	Nombre          string  `json:"nombre"`
	Categoria       string  `json:"categoria"`
	Stock           int     `json:"stock"`
	ReorderLevel    int     `json:"reorderLevel"`
	Status          string  `json:"status"`
	StockPercentage float64 `json:"stockPercentage"`
}

// StockStatus classifies stock against the reorder level: critical at or
// below half of it, low at or below it, good above.
func StockStatus(stock, reorderLevel int) string {
	switch {
	case 2*stock <= reorderLevel:
		return StockCritical
	case stock <= reorderLevel:
		return StockLow
	default:
		return StockGood
	}
}

// StockPercentage treats twice the reorder level as a full shelf.
func StockPercentage(stock, reorderLevel int) float64 {
	if reorderLevel <= 0 {
		return 100
	}
	pct := float64(stock) / float64(reorderLevel*2) * 100
	return math.Max(0, math.Min(100, math.Round(pct*10)/10))
}

// Inventory classifies every product. With lowOnly set only products at or
// below the reorder level are returned.
func Inventory(products []model.Product, categories []model.Category, reorderLevel int, lowOnly bool) []InventoryItem {
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Nombre
	}
	out := []InventoryItem{}
	for _, p := range products {
		if lowOnly && p.Stock > reorderLevel {
			continue
		}
		cat := UnknownCategory
		if p.IDCategoria != nil {
			if n, ok := names[*p.IDCategoria]; ok {
				cat = n
			}
		}
		out = append(out, InventoryItem{
			ProductID:       p.ID,
			Nombre:          p.Nombre,
			Categoria:       cat,
			Stock:           p.Stock,
			ReorderLevel:    reorderLevel,
			Status:          StockStatus(p.Stock, reorderLevel),
			StockPercentage: StockPercentage(p.Stock, reorderLevel),
		})
	}
	return out
}
