// Package analytics derives read-only views (sales summary, dashboard,
// inventory, floor plan) from full collections. Nothing is stored; every
// call recomputes from its inputs.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurante/internal/model"
)

// UnknownProduct names line items whose product no longer exists.
const UnknownProduct = "Producto Desconocido"

var weekdayLabels = [7]string{"lun", "mar", "mié", "jue", "vie", "sáb", "dom"}

// DayRevenue is the revenue of one day of the current week.
type DayRevenue struct {
	Date    string          `json:"date"`
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopDish is a product ranked by line-item revenue.
type TopDish struct {
	ProductID int64           `json:"id_producto"`
	Name      string          `json:"name"`
	Orders    int             `json:"orders"` // units sold
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesSummary is the analytics page.
type SalesSummary struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	WeeklyRevenue     decimal.Decimal `json:"weeklyRevenue"`
	RevenueByDay      []DayRevenue    `json:"revenueByDay"`
	TopDishes         []TopDish       `json:"topDishes"`
	PeakHour          int             `json:"peakHour"`
	PeakHourRange     string          `json:"peakHourRange"`
}

// WeekStart returns the most recent Monday at 00:00 in now's location.
func WeekStart(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// Sales builds the summary from every order and line item. Order dates
// that cannot be parsed count towards the totals but not the weekly
// figures or the peak hour.
func Sales(orders []model.Order, items []model.OrderItem, products []model.Product, now time.Time) SalesSummary {
	s := SalesSummary{
		TotalOrders:       len(orders),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		WeeklyRevenue:     decimal.Zero,
		PeakHour:          -1,
		PeakHourRange:     "N/A",
	}

	start := WeekStart(now)
	end := start.AddDate(0, 0, 7)
	s.RevenueByDay = make([]DayRevenue, 7)
	for i := range s.RevenueByDay {
		s.RevenueByDay[i] = DayRevenue{
			Date:    start.AddDate(0, 0, i).Format("2006-01-02"),
			Day:     weekdayLabels[i],
			Revenue: decimal.Zero,
		}
	}

	var hourCounts [24]int
	for _, o := range orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.Total)
		at, err := model.ParseTimestamp(o.Fecha, now.Location())
		if err != nil {
			continue
		}
		at = at.In(now.Location())
		hourCounts[at.Hour()]++
		if !at.Before(start) && at.Before(end) {
			s.WeeklyRevenue = s.WeeklyRevenue.Add(o.Total)
			day := (int(at.Weekday()) + 6) % 7
			s.RevenueByDay[day].Revenue = s.RevenueByDay[day].Revenue.Add(o.Total)
		}
	}
	if len(orders) > 0 {
		s.AverageOrderValue = s.TotalRevenue.DivRound(decimal.NewFromInt(int64(len(orders))), 2)
	}

	// The first hour reaching the maximum wins.
	best := 0
	for h, n := range hourCounts {
		if n > best {
			best, s.PeakHour = n, h
		}
	}
	if s.PeakHour >= 0 {
		s.PeakHourRange = fmt.Sprintf("%d:00 - %d:00", s.PeakHour, s.PeakHour+1)
	}

	s.TopDishes = TopDishes(items, products, 4)
	return s
}

// TopDishes ranks products by line-item revenue, highest first, keeping at
// most limit entries. Ties go to the lower product id.
func TopDishes(items []model.OrderItem, products []model.Product, limit int) []TopDish {
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Nombre
	}
	byProduct := map[int64]*TopDish{}
	for _, it := range items {
		d, ok := byProduct[it.IDProducto]
		if !ok {
			name, known := names[it.IDProducto]
			if !known {
				name = UnknownProduct
			}
			d = &TopDish{ProductID: it.IDProducto, Name: name, Revenue: decimal.Zero}
			byProduct[it.IDProducto] = d
		}
		d.Orders += it.Cantidad
		d.Revenue = d.Revenue.Add(it.Subtotal())
	}

	out := make([]TopDish, 0, len(byProduct))
	for _, d := range byProduct {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
