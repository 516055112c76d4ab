package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurante/internal/model"
)

// Dashboard is the landing page summary.
type Dashboard struct {
	RevenueToday     decimal.Decimal `json:"revenueToday"`
	RevenueYesterday decimal.Decimal `json:"revenueYesterday"`
	DailyGrowth      float64         `json:"dailyGrowth"`
	RevenueLastWeek  decimal.Decimal `json:"revenueLast7Days"`
	RevenuePrevWeek  decimal.Decimal `json:"revenuePrevious7Days"`
	WeeklyGrowth     float64         `json:"weeklyGrowth"`
	ActiveOrders     int             `json:"activeOrders"`
	OccupiedTables   int             `json:"occupiedTables"`
	TotalTables      int             `json:"totalTables"`
	OccupancyRate    float64         `json:"occupancyRate"`
}

// Growth is the percentage change from prev to cur. With no previous
// revenue it is 100 when anything was earned and 0 otherwise.
func Growth(cur, prev decimal.Decimal) float64 {
	if prev.IsZero() {
		if cur.IsPositive() {
			return 100
		}
		return 0
	}
	pct := cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100))
	return round1(pct.InexactFloat64())
}

// BuildDashboard computes revenue from the line items of delivered orders
// (today against yesterday, last seven days against the seven before),
// counts the orders still in the kitchen and the table occupancy.
func BuildDashboard(orders []model.Order, items []model.OrderItem, tables []model.Table, now time.Time) Dashboard {
	d := Dashboard{
		RevenueToday:     decimal.Zero,
		RevenueYesterday: decimal.Zero,
		RevenueLastWeek:  decimal.Zero,
		RevenuePrevWeek:  decimal.Zero,
	}

	byOrder := map[int64]decimal.Decimal{}
	for _, it := range items {
		byOrder[it.IDPedido] = byOrder[it.IDPedido].Add(it.Subtotal())
	}

	loc := now.Location()
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	for _, o := range orders {
		if o.Estado.Active() {
			d.ActiveOrders++
		}
		if o.Estado != model.OrderDelivered {
			continue
		}
		at, err := model.ParseTimestamp(o.Fecha, loc)
		if err != nil {
			continue
		}
		at = at.In(loc)
		rev := byOrder[o.ID]
		switch day := startOfDay(at); {
		case day.Equal(today):
			d.RevenueToday = d.RevenueToday.Add(rev)
		case day.Equal(yesterday):
			d.RevenueYesterday = d.RevenueYesterday.Add(rev)
		}
		age := now.Sub(at).Hours() / 24
		switch {
		case age <= 7:
			d.RevenueLastWeek = d.RevenueLastWeek.Add(rev)
		case age <= 14:
			d.RevenuePrevWeek = d.RevenuePrevWeek.Add(rev)
		}
	}
	d.DailyGrowth = Growth(d.RevenueToday, d.RevenueYesterday)
	d.WeeklyGrowth = Growth(d.RevenueLastWeek, d.RevenuePrevWeek)

	d.TotalTables = len(tables)
	for _, t := range tables {
		if t.Estado == model.TableOccupied {
			d.OccupiedTables++
		}
	}
	if d.TotalTables > 0 {
		d.OccupancyRate = round1(float64(d.OccupiedTables) / float64(d.TotalTables) * 100)
	}
	return d
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
