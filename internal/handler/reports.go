package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/analytics"
)

// SalesSummary handles GET /api/analytics/resumen.
func (h *Handler) SalesSummary(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	orders, err := h.Orders.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	items, err := h.OrderItems.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	products, err := h.Products.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, analytics.Sales(orders, items, products, h.Now()))
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	orders, err := h.Orders.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	items, err := h.OrderItems.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	tables, err := h.Tables.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, analytics.BuildDashboard(orders, items, tables, h.Now()))
}

// Inventory handles GET /api/inventario.
func (h *Handler) Inventory(c echo.Context) error { return h.inventory(c, false) }

// LowStock handles GET /api/inventario/bajo-stock.
func (h *Handler) LowStock(c echo.Context) error { return h.inventory(c, true) }

func (h *Handler) inventory(c echo.Context, lowOnly bool) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	products, err := h.Products.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	categories, err := h.Categories.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, analytics.Inventory(products, categories, h.Cfg.ReorderLevel, lowOnly))
}
