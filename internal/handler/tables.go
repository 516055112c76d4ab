package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"

	"github.com/iliyamo/restaurante/internal/analytics"
	"github.com/iliyamo/restaurante/internal/model"
	q "github.com/iliyamo/restaurante/internal/queue"
)

const (
	msgTableMissing = "Mesa no encontrada"
	qrSize          = 256
)

func (h *Handler) ListTables(c echo.Context) error { return list(c, h.Tables.List) }

func (h *Handler) GetTable(c echo.Context) error {
	return show(c, msgTableMissing, h.Tables.GetByID)
}

func (h *Handler) CreateTable(c echo.Context) error {
	var t model.Table
	if err := c.Bind(&t); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Tables.Create(ctx, t)
	if err != nil {
		return fail(c, err, msgTableMissing)
	}
	return created(c, "id_mesa", id)
}

func (h *Handler) UpdateTable(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var t model.Table
	if err := c.Bind(&t); err != nil {
		return invalidBody(c)
	}
	t.ID = id
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Tables.Update(ctx, t); err != nil {
		return fail(c, err, msgTableMissing)
	}
	return done(c, "Mesa actualizada")
}

func (h *Handler) DeleteTable(c echo.Context) error {
	return remove(c, msgTableMissing, "Mesa eliminada", h.Tables.Delete)
}

// AssignTable handles POST /api/mesas/:id/asignar {guests}.
func (h *Handler) AssignTable(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var body struct {
		Guests int `json:"guests"`
	}
	if err := c.Bind(&body); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Tables.Assign(ctx, id, body.Guests)
	if err != nil {
		return fail(c, err, msgTableMissing)
	}
	h.publish(c, q.TableAssigned, q.TableAssignedData{TableID: id, Guests: t.CurrentGuests})
	return c.JSON(http.StatusOK, t)
}

// VacateTable handles POST /api/mesas/:id/liberar. The earliest upcoming
// confirmed reservation of the table is cancelled with it.
func (h *Handler) VacateTable(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	res, err := h.Tables.Vacate(ctx, id, h.Now())
	if err != nil {
		return fail(c, err, msgTableMissing)
	}
	h.publish(c, q.TableVacated, q.TableVacatedData{TableID: id, CancelledReservationID: res.CancelledReservationID})
	return c.JSON(http.StatusOK, res)
}

// FloorPlan handles GET /api/mesas/plano.
func (h *Handler) FloorPlan(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	tables, err := h.Tables.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	reservations, err := h.Reservations.List(ctx)
	if err != nil {
		return fail(c, err, "")
	}
	return c.JSON(http.StatusOK, analytics.FloorPlan(tables, reservations, h.Now()))
}

// TableQR handles GET /api/mesas/:id/qr and returns a PNG linking to the
// table's ordering page.
func (h *Handler) TableQR(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	t, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, msgTableMissing)
	}
	png, err := qrcode.Encode(tableURL(h.Cfg.PublicBaseURL, t.NumeroMesa), qrcode.Medium, qrSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func tableURL(base string, number int) string {
	return fmt.Sprintf("%s/mesa/%d", strings.TrimRight(base, "/"), number)
}
