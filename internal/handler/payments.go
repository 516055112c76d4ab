package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurante/internal/model"
)

const (
	msgPaymentMissing = "Pago no encontrado"
	msgMethodMissing  = "Método de pago no encontrado"
)

// validPayment defaults fecha to now and checks the rest.
func (h *Handler) validPayment(p *model.Payment) string {
	if p.IDPedido <= 0 {
		return "id_pedido es requerido"
	}
	if p.Monto.IsNegative() {
		return "monto no puede ser negativo"
	}
	if p.Fecha == "" {
		p.Fecha = model.FormatTimestamp(h.Now())
		return ""
	}
	return checkFecha(p.Fecha)
}

func (h *Handler) ListPayments(c echo.Context) error { return list(c, h.Payments.List) }

func (h *Handler) GetPayment(c echo.Context) error {
	return show(c, msgPaymentMissing, h.Payments.GetByID)
}

func (h *Handler) CreatePayment(c echo.Context) error {
	var p model.Payment
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if msg := h.validPayment(&p); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Payments.Create(ctx, p)
	if err != nil {
		return fail(c, err, msgPaymentMissing)
	}
	return created(c, "id_pago", id)
}

func (h *Handler) UpdatePayment(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var p model.Payment
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	p.ID = id
	if msg := h.validPayment(&p); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Payments.Update(ctx, p); err != nil {
		return fail(c, err, msgPaymentMissing)
	}
	return done(c, "Pago actualizado")
}

func (h *Handler) DeletePayment(c echo.Context) error {
	return remove(c, msgPaymentMissing, "Pago eliminado", h.Payments.Delete)
}

func (h *Handler) ListPaymentMethods(c echo.Context) error { return list(c, h.PaymentMethods.List) }

func (h *Handler) GetPaymentMethod(c echo.Context) error {
	return show(c, msgMethodMissing, h.PaymentMethods.GetByID)
}

func (h *Handler) CreatePaymentMethod(c echo.Context) error {
	var m model.PaymentMethod
	if err := c.Bind(&m); err != nil {
		return invalidBody(c)
	}
	if m.Nombre = strings.TrimSpace(m.Nombre); m.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.PaymentMethods.Create(ctx, m)
	if err != nil {
		return fail(c, err, msgMethodMissing)
	}
	return created(c, "id_metodo_pago", id)
}

func (h *Handler) UpdatePaymentMethod(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var m model.PaymentMethod
	if err := c.Bind(&m); err != nil {
		return invalidBody(c)
	}
	m.ID = id
	if m.Nombre = strings.TrimSpace(m.Nombre); m.Nombre == "" {
		return badRequest(c, "nombre es requerido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.PaymentMethods.Update(ctx, m); err != nil {
		return fail(c, err, msgMethodMissing)
	}
	return done(c, "Método de pago actualizado")
}

func (h *Handler) DeletePaymentMethod(c echo.Context) error {
	return remove(c, msgMethodMissing, "Método de pago eliminado", h.PaymentMethods.Delete)
}
