package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurante/internal/model"
	q "github.com/iliyamo/restaurante/internal/queue"
	"github.com/iliyamo/restaurante/internal/repository"
)

const (
	msgOrderMissing = "Pedido no encontrado"
	msgItemMissing  = "Detalle de pedido no encontrado"
)

// orderRequest is the body of POST and PUT /api/pedidos. Every field is
// optional so a body carrying only estado can be told apart from a full
// replacement.
type orderRequest struct {
	IDCliente  *int64                    `json:"id_cliente"`
	IDEmpleado *int64                    `json:"id_empleado"`
	IDMesa     *int64                    `json:"id_mesa"`
	Fecha      *string                   `json:"fecha"`
	Total      *decimal.Decimal          `json:"total"`
	Estado     *model.OrderStatus        `json:"estado"`
	Detalles   []repository.NewOrderItem `json:"detalles"`
}

func (r orderRequest) statusOnly() bool {
	return r.Estado != nil && r.IDCliente == nil && r.IDEmpleado == nil && r.IDMesa == nil &&
		r.Fecha == nil && r.Total == nil && r.Detalles == nil
}

func (r orderRequest) order(id int64) model.Order {
	o := model.Order{ID: id, IDCliente: r.IDCliente, IDEmpleado: r.IDEmpleado, IDMesa: r.IDMesa}
	if r.Fecha != nil {
		o.Fecha = *r.Fecha
	}
	if r.Total != nil {
		o.Total = *r.Total
	}
	if r.Estado != nil {
		o.Estado = *r.Estado
	}
	return o
}

func checkFecha(s string) string {
	if _, err := model.ParseTimestamp(s, nil); err != nil {
		return "fecha inválida"
	}
	return ""
}

func (h *Handler) ListOrders(c echo.Context) error { return list(c, h.Orders.List) }

func (h *Handler) GetOrder(c echo.Context) error {
	return show(c, msgOrderMissing, h.Orders.GetByID)
}

// ListOrderItems handles GET /api/pedidos/:id/detalles.
func (h *Handler) ListOrderItems(c echo.Context) error {
	return show(c, msgOrderMissing, h.Orders.Items)
}

// CreateOrder inserts an order, optionally with its line items. New orders
// start pendiente and default to the current time.
func (h *Handler) CreateOrder(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	o := req.order(0)
	if o.Estado == "" {
		o.Estado = model.OrderPending
	}
	if !o.Estado.Valid() {
		return badRequest(c, "estado inválido")
	}
	if o.Fecha == "" {
		o.Fecha = model.FormatTimestamp(h.Now())
	} else if msg := checkFecha(o.Fecha); msg != "" {
		return badRequest(c, msg)
	}
	if o.Total.IsNegative() {
		return badRequest(c, "total no puede ser negativo")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.Orders.Create(ctx, o, req.Detalles)
	if err != nil {
		return fail(c, err, msgOrderMissing)
	}
	if stored, err := h.Orders.GetByID(ctx, id); err == nil {
		o = stored
	}
	h.publish(c, q.OrderCreated, q.OrderCreatedData{OrderID: id, TableID: o.IDMesa, Total: o.Total, Status: string(o.Estado)})
	return created(c, "id_pedido", id)
}

// UpdateOrder handles PUT /api/pedidos/:id. A body holding only estado
// changes the status and nothing else; any other body replaces the row.
func (h *Handler) UpdateOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.statusOnly() {
		return h.changeStatus(c, id, *req.Estado)
	}
	if req.Fecha == nil || req.Estado == nil {
		return badRequest(c, "fecha y estado son requeridos")
	}
	o := req.order(id)
	if !o.Estado.Valid() {
		return badRequest(c, "estado inválido")
	}
	if msg := checkFecha(o.Fecha); msg != "" {
		return badRequest(c, msg)
	}
	if o.Total.IsNegative() {
		return badRequest(c, "total no puede ser negativo")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()
	cur, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		return fail(c, err, msgOrderMissing)
	}
	if h.Cfg.StrictOrderTransitions && !cur.Estado.CanTransition(o.Estado) {
		return fail(c, repository.ErrInvalidTransition, msgOrderMissing)
	}
	if err := h.Orders.Update(ctx, o); err != nil {
		return fail(c, err, msgOrderMissing)
	}
	if cur.Estado != o.Estado {
		h.publish(c, q.OrderStatusChanged, q.OrderStatusChangedData{OrderID: id, From: string(cur.Estado), To: string(o.Estado)})
	}
	return done(c, "Pedido actualizado")
}

// UpdateOrderStatus handles PATCH /api/pedidos/:id/estado.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var body struct {
		Estado *model.OrderStatus `json:"estado"`
	}
	if err := c.Bind(&body); err != nil {
		return invalidBody(c)
	}
	if body.Estado == nil {
		return badRequest(c, "estado es requerido")
	}
	return h.changeStatus(c, id, *body.Estado)
}

func (h *Handler) changeStatus(c echo.Context, id int64, next model.OrderStatus) error {
	if !next.Valid() {
		return badRequest(c, "estado inválido")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	prev, err := h.Orders.UpdateStatus(ctx, id, next, h.Cfg.StrictOrderTransitions)
	if err != nil {
		return fail(c, err, msgOrderMissing)
	}
	if prev != next {
		h.publish(c, q.OrderStatusChanged, q.OrderStatusChangedData{OrderID: id, From: string(prev), To: string(next)})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Estado del pedido actualizado", "estado": next})
}

// DeleteOrder removes the order with its payments and line items.
func (h *Handler) DeleteOrder(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Orders.Delete(ctx, id); err != nil {
		return fail(c, err, msgOrderMissing)
	}
	h.publish(c, q.OrderDeleted, q.OrderDeletedData{OrderID: id})
	return done(c, "Pedido y sus detalles eliminados")
}

func (h *Handler) ListItems(c echo.Context) error { return list(c, h.OrderItems.List) }

func (h *Handler) GetItem(c echo.Context) error {
	return show(c, msgItemMissing, h.OrderItems.GetByID)
}

func validItem(it repository.NewOrderItem) string {
	switch {
	case it.IDPedido <= 0:
		return "id_pedido es requerido"
	case it.IDProducto <= 0:
		return "id_producto es requerido"
	case it.Cantidad <= 0:
		return "cantidad debe ser mayor que cero"
	}
	return ""
}

// CreateItem adds a line item and refreshes the order total.
func (h *Handler) CreateItem(c echo.Context) error {
	var it repository.NewOrderItem
	if err := c.Bind(&it); err != nil {
		return invalidBody(c)
	}
	if msg := validItem(it); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	id, err := h.OrderItems.Create(ctx, it)
	if err != nil {
		return fail(c, err, msgItemMissing)
	}
	return created(c, "id_detalle", id)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var it repository.NewOrderItem
	if err := c.Bind(&it); err != nil {
		return invalidBody(c)
	}
	if msg := validItem(it); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.OrderItems.Update(ctx, id, it); err != nil {
		return fail(c, err, msgItemMissing)
	}
	return done(c, "Detalle de pedido actualizado")
}

func (h *Handler) DeleteItem(c echo.Context) error {
	return remove(c, msgItemMissing, "Detalle de pedido eliminado", h.OrderItems.Delete)
}
