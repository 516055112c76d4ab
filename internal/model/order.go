package model

import "github.com/shopspring/decimal"

// OrderStatus is the lifecycle state stored in Pedidos.estado.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pendiente"
	OrderPreparing OrderStatus = "preparando"
	OrderReady     OrderStatus = "listo"
	OrderDelivered OrderStatus = "entregado"
	OrderCancelled OrderStatus = "cancelado"
)

// orderTransitions lists the forward moves out of each status. Delivered
// and cancelled orders have nowhere to go.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderDelivered, OrderCancelled},
	OrderDelivered: nil,
	OrderCancelled: nil,
}

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Active reports whether the kitchen still has work to do for the order.
func (s OrderStatus) Active() bool {
	return s == OrderPending || s == OrderPreparing || s == OrderReady
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// CanTransition reports whether an order in status s may move to next.
// Setting the status it already has is always allowed.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a row of `Pedidos`. Customer, employee and table references are
// optional. Total is the sum of the line items whenever the order has any.
type Order struct {
	ID         int64           `json:"id_pedido"`
	IDCliente  *int64          `json:"id_cliente"`
	IDEmpleado *int64          `json:"id_empleado"`
	IDMesa     *int64          `json:"id_mesa"`
	Fecha      string          `json:"fecha"`
	Total      decimal.Decimal `json:"total"`
	Estado     OrderStatus     `json:"estado"`
}

// OrderItem is a row of `Detalles_Pedidos`. PrecioUnitario is a snapshot
// taken when the item was added and does not follow later price changes.
type OrderItem struct {
	ID             int64           `json:"id_detalle"`
	IDPedido       int64           `json:"id_pedido"`
	IDProducto     int64           `json:"id_producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// Subtotal is cantidad × precio_unitario.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PrecioUnitario.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// SumItems adds up the subtotals of items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
