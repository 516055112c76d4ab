package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurante/internal/model"
)

type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// NewOrderItem is a line item submitted together with a new order or on
// its own. A nil PrecioUnitario means "use the product's current price".
type NewOrderItem struct {
	IDPedido       int64            `json:"id_pedido"`
	IDProducto     int64            `json:"id_producto"`
	Cantidad       int              `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
}

const orderColumns = "id_pedido, id_cliente, id_empleado, id_mesa, fecha, total, estado"

func scanOrder(s interface{ Scan(...any) error }) (model.Order, error) {
	var o model.Order
	err := s.Scan(&o.ID, &o.IDCliente, &o.IDEmpleado, &o.IDMesa, &o.Fecha, &o.Total, &o.Estado)
	return o, err
}

func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+orderColumns+" FROM Pedidos ORDER BY id_pedido")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (model.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM Pedidos WHERE id_pedido = ?", id))
	return o, notFound(err)
}

// Items lists the line items of one order. ErrNotFound is returned when
// the order itself does not exist.
func (r *OrderRepo) Items(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	ok, err := exists(ctx, r.DB, "SELECT 1 FROM Pedidos WHERE id_pedido = ?", orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return listItems(ctx, r.DB, "WHERE id_pedido = ?", orderID)
}

// Create inserts the order and its line items in one transaction. When
// items are given the stored total is computed from them and o.Total is
// ignored.
func (r *OrderRepo) Create(ctx context.Context, o model.Order, items []NewOrderItem) (int64, error) {
	var id int64
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var err error
		id, err = insertID(ctx, tx,
			"INSERT INTO Pedidos (id_cliente, id_empleado, id_mesa, fecha, total, estado) VALUES (?, ?, ?, ?, ?, ?)",
			o.IDCliente, o.IDEmpleado, o.IDMesa, o.Fecha, o.Total, o.Estado)
		if err != nil {
			return err
		}
		for _, it := range items {
			it.IDPedido = id
			if _, err := insertItem(ctx, tx, it); err != nil {
				return err
			}
		}
		if len(items) > 0 {
			_, err = recomputeOrderTotal(ctx, tx, id)
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces every column of the order. If the order has line items
// the total is recomputed from them instead of taken from o.
func (r *OrderRepo) Update(ctx context.Context, o model.Order) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := execAffecting(ctx, tx,
			"UPDATE Pedidos SET id_cliente = ?, id_empleado = ?, id_mesa = ?, fecha = ?, total = ?, estado = ? WHERE id_pedido = ?",
			o.IDCliente, o.IDEmpleado, o.IDMesa, o.Fecha, o.Total, o.Estado, o.ID); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM Detalles_Pedidos WHERE id_pedido = ?", o.ID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			_, err := recomputeOrderTotal(ctx, tx, o.ID)
			return err
		}
		return nil
	})
}

// UpdateStatus changes only the status column and returns the previous
// status. With strict set, moves outside the transition table fail with
// ErrInvalidTransition and nothing is written.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, next model.OrderStatus, strict bool) (model.OrderStatus, error) {
	if !next.Valid() {
		return "", invalid(fmt.Sprintf("unknown order status %q", next))
	}
	var prev model.OrderStatus
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			"SELECT estado FROM Pedidos WHERE id_pedido = ?", id).Scan(&prev); err != nil {
			return notFound(err)
		}
		if strict && !prev.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, next)
		}
		return execAffecting(ctx, tx, "UPDATE Pedidos SET estado = ? WHERE id_pedido = ?", next, id)
	})
	return prev, err
}

// Delete removes the order's payments, then its line items, then the
// order row. A failure at any step rolls back all of them.
func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM Pagos WHERE id_pedido = ?", id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM Detalles_Pedidos WHERE id_pedido = ?", id); err != nil {
			return err
		}
		return execAffecting(ctx, tx, "DELETE FROM Pedidos WHERE id_pedido = ?", id)
	})
}

// recomputeOrderTotal stores Σ cantidad × precio_unitario as the order's
// total and returns it.
func recomputeOrderTotal(ctx context.Context, q querier, orderID int64) (decimal.Decimal, error) {
	items, err := listItems(ctx, q, "WHERE id_pedido = ?", orderID)
	if err != nil {
		return decimal.Zero, err
	}
	total := model.SumItems(items)
	if err := execAffecting(ctx, q, "UPDATE Pedidos SET total = ? WHERE id_pedido = ?", total, orderID); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// insertItem validates and inserts one line item, snapshotting the
// product price when none was supplied.
func insertItem(ctx context.Context, q querier, it NewOrderItem) (int64, error) {
	price, err := itemPrice(ctx, q, it)
	if err != nil {
		return 0, err
	}
	return insertID(ctx, q,
		"INSERT INTO Detalles_Pedidos (id_pedido, id_producto, cantidad, precio_unitario) VALUES (?, ?, ?, ?)",
		it.IDPedido, it.IDProducto, it.Cantidad, price)
}

func itemPrice(ctx context.Context, q querier, it NewOrderItem) (decimal.Decimal, error) {
	if it.Cantidad <= 0 {
		return decimal.Zero, invalid("cantidad must be greater than zero")
	}
	if it.PrecioUnitario != nil && it.PrecioUnitario.IsNegative() {
		return decimal.Zero, invalid("precio_unitario must not be negative")
	}
	var price decimal.Decimal
	err := q.QueryRowContext(ctx, "SELECT precio FROM Productos WHERE id_producto = ?", it.IDProducto).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, invalid(fmt.Sprintf("unknown product %d", it.IDProducto))
	}
	if err != nil {
		return decimal.Zero, err
	}
	if it.PrecioUnitario != nil {
		return *it.PrecioUnitario, nil
	}
	return price, nil
}
