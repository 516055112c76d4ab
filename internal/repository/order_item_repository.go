package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurante/internal/model"
)

// OrderItemRepo manages Detalles_Pedidos. Every write also refreshes the
// total of the affected order inside the same transaction.
type OrderItemRepo struct{ DB *sql.DB }

func NewOrderItemRepo(db *sql.DB) *OrderItemRepo { return &OrderItemRepo{DB: db} }

const itemColumns = "id_detalle, id_pedido, id_producto, cantidad, precio_unitario"

func listItems(ctx context.Context, q querier, where string, args ...any) ([]model.OrderItem, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+itemColumns+" FROM Detalles_Pedidos "+where+" ORDER BY id_detalle", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.IDPedido, &it.IDProducto, &it.Cantidad, &it.PrecioUnitario); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderItemRepo) List(ctx context.Context) ([]model.OrderItem, error) {
	return listItems(ctx, r.DB, "")
}

func (r *OrderItemRepo) GetByID(ctx context.Context, id int64) (model.OrderItem, error) {
	var it model.OrderItem
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM Detalles_Pedidos WHERE id_detalle = ?", id).
		Scan(&it.ID, &it.IDPedido, &it.IDProducto, &it.Cantidad, &it.PrecioUnitario)
	return it, notFound(err)
}

// Create adds a line item to an existing order.
func (r *OrderItemRepo) Create(ctx context.Context, it NewOrderItem) (int64, error) {
	var id int64
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "SELECT 1 FROM Pedidos WHERE id_pedido = ?", it.IDPedido)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("unknown order")
		}
		if id, err = insertItem(ctx, tx, it); err != nil {
			return err
		}
		_, err = recomputeOrderTotal(ctx, tx, it.IDPedido)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the line item. If it moved to another order both totals
// are refreshed.
func (r *OrderItemRepo) Update(ctx context.Context, id int64, it NewOrderItem) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var prevOrder int64
		if err := tx.QueryRowContext(ctx,
			"SELECT id_pedido FROM Detalles_Pedidos WHERE id_detalle = ?", id).Scan(&prevOrder); err != nil {
			return notFound(err)
		}
		if prevOrder != it.IDPedido {
			ok, err := exists(ctx, tx, "SELECT 1 FROM Pedidos WHERE id_pedido = ?", it.IDPedido)
			if err != nil {
				return err
			}
			if !ok {
				return invalid("unknown order")
			}
		}
		price, err := itemPrice(ctx, tx, it)
		if err != nil {
			return err
		}
		if err := execAffecting(ctx, tx,
			"UPDATE Detalles_Pedidos SET id_pedido = ?, id_producto = ?, cantidad = ?, precio_unitario = ? WHERE id_detalle = ?",
			it.IDPedido, it.IDProducto, it.Cantidad, price, id); err != nil {
			return err
		}
		if _, err := recomputeOrderTotal(ctx, tx, it.IDPedido); err != nil {
			return err
		}
		if prevOrder != it.IDPedido {
			if _, err := recomputeOrderTotal(ctx, tx, prevOrder); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the line item and refreshes its order's total.
func (r *OrderItemRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var orderID int64
		if err := tx.QueryRowContext(ctx,
			"SELECT id_pedido FROM Detalles_Pedidos WHERE id_detalle = ?", id).Scan(&orderID); err != nil {
			return notFound(err)
		}
		if err := execAffecting(ctx, tx, "DELETE FROM Detalles_Pedidos WHERE id_detalle = ?", id); err != nil {
			return err
		}
		_, err := recomputeOrderTotal(ctx, tx, orderID)
		return err
	})
}
