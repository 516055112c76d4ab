package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurante/internal/model"
)

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id_producto, nombre, descripcion, precio, stock, id_categoria"

func scanProduct(s interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := s.Scan(&p.ID, &p.Nombre, &p.Descripcion, &p.Precio, &p.Stock, &p.IDCategoria)
	return p, err
}

func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+productColumns+" FROM Productos ORDER BY id_producto")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM Productos WHERE id_producto = ?", id))
	return p, notFound(err)
}

func (r *ProductRepo) Create(ctx context.Context, p model.Product) (int64, error) {
	return insertID(ctx, r.DB,
		"INSERT INTO Productos (nombre, descripcion, precio, stock, id_categoria) VALUES (?, ?, ?, ?, ?)",
		p.Nombre, p.Descripcion, p.Precio, p.Stock, p.IDCategoria)
}

// Update replaces every column of the product. Existing line items keep
// the unit price they were created with.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	return execAffecting(ctx, r.DB,
		"UPDATE Productos SET nombre = ?, descripcion = ?, precio = ?, stock = ?, id_categoria = ? WHERE id_producto = ?",
		p.Nombre, p.Descripcion, p.Precio, p.Stock, p.IDCategoria, p.ID)
}

// Delete removes the product together with every line item that refers to
// it, then recomputes the totals of the orders those items belonged to.
// All of it happens in one transaction.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		orderIDs, err := int64Column(ctx, tx,
			"SELECT DISTINCT id_pedido FROM Detalles_Pedidos WHERE id_producto = ? ORDER BY id_pedido", id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM Detalles_Pedidos WHERE id_producto = ?", id); err != nil {
			return err
		}
		if err := execAffecting(ctx, tx, "DELETE FROM Productos WHERE id_producto = ?", id); err != nil {
			return err
		}
		for _, orderID := range orderIDs {
			if _, err := recomputeOrderTotal(ctx, tx, orderID); err != nil {
				return err
			}
		}
		return nil
	})
}

// int64Column collects the first column of every row.
func int64Column(ctx context.Context, q querier, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
