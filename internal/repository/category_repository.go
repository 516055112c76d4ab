package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/restaurante/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id_categoria, nombre FROM Categorias_Producto ORDER BY id_categoria")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Nombre); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id_categoria, nombre FROM Categorias_Producto WHERE id_categoria = ?", id).
		Scan(&c.ID, &c.Nombre)
	return c, notFound(err)
}

func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (int64, error) {
	return insertID(ctx, r.DB, "INSERT INTO Categorias_Producto (nombre) VALUES (?)", c.Nombre)
}

func (r *CategoryRepo) Update(ctx context.Context, c model.Category) error {
	return execAffecting(ctx, r.DB,
		"UPDATE Categorias_Producto SET nombre = ? WHERE id_categoria = ?", c.Nombre, c.ID)
}

// Delete removes a category. Products still pointing at it are moved to
// reassignTo in the same transaction; when reassignTo is nil and products
// exist, a *CategoryInUseError is returned and nothing changes.
func (r *CategoryRepo) Delete(ctx context.Context, id int64, reassignTo *int64) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, "SELECT 1 FROM Categorias_Producto WHERE id_categoria = ?", id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		var products int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM Productos WHERE id_categoria = ?", id).Scan(&products); err != nil {
			return err
		}

		if products > 0 {
			if reassignTo == nil {
				return &CategoryInUseError{Products: products}
			}
			if *reassignTo == id {
				return invalid("cannot reassign products to the category being deleted")
			}
			ok, err := exists(ctx, tx, "SELECT 1 FROM Categorias_Producto WHERE id_categoria = ?", *reassignTo)
			if err != nil {
				return err
			}
			if !ok {
				return ErrNotFound
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE Productos SET id_categoria = ? WHERE id_categoria = ?", *reassignTo, id); err != nil {
				return err
			}
		}

		return execAffecting(ctx, tx, "DELETE FROM Categorias_Producto WHERE id_categoria = ?", id)
	})
}
